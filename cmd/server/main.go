package main

import (
	"context"
	"encoding/gob"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/cinebot/internal/config"
	"github.com/user/cinebot/internal/handler"
	"github.com/user/cinebot/internal/middleware"
	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/repository"
	"github.com/user/cinebot/internal/router"
	"github.com/user/cinebot/internal/service"
	"github.com/user/cinebot/internal/utils"
)

func main() {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	// 初始化记录存储
	var store service.RecordStore
	var users service.UserStore
	switch cfg.RecordStore {
	case "memory":
		mem := repository.NewMemoryStore()
		store, users = mem, mem
		log.Println("使用内存记录存储")
	default:
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		repos := repository.NewRepositories(db)
		store, users = repos.Store(), repos.User
	}

	// 初始化本地缓存
	cache := utils.NewLocalCache()

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	sessionStore := cookie.NewStore([]byte(cfg.AppSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   false, // 非 HTTPS 环境必须为 false
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("cinebot_session", sessionStore))

	// 加载模板
	r.HTMLRender = router.LoadTemplates(cfg.TemplatesDir)

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())

	// 初始化 Handler
	h := handler.NewHandler(cfg, store, users, cache)

	// 启动目录定时刷新
	refresher := service.NewCatalogRefresher(h.Catalog, cfg.CatalogRefresh)
	refresher.Start()

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("服务器强制关闭:", err)
	}

	refresher.Stop()
	// 等待后台的待看列表写入完成
	h.Watchlists.Wait()
	h.Sessions.Close()

	log.Println("服务器已退出")
}
