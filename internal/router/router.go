package router

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strconv"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/cinebot/internal/handler"
	"github.com/user/cinebot/internal/middleware"
	"github.com/user/cinebot/internal/utils"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 页面（需要登录）====================
	pages := r.Group("")
	pages.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		pages.GET("/", h.Home)
		pages.GET("/watchlist", h.WatchlistPage)
		pages.POST("/watchlist/:id/toggle", h.ToggleWatchlistForm)
	}

	// ==================== JSON API ====================
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		api.GET("/movies", h.ListMovies)
		api.GET("/recommendations", h.Recommendations)
		api.DELETE("/recommendations", h.LeaveRecommendations)
		api.GET("/watchlist", h.GetWatchlist)
		api.POST("/watchlist/:id/toggle", h.ToggleWatchlist)
		api.GET("/filters", h.FilterOptions)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/movies", h.AdminUpsertMovies)
		admin.POST("/movies/seed", h.AdminSeedMovies)
		admin.DELETE("/movies", h.AdminDeleteMovie)
		admin.POST("/catalog/reload", h.AdminReloadCatalog)
	}

	r.NoRoute(h.NotFound)
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(partials)+1)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"poster": utils.FallbackPoster,
		// 评分为 0 视为无评分
		"rating": func(r float64) string {
			if r == 0 {
				return "N/A"
			}
			return strconv.FormatFloat(r, 'f', 1, 64)
		},
		"ratingValue": func(r *float64) string {
			if r == nil {
				return ""
			}
			return strconv.FormatFloat(*r, 'f', -1, 64)
		},
		"itoa": strconv.Itoa,
	}

	// 注册所有页面模板
	pages := []string{"home", "watchlist", "login", "register", "404"}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
