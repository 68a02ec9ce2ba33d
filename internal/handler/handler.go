package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/cinebot/internal/config"
	"github.com/user/cinebot/internal/middleware"
	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/repository"
	"github.com/user/cinebot/internal/service"
	"github.com/user/cinebot/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config      *config.Config
	Users       service.UserStore
	Catalog     *service.Catalog
	Query       *service.QueryService
	Recommender *service.Recommender
	Watchlists  *service.WatchlistService
	Sessions    *service.SessionManager
	Bus         *service.Bus
}

// NewHandler 创建处理器并组装服务
func NewHandler(cfg *config.Config, store service.RecordStore, users service.UserStore, cache service.LocalCache) *Handler {
	bus := service.NewBus()
	catalog := service.NewCatalog(store, cache)
	query := service.NewQueryService(catalog, cfg.QueryCacheSize, cfg.QueryCacheTTL)
	recommender := service.NewRecommender(cfg.RecommendLimit, service.ParseShuffleMode(cfg.RecommendShuffle), nil)
	watchlists := service.NewWatchlistService(store, cache, bus)
	sessionManager := service.NewSessionManager(cfg.SessionCacheSize, catalog, query, recommender, watchlists, bus)

	return &Handler{
		Config:      cfg,
		Users:       users,
		Catalog:     catalog,
		Query:       query,
		Recommender: recommender,
		Watchlists:  watchlists,
		Sessions:    sessionManager,
		Bus:         bus,
	}
}

// MovieView 展示用的电影数据
type MovieView struct {
	model.Movie
	InWatchlist      bool   `json:"in_watchlist"`
	FallbackImageURL string `json:"fallback_image_url"`
}

func toViews(movies []model.Movie, w model.Watchlist) []MovieView {
	views := make([]MovieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, MovieView{
			Movie:            m,
			InWatchlist:      w.Has(m.ID),
			FallbackImageURL: utils.FallbackPoster(m.Title),
		})
	}
	return views
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)
	res["IsAdmin"] = middleware.IsAdmin(c)

	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch path {
	case "/":
		return "home"
	case "/watchlist":
		return "watchlist"
	default:
		return ""
	}
}

// ==================== 页面 ====================

// Home 电影目录页：过滤模式或推荐模式
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	var filters model.SearchFilters
	var formError string
	if err := c.ShouldBindQuery(&filters); err != nil {
		formError = "Minimum rating must be between 0 and 10"
		filters = model.SearchFilters{Query: c.Query("q"), Genre: c.Query("genre"), Year: c.Query("year")}
	}

	recommendMode := c.Query("mode") == "recommend"
	var movies []model.Movie
	var genres []string
	if recommendMode {
		rec := sess.Recommendations(ctx)
		movies, genres = rec.Movies, rec.Genres
	} else {
		sess.SetRecommendMode(false)
		movies = sess.Movies(ctx, filters)
	}

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":           h.Config.SiteName + " - Movies",
		"Movies":          toViews(movies, sess.Watchlist()),
		"Filters":         filters,
		"Options":         service.NewFilterOptions(timeNow()),
		"RecommendMode":   recommendMode,
		"PreferredGenres": genres,
		"Error":           formError,
	}))
}

// WatchlistPage 待看列表页
func (h *Handler) WatchlistPage(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	c.HTML(http.StatusOK, "watchlist.html", h.RenderData(c, gin.H{
		"Title":  "Watchlist - " + h.Config.SiteName,
		"Movies": toViews(sess.WatchlistMovies(ctx), sess.Watchlist()),
	}))
}

// ToggleWatchlistForm 页面表单切换待看状态，完成后跳回来源页
func (h *Handler) ToggleWatchlistForm(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	if _, _, err := sess.Toggle(ctx, c.Param("id")); err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "Movie not found - " + h.Config.SiteName,
		}))
		return
	}

	back := c.PostForm("redirect")
	if back == "" || !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	c.Redirect(http.StatusFound, back)
}

// ==================== 认证 ====================

// LoginPage 登录页
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "Sign in - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	if redirect == "" || !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		redirect = "/"
	}

	user, err := h.Users.FindByEmail(email)
	if err != nil || user == nil || !h.Users.CheckPassword(user, password) {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title":    "Sign in - " + h.Config.SiteName,
			"Error":    "Invalid email or password",
			"Redirect": redirect,
		}))
		return
	}

	if err := h.signIn(c, user); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", h.RenderData(c, gin.H{
			"Title": "Sign in - " + h.Config.SiteName,
			"Error": "Sign in failed, please try again",
		}))
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// RegisterPage 注册页
func (h *Handler) RegisterPage(c *gin.Context) {
	if middleware.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "Sign up - " + h.Config.SiteName,
	}))
}

// Register 注册并登录
func (h *Handler) Register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	renderError := func(status int, msg string) {
		c.HTML(status, "register.html", h.RenderData(c, gin.H{
			"Title": "Sign up - " + h.Config.SiteName,
			"Error": msg,
		}))
	}

	if !strings.Contains(email, "@") {
		renderError(http.StatusOK, "Please enter a valid email")
		return
	}
	if password != confirmPassword {
		renderError(http.StatusOK, "Passwords do not match")
		return
	}
	if len(password) < 6 {
		renderError(http.StatusOK, "Password must be at least 6 characters")
		return
	}

	existing, _ := h.Users.FindByEmail(email)
	if existing != nil {
		renderError(http.StatusOK, "This email is already registered")
		return
	}

	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := strings.SplitN(email, "@", 2)[0]

	user, err := h.Users.Create(email, username, password)
	if errors.Is(err, repository.ErrEmailTaken) {
		renderError(http.StatusOK, "This email is already registered")
		return
	}
	if err != nil {
		renderError(http.StatusInternalServerError, "Sign up failed, please try again")
		return
	}

	if err := h.signIn(c, user); err != nil {
		renderError(http.StatusInternalServerError, "Sign up failed, please try again")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout 退出登录并结束会话
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userinfo, ok := session.Get("userinfo").(model.SessionUser); ok {
		h.Sessions.Drop(userinfo.ID)
	}

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	session.Clear()
	_ = session.Save()

	c.Redirect(http.StatusFound, "/auth/login")
}

// signIn 下发 JWT 并保存 Session
func (h *Handler) signIn(c *gin.Context, user *model.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	return session.Save()
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		utils.NotFound(c, "")
		return
	}
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Page not found - " + h.Config.SiteName,
	}))
}
