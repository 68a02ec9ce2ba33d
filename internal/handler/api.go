package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinebot/internal/middleware"
	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/service"
	"github.com/user/cinebot/internal/utils"
)

var timeNow = time.Now

// ListMovies 过滤后的电影目录
func (h *Handler) ListMovies(c *gin.Context) {
	var filters model.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequest(c, "min_rating 需在 0 到 10 之间")
		return
	}

	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))
	sess.SetRecommendMode(false)

	movies := sess.Movies(ctx, filters)
	utils.Success(c, gin.H{
		"movies": toViews(movies, sess.Watchlist()),
		"total":  len(movies),
	})
}

// Recommendations 进入推荐模式并返回推荐结果
func (h *Handler) Recommendations(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	rec := sess.Recommendations(ctx)
	utils.Success(c, gin.H{
		"movies":           toViews(rec.Movies, sess.Watchlist()),
		"preferred_genres": rec.Genres,
		"limit":            h.Recommender.Limit(),
	})
}

// LeaveRecommendations 退出推荐模式
func (h *Handler) LeaveRecommendations(c *gin.Context) {
	sess := h.Sessions.Get(c.Request.Context(), middleware.GetUserID(c))
	sess.SetRecommendMode(false)
	utils.SuccessWithMessage(c, "已退出推荐模式", nil)
}

// GetWatchlist 当前用户的待看列表
func (h *Handler) GetWatchlist(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	w := sess.Watchlist()
	utils.Success(c, gin.H{
		"ids":    w.IDs(),
		"movies": toViews(sess.WatchlistMovies(ctx), w),
	})
}

// ToggleWatchlist 切换待看状态，立即返回新状态，持久化在后台完成
func (h *Handler) ToggleWatchlist(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.Sessions.Get(ctx, middleware.GetUserID(c))

	added, movie, err := sess.Toggle(ctx, c.Param("id"))
	if errors.Is(err, service.ErrUnknownMovie) {
		utils.NotFound(c, "电影不存在")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	title, description := service.ToggleMessage(movie.Title, added)
	utils.Success(c, gin.H{
		"movie_id":     movie.ID,
		"in_watchlist": added,
		"watchlist":    sess.Watchlist().IDs(),
		"notice": gin.H{
			"title":       title,
			"description": description,
		},
	})
}

// FilterOptions 过滤面板选项
func (h *Handler) FilterOptions(c *gin.Context) {
	utils.Success(c, service.NewFilterOptions(timeNow()))
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	movies, version := h.Catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"movies":          len(movies),
		"catalog_version": version,
		"sessions":        h.Sessions.Len(),
		"query_cache":     h.Query.CachedResults(),
		"subscribers":     h.Bus.Len(),
	})
}
