package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/user/cinebot/internal/middleware"
	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/service"
	"github.com/user/cinebot/internal/utils"
)

// ==================== 管理后台 ====================

// AdminUpsertMovies 批量写入电影记录，接受单条对象或数组
func (h *Handler) AdminUpsertMovies(c *gin.Context) {
	var records []model.MovieRecord
	if err := c.ShouldBindBodyWith(&records, binding.JSON); err != nil {
		var single model.MovieRecord
		if err := c.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			utils.BadRequest(c, "请求体必须是电影记录或电影记录数组")
			return
		}
		records = []model.MovieRecord{single}
	}

	h.addMovies(c, records)
}

// AdminSeedMovies 追加内置的扩展片单
func (h *Handler) AdminSeedMovies(c *gin.Context) {
	h.addMovies(c, service.ExtraMovies())
}

func (h *Handler) addMovies(c *gin.Context, records []model.MovieRecord) {
	movies, err := h.Catalog.AddMovies(c.Request.Context(), records)
	if errors.Is(err, model.ErrInvalidMovie) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	log.Printf("[Admin] 用户 %d 写入 %d 部电影", middleware.GetUserID(c), len(movies))
	utils.SuccessWithMessage(c, "已写入", gin.H{
		"added":   len(movies),
		"skipped": len(records) - len(movies),
	})
}

// AdminDeleteMovie 按标题删除电影
func (h *Handler) AdminDeleteMovie(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		utils.BadRequest(c, "缺少 title 参数")
		return
	}

	if err := h.Catalog.RemoveByTitle(c.Request.Context(), title); err != nil {
		log.Printf("[Admin] 删除电影失败: %v", err)
		utils.InternalServerError(c, "删除失败")
		return
	}
	utils.SuccessWithMessage(c, "已删除", gin.H{"title": title})
}

// AdminReloadCatalog 强制重新加载目录
func (h *Handler) AdminReloadCatalog(c *gin.Context) {
	movies := h.Catalog.Reload(c.Request.Context())
	_, version := h.Catalog.Snapshot()
	utils.SuccessWithMessage(c, "目录已重新加载", gin.H{
		"movies":  len(movies),
		"version": version,
	})
}
