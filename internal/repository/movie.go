package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/user/cinebot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// List 按标题排序返回全部原始记录（不做校验）
func (r *MovieRepository) List(ctx context.Context) ([]model.MovieRecord, error) {
	var records []model.MovieRecord
	err := r.db.WithContext(ctx).
		Model(&model.Movie{}).
		Order("title ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	return records, nil
}

// Upsert 批量创建或更新电影
func (r *MovieRepository) Upsert(ctx context.Context, movies []model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	now := time.Now()
	for i := range movies {
		if movies[i].CreatedAt.IsZero() {
			movies[i].CreatedAt = now
		}
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "image_url", "year", "description", "rating", "genre"}),
	}).Create(&movies).Error
	if err != nil {
		return fmt.Errorf("保存电影失败: %w", err)
	}
	return nil
}

// DeleteByTitle 按标题删除电影
func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	if err := r.db.WithContext(ctx).Where("title = ?", title).Delete(&model.Movie{}).Error; err != nil {
		return fmt.Errorf("删除电影失败: %w", err)
	}
	return nil
}
