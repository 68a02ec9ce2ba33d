package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/user/cinebot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListWatchlist 获取用户待看列表，没有记录时返回空列表
func (r *WatchlistRepository) ListWatchlist(ctx context.Context, userID int) ([]string, error) {
	var rec model.WatchlistRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询待看列表失败: %w", err)
	}
	return []string(rec.MovieIDs), nil
}

// ReplaceWatchlist 整体替换用户待看列表
func (r *WatchlistRepository) ReplaceWatchlist(ctx context.Context, userID int, ids []string) error {
	rec := &model.WatchlistRecord{
		UserID:    userID,
		MovieIDs:  pq.StringArray(ids),
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"movie_ids", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("保存待看列表失败: %w", err)
	}
	return nil
}
