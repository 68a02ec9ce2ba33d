package service

import (
	"context"
	"encoding/json"

	"github.com/user/cinebot/internal/model"
)

// RecordStore 电影与待看列表的权威存储，调用可能失败
type RecordStore interface {
	List(ctx context.Context) ([]model.MovieRecord, error)
	Upsert(ctx context.Context, movies []model.Movie) error
	DeleteByTitle(ctx context.Context, title string) error
	ListWatchlist(ctx context.Context, userID int) ([]string, error)
	ReplaceWatchlist(ctx context.Context, userID int, ids []string) error
}

// LocalCache 同步、始终可用的本地 JSON 缓存（尽力持久）
type LocalCache interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value json.RawMessage)
}

// UserStore 用户账号存储
type UserStore interface {
	Create(email, username, password string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByID(id int) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
}
