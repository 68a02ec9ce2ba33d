package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// WatchlistRecord 待看列表持久化记录，每个用户一行
type WatchlistRecord struct {
	UserID    int            `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	MovieIDs  pq.StringArray `json:"movie_ids" db:"movie_ids" gorm:"type:text[]"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

func (WatchlistRecord) TableName() string {
	return "watchlists"
}
