package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/cinebot/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken 邮箱已被注册
var ErrEmailTaken = errors.New("email already registered")

// MemoryStore 进程内记录存储，未配置数据库时使用
// 电影按标题、ID 升序返回；ID 冲突时覆盖旧记录
type MemoryStore struct {
	mu         sync.RWMutex
	movies     map[string]model.Movie
	watchlists map[int][]string
	users      []*model.User
}

// NewMemoryStore 创建内存存储，可预置电影
func NewMemoryStore(seed ...model.Movie) *MemoryStore {
	s := &MemoryStore{
		movies:     make(map[string]model.Movie),
		watchlists: make(map[int][]string),
	}
	for _, m := range seed {
		s.movies[m.ID] = m
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]model.MovieRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.MovieRecord, 0, len(s.movies))
	for _, m := range s.movies {
		records = append(records, m.Record())
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Title != records[j].Title {
			return records[i].Title < records[j].Title
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, movies []model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, m := range movies {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		s.movies[m.ID] = m
	}
	return nil
}

func (s *MemoryStore) DeleteByTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range s.movies {
		if m.Title == title {
			delete(s.movies, id)
		}
	}
	return nil
}

func (s *MemoryStore) ListWatchlist(ctx context.Context, userID int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.watchlists[userID]...), nil
}

func (s *MemoryStore) ReplaceWatchlist(ctx context.Context, userID int, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchlists[userID] = append([]string{}, ids...)
	return nil
}

// Create 创建用户
func (s *MemoryStore) Create(email, username, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}
	user := &model.User{
		ID:           len(s.users) + 1,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         roleFor(int64(len(s.users))),
		CreatedAt:    time.Now(),
	}
	s.users = append(s.users, user)
	return user, nil
}

// FindByEmail 根据邮箱查找用户
func (s *MemoryStore) FindByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

// FindByID 根据 ID 查找用户
func (s *MemoryStore) FindByID(id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > len(s.users) {
		return nil, nil
	}
	return s.users[id-1], nil
}

// CheckPassword 验证密码
func (s *MemoryStore) CheckPassword(user *model.User, password string) bool {
	return checkPassword(user, password)
}
