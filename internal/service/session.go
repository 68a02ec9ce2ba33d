package service

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/cinebot/internal/model"
)

// Session 单个用户的应用状态：待看列表快照、推荐模式和最近一次推荐
// 待看列表变更通过 Bus 送达，推荐模式开启时自动重新计算推荐
type Session struct {
	UserID int

	catalog     *Catalog
	query       *QueryService
	recommender *Recommender
	watchlists  *WatchlistService
	unsubscribe func()

	mu             sync.Mutex
	watchlist      model.Watchlist
	recommendMode  bool
	recommendation Recommendation
}

// Movies 过滤模式下展示的电影
func (s *Session) Movies(ctx context.Context, f model.SearchFilters) []model.Movie {
	s.catalog.Load(ctx)
	return s.query.Search(f)
}

// Recommendations 开启推荐模式并返回最新推荐
func (s *Session) Recommendations(ctx context.Context) Recommendation {
	s.catalog.Load(ctx)

	s.mu.Lock()
	s.recommendMode = true
	s.mu.Unlock()

	return s.recompute()
}

// LastRecommendation 最近一次计算的推荐（不重新计算）
func (s *Session) LastRecommendation() Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommendation
}

// SetRecommendMode 切换推荐模式，关闭时清空推荐结果
func (s *Session) SetRecommendMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendMode = on
	if !on {
		s.recommendation = Recommendation{}
	}
}

func (s *Session) RecommendMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommendMode
}

// Toggle 切换电影的待看状态，电影必须在目录中
func (s *Session) Toggle(ctx context.Context, movieID string) (bool, model.Movie, error) {
	s.catalog.Load(ctx)
	movie, ok := s.catalog.Find(movieID)
	if !ok {
		return false, model.Movie{}, fmt.Errorf("%w: %s", ErrUnknownMovie, movieID)
	}

	added, _ := s.watchlists.Toggle(ctx, s.UserID, movieID)
	return added, movie, nil
}

// Watchlist 待看列表副本
func (s *Session) Watchlist() model.Watchlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlist.Clone()
}

// InWatchlist 是否在待看列表中
func (s *Session) InWatchlist(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlist.Has(id)
}

// WatchlistMovies 待看列表中仍在目录里的电影，按目录顺序
func (s *Session) WatchlistMovies(ctx context.Context) []model.Movie {
	movies := s.catalog.Load(ctx)
	w := s.Watchlist()

	result := make([]model.Movie, 0, len(w))
	for _, m := range movies {
		if w.Has(m.ID) {
			result = append(result, m)
		}
	}
	return result
}

// Close 取消订阅，会话结束
func (s *Session) Close() {
	s.unsubscribe()
}

func (s *Session) onWatchlistChanged(ev WatchlistChanged) {
	if ev.UserID != s.UserID {
		return
	}

	s.mu.Lock()
	s.watchlist = ev.Watchlist.Clone()
	mode := s.recommendMode
	s.mu.Unlock()

	if mode {
		s.recompute()
	}
}

func (s *Session) recompute() Recommendation {
	movies, _ := s.catalog.Snapshot()
	w := s.Watchlist()

	rec := s.recommender.RecommendWithGenres(movies, w)

	s.mu.Lock()
	s.recommendation = rec
	s.mu.Unlock()
	return rec
}

// SessionManager 管理活跃会话，容量有限，淘汰时关闭会话
type SessionManager struct {
	catalog     *Catalog
	query       *QueryService
	recommender *Recommender
	watchlists  *WatchlistService
	bus         *Bus

	mu       sync.Mutex
	sessions *lru.Cache[int, *Session]
}

// NewSessionManager 创建会话管理器
func NewSessionManager(size int, catalog *Catalog, query *QueryService, recommender *Recommender, watchlists *WatchlistService, bus *Bus) *SessionManager {
	if size <= 0 {
		size = 1024
	}
	sessions, _ := lru.NewWithEvict[int, *Session](size, func(_ int, s *Session) {
		s.Close()
	})
	return &SessionManager{
		catalog:     catalog,
		query:       query,
		recommender: recommender,
		watchlists:  watchlists,
		bus:         bus,
		sessions:    sessions,
	}
}

// Get 获取用户会话，不存在时创建并加载待看列表
func (m *SessionManager) Get(ctx context.Context, userID int) *Session {
	if s, ok := m.sessions.Get(userID); ok {
		return s
	}

	s := &Session{
		UserID:      userID,
		catalog:     m.catalog,
		query:       m.query,
		recommender: m.recommender,
		watchlists:  m.watchlists,
		watchlist:   m.watchlists.Load(ctx, userID),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions.Get(userID); ok {
		return existing
	}
	s.unsubscribe = m.bus.Subscribe(s.onWatchlistChanged)
	m.sessions.Add(userID, s)
	return s
}

// Drop 结束用户会话（登出时调用）
func (m *SessionManager) Drop(userID int) {
	m.sessions.Remove(userID)
}

// Close 结束所有会话
func (m *SessionManager) Close() {
	m.sessions.Purge()
}

// Len 活跃会话数
func (m *SessionManager) Len() int {
	return m.sessions.Len()
}
