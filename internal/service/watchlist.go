package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/user/cinebot/internal/model"
)

// ErrUnknownMovie 目录中不存在该电影
var ErrUnknownMovie = errors.New("unknown movie")

func watchlistCacheKey(userID int) string {
	return "watchlist:" + strconv.Itoa(userID)
}

// WatchlistService 待看列表的读取与切换
// 本地缓存是即时反馈的数据源；记录存储在后台异步写入，失败只记日志不回滚
type WatchlistService struct {
	store RecordStore
	cache LocalCache
	bus   *Bus

	mu      sync.Mutex // 保护缓存的读改写、pending 与 toggles
	pending map[int]int
	toggles map[int]uint64 // 每个用户累计的切换次数

	locksMu sync.Mutex
	locks   map[int]*sync.Mutex // 每个用户的持久化串行锁

	wg sync.WaitGroup
}

// NewWatchlistService 创建待看列表服务
func NewWatchlistService(store RecordStore, cache LocalCache, bus *Bus) *WatchlistService {
	return &WatchlistService{
		store:   store,
		cache:   cache,
		bus:     bus,
		pending: make(map[int]int),
		toggles: make(map[int]uint64),
		locks:   make(map[int]*sync.Mutex),
	}
}

// Load 读取用户待看列表：优先记录存储，失败时使用本地缓存
// 还有未写完的切换，或读取期间发生过切换时，以本地缓存为准
func (s *WatchlistService) Load(ctx context.Context, userID int) model.Watchlist {
	s.mu.Lock()
	busy := s.pending[userID] > 0
	seen := s.toggles[userID]
	s.mu.Unlock()
	if busy {
		return s.Cached(userID)
	}

	ids, err := s.store.ListWatchlist(ctx, userID)
	if err != nil {
		log.Printf("[Watchlist] 读取用户 %d 的待看列表失败，使用本地缓存: %v", userID, err)
		return s.Cached(userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toggles[userID] != seen {
		return s.cached(userID)
	}
	w := model.NewWatchlist(ids)
	s.mirror(userID, w)
	return w
}

// Cached 本地缓存中的待看列表，没有时为空
func (s *WatchlistService) Cached(userID int) model.Watchlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached(userID)
}

// Toggle 切换成员关系：同步更新本地缓存并通知，随后异步写入记录存储
func (s *WatchlistService) Toggle(ctx context.Context, userID int, movieID string) (bool, model.Watchlist) {
	s.mu.Lock()
	w := s.cached(userID)
	added := w.Toggle(movieID)
	s.mirror(userID, w)
	s.pending[userID]++
	s.toggles[userID]++
	s.mu.Unlock()

	s.bus.Publish(WatchlistChanged{
		UserID:    userID,
		MovieID:   movieID,
		Added:     added,
		Watchlist: w.Clone(),
	})

	s.wg.Add(1)
	go s.persist(context.WithoutCancel(ctx), userID)

	return added, w
}

// Wait 等待所有后台写入完成
func (s *WatchlistService) Wait() {
	s.wg.Wait()
}

// persist 写入最新的缓存快照，同一用户的写入串行执行，先后顺序不会颠倒
func (s *WatchlistService) persist(ctx context.Context, userID int) {
	defer s.wg.Done()

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	ids := s.cached(userID).IDs()
	s.mu.Unlock()

	if err := s.store.ReplaceWatchlist(ctx, userID, ids); err != nil {
		log.Printf("[Watchlist] 保存用户 %d 的待看列表失败: %v", userID, err)
	}

	s.mu.Lock()
	if s.pending[userID]--; s.pending[userID] <= 0 {
		delete(s.pending, userID)
	}
	s.mu.Unlock()
}

func (s *WatchlistService) userLock(userID int) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *WatchlistService) cached(userID int) model.Watchlist {
	raw, ok := s.cache.Get(watchlistCacheKey(userID))
	if !ok {
		return model.Watchlist{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		log.Printf("[Watchlist] 本地缓存数据损坏 (用户 %d): %v", userID, err)
		return model.Watchlist{}
	}
	return model.NewWatchlist(ids)
}

func (s *WatchlistService) mirror(userID int, w model.Watchlist) {
	raw, err := json.Marshal(w.IDs())
	if err != nil {
		log.Printf("[Watchlist] 序列化待看列表失败: %v", err)
		return
	}
	s.cache.Set(watchlistCacheKey(userID), raw)
}

// ToggleMessage 切换后给用户的提示
func ToggleMessage(title string, added bool) (string, string) {
	if added {
		return "Added to Watchlist", title + " has been added to your watchlist"
	}
	return "Removed from Watchlist", title + " has been removed from your watchlist"
}
