package service

import (
	"maps"
	"slices"
	"sync"

	"github.com/user/cinebot/internal/model"
)

// WatchlistChanged 待看列表变更通知
type WatchlistChanged struct {
	UserID    int
	MovieID   string
	Added     bool
	Watchlist model.Watchlist
}

// Bus 进程内广播：同步投递给当前所有订阅者，不排队，不跨进程
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(WatchlistChanged)
}

// NewBus 创建通知总线
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]func(WatchlistChanged))}
}

// Subscribe 注册监听，返回取消订阅函数（可重复调用）
func (b *Bus) Subscribe(fn func(WatchlistChanged)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish 按订阅顺序同步通知，监听者可以在回调中取消订阅
func (b *Bus) Publish(ev WatchlistChanged) {
	b.mu.RLock()
	fns := maps.Clone(b.listeners)
	b.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(fns))
	for _, id := range ids {
		fns[id](ev)
	}
}

// Len 当前订阅者数量
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
