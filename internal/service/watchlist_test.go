package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistService_ToggleTwiceRestores(t *testing.T) {
	store := newFakeStore()
	store.watchlists[1] = []string{"a"}
	svc := NewWatchlistService(store, newCache(), NewBus())
	ctx := context.Background()

	before := svc.Load(ctx, 1)

	added, w := svc.Toggle(ctx, 1, "b")
	assert.True(t, added)
	assert.Equal(t, []string{"a", "b"}, w.IDs())

	added, w = svc.Toggle(ctx, 1, "b")
	assert.False(t, added)
	assert.Equal(t, before.IDs(), w.IDs())

	svc.Wait()
	assert.Equal(t, []string{"a"}, store.watchlists[1])
}

func TestWatchlistService_PersistFailureKeepsLocalState(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errStoreDown
	svc := NewWatchlistService(store, newCache(), NewBus())

	added, _ := svc.Toggle(context.Background(), 7, "m1")
	svc.Wait()

	assert.True(t, added)
	assert.True(t, svc.Cached(7).Has("m1"), "failed write must not roll back")
	assert.Len(t, store.replaced, 1)
}

func TestWatchlistService_LastWriteWins(t *testing.T) {
	store := newFakeStore()
	svc := NewWatchlistService(store, newCache(), NewBus())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "b"} {
		svc.Toggle(ctx, 3, id)
	}
	svc.Wait()

	assert.Equal(t, []string{"a", "c"}, store.watchlists[3])
	assert.Equal(t, []string{"a", "c"}, svc.Load(ctx, 3).IDs())
}

func TestWatchlistService_PublishesChange(t *testing.T) {
	bus := NewBus()
	svc := NewWatchlistService(newFakeStore(), newCache(), bus)

	var events []WatchlistChanged
	bus.Subscribe(func(ev WatchlistChanged) { events = append(events, ev) })

	svc.Toggle(context.Background(), 2, "m9")
	svc.Wait()

	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].UserID)
	assert.Equal(t, "m9", events[0].MovieID)
	assert.True(t, events[0].Added)
	assert.True(t, events[0].Watchlist.Has("m9"))
}

func TestWatchlistService_LoadFallsBackToCache(t *testing.T) {
	store := newFakeStore()
	cache := newCache()
	svc := NewWatchlistService(store, cache, NewBus())
	ctx := context.Background()

	svc.Toggle(ctx, 5, "m1")
	svc.Wait()

	store.listErr = errStoreDown
	assert.Equal(t, []string{"m1"}, svc.Load(ctx, 5).IDs())

	// 缓存与存储都没有时返回空集合
	assert.Empty(t, svc.Load(ctx, 99))
}

func TestWatchlistService_ToggleDuringLoadKeepsChange(t *testing.T) {
	store := newFakeStore()
	started, gate := make(chan struct{}, 1), make(chan struct{})
	store.watchlistStarted, store.watchlistGate = started, gate
	svc := NewWatchlistService(store, newCache(), NewBus())
	ctx := context.Background()

	loaded := make(chan []string)
	go func() {
		loaded <- svc.Load(ctx, 7).IDs()
	}()
	<-started

	// 读取尚未返回时切换并写完
	added, _ := svc.Toggle(ctx, 7, "m1")
	require.True(t, added)
	svc.Wait()
	close(gate)

	assert.Equal(t, []string{"m1"}, <-loaded)
	assert.Equal(t, []string{"m1"}, svc.Cached(7).IDs(), "stale read must not overwrite the cache")
	assert.Equal(t, []string{"m1"}, store.storedWatchlist(7))
}

func TestWatchlistService_UsersAreIsolated(t *testing.T) {
	svc := NewWatchlistService(newFakeStore(), newCache(), NewBus())
	ctx := context.Background()

	svc.Toggle(ctx, 1, "shared")
	svc.Wait()

	assert.True(t, svc.Cached(1).Has("shared"))
	assert.False(t, svc.Cached(2).Has("shared"))
}

func TestToggleMessage(t *testing.T) {
	title, desc := ToggleMessage("Heat", true)
	assert.Equal(t, "Added to Watchlist", title)
	assert.Contains(t, desc, "Heat")

	title, _ = ToggleMessage("Heat", false)
	assert.Equal(t, "Removed from Watchlist", title)
}
