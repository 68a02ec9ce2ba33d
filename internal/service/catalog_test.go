package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinebot/internal/model"
)

func TestNormalizeMovies_DropsMalformedAndDedupes(t *testing.T) {
	records := []model.MovieRecord{
		rec("1", "Alien", 8.5, "space horror"),
		{ID: "2", Title: "No Poster"},
		{ID: "3", ImageURL: "https://img/3.jpg"},
		rec("4", "Alien", 6.0, "a later duplicate"),
		rec("5", "Heat", 8.3, "crime drama"),
	}

	movies := NormalizeMovies(records)
	assert.Equal(t, []string{"1", "5"}, ids(movies))
	assert.Equal(t, 8.5, movies[0].Rating, "first occurrence wins")
}

func TestCatalog_LoadFromStore(t *testing.T) {
	store := newFakeStore(
		rec("1", "Alien", 8.5, "space horror"),
		rec("2", "Heat", 8.3, "crime drama"),
	)
	cache := newCache()
	c := NewCatalog(store, cache)

	movies := c.Load(context.Background())
	assert.Equal(t, []string{"1", "2"}, ids(movies))

	// 加载结果回写本地缓存
	raw, ok := cache.Get(catalogCacheKey)
	require.True(t, ok)
	var cached []model.MovieRecord
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Len(t, cached, 2)

	// 已加载后不再访问存储
	c.Load(context.Background())
	assert.Equal(t, 1, store.listCalls)
}

func TestCatalog_FallsBackToCache(t *testing.T) {
	store := newFakeStore()
	store.listErr = errStoreDown

	cache := newCache()
	raw, err := json.Marshal([]model.MovieRecord{rec("9", "Cached Movie", 7, "from cache")})
	require.NoError(t, err)
	cache.Set(catalogCacheKey, raw)

	movies := NewCatalog(store, cache).Load(context.Background())
	assert.Equal(t, []string{"9"}, ids(movies))
}

func TestCatalog_FallsBackToSeed(t *testing.T) {
	for name, store := range map[string]*fakeStore{
		"store error": {listErr: errStoreDown, watchlists: map[int][]string{}},
		"store empty": newFakeStore(),
		"all invalid": newFakeStore(model.MovieRecord{ID: "1", Title: "No Poster"}),
	} {
		t.Run(name, func(t *testing.T) {
			movies := NewCatalog(store, newCache()).Load(context.Background())
			assert.Equal(t, ids(NormalizeMovies(SeedMovies())), ids(movies))
			assert.NotEmpty(t, movies)
		})
	}
}

func TestCatalog_CorruptCacheFallsBackToSeed(t *testing.T) {
	store := newFakeStore()
	store.listErr = errStoreDown
	cache := newCache()
	cache.Set(catalogCacheKey, json.RawMessage(`{"not":"a list"}`))

	movies := NewCatalog(store, cache).Load(context.Background())
	assert.Len(t, movies, len(NormalizeMovies(SeedMovies())))
}

func TestCatalog_ReloadBumpsVersion(t *testing.T) {
	store := newFakeStore(rec("1", "Alien", 8.5, ""))
	c := NewCatalog(store, newCache())

	c.Load(context.Background())
	_, v1 := c.Snapshot()

	store.setRecords(rec("1", "Alien", 8.5, ""), rec("2", "Heat", 8.3, ""))
	movies := c.Reload(context.Background())
	_, v2 := c.Snapshot()

	assert.Equal(t, []string{"1", "2"}, ids(movies))
	assert.Greater(t, v2, v1)
}

func TestCatalog_StaleLoadDiscarded(t *testing.T) {
	c := NewCatalog(newFakeStore(), newCache())
	newer := []model.Movie{movie("2", "Newer", 5, "")}
	older := []model.Movie{movie("1", "Older", 5, "")}

	c.apply(2, newer, sourceStore)
	c.apply(1, older, sourceStore)

	movies, version := c.Snapshot()
	assert.Equal(t, []string{"2"}, ids(movies))
	assert.Equal(t, uint64(1), version)
}

func TestCatalog_ReloadWhileLoadInFlight(t *testing.T) {
	store := newFakeStore(rec("1", "Alien", 8.5, ""))
	store.listStarted = make(chan struct{}, 1)
	store.listGate = make(chan struct{})
	c := NewCatalog(store, newCache())

	done := make(chan []model.Movie)
	go func() { done <- c.Load(context.Background()) }()
	<-store.listStarted

	// 第二次加载不阻塞，先于第一次完成
	store.mu.Lock()
	gate := store.listGate
	store.listGate = nil
	store.listStarted = nil
	store.records = []model.MovieRecord{rec("2", "Heat", 8.3, "")}
	store.mu.Unlock()

	reloaded := c.Reload(context.Background())
	assert.Equal(t, []string{"2"}, ids(reloaded))

	close(gate)
	<-done

	movies, _ := c.Snapshot()
	assert.Equal(t, []string{"2"}, ids(movies), "older load must not overwrite newer result")
}

func TestCatalog_AddMoviesSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errStoreDown
	store.writeErr = errStoreDown
	c := NewCatalog(store, newCache())
	c.Load(context.Background())

	added, err := c.AddMovies(context.Background(), []model.MovieRecord{
		rec("x1", "Brand New", 7.7, ""),
		{ID: "bad", Title: "Missing Poster"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, ids(added))

	found, ok := c.Find("x1")
	require.True(t, ok)
	assert.Equal(t, "Brand New", found.Title)
}

func TestCatalog_AddMoviesKeptLocallyWhenWriteFails(t *testing.T) {
	store := newFakeStore(rec("1", "Alien", 8.5, "space horror"))
	cache := newCache()
	c := NewCatalog(store, cache)
	c.Load(context.Background())

	store.writeErr = errStoreDown
	added, err := c.AddMovies(context.Background(), []model.MovieRecord{rec("x1", "Brand New", 7.7, "")})
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, ids(added))

	_, ok := c.Find("x1")
	require.True(t, ok, "added movie missing from catalog")

	raw, ok := cache.Get(catalogCacheKey)
	require.True(t, ok)
	var cached []model.MovieRecord
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Len(t, cached, 2)

	// 存储中仍只有旧数据，重新加载后本地的电影不丢失
	assert.Equal(t, []string{"1", "x1"}, ids(c.Reload(context.Background())))

	// 存储恢复后，下一次写入会补写之前失败的电影
	store.writeErr = nil
	_, err = c.AddMovies(context.Background(), []model.MovieRecord{rec("x2", "Second Wave", 6.1, "")})
	require.NoError(t, err)
	assert.Len(t, store.records, 3)

	assert.Equal(t, []string{"1", "x1", "x2"}, ids(c.Reload(context.Background())))
}

func TestCatalog_AddMoviesKeepsSeedCatalog(t *testing.T) {
	store := newFakeStore()
	c := NewCatalog(store, newCache())
	seeded := c.Load(context.Background())

	added, err := c.AddMovies(context.Background(), []model.MovieRecord{
		rec("x1", "Brand New", 7.7, ""),
		rec("x2", seeded[0].Title, 1.0, "duplicate title"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, ids(added))

	movies, _ := c.Snapshot()
	assert.Len(t, movies, len(seeded)+1)
	assert.Equal(t, seeded[0].ID, movies[0].ID, "existing title wins")
}

func TestCatalog_AddMoviesAllDuplicates(t *testing.T) {
	c := NewCatalog(newFakeStore(rec("1", "Alien", 8.5, "")), newCache())
	c.Load(context.Background())

	added, err := c.AddMovies(context.Background(), []model.MovieRecord{rec("2", "Alien", 3, "")})
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestCatalog_AddMoviesRejectsInvalid(t *testing.T) {
	c := NewCatalog(newFakeStore(), newCache())

	_, err := c.AddMovies(context.Background(), []model.MovieRecord{{Title: "No Poster"}})
	assert.True(t, errors.Is(err, model.ErrInvalidMovie))
}

func TestCatalog_RemoveByTitle(t *testing.T) {
	store := newFakeStore(rec("1", "Alien", 8.5, ""), rec("2", "Heat", 8.3, ""))
	c := NewCatalog(store, newCache())
	c.Load(context.Background())

	require.NoError(t, c.RemoveByTitle(context.Background(), "Alien"))

	_, ok := c.Find("1")
	assert.False(t, ok)
	_, ok = c.Find("2")
	assert.True(t, ok)

	store.writeErr = errStoreDown
	assert.Error(t, c.RemoveByTitle(context.Background(), "Heat"))
}
