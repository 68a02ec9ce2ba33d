package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/user/cinebot/internal/model"
	"golang.org/x/sync/singleflight"
)

const (
	catalogCacheKey = "movies"
	catalogFlight   = "catalog"
)

// 目录数据来源
const (
	sourceStore = "store"
	sourceCache = "cache"
	sourceSeed  = "seed"
)

// Catalog 内存中的电影目录
// 加载顺序：记录存储 -> 本地缓存 -> 固定种子列表；按标题去重，先出现的保留
type Catalog struct {
	store RecordStore
	cache LocalCache
	sf    singleflight.Group

	issued atomic.Uint64 // 已发出的加载代数

	mu      sync.RWMutex
	movies  []model.Movie
	applied uint64 // 已生效的加载代数
	version uint64
	source  string
	loaded  bool
	unsaved []model.Movie // 写入存储失败、只保存在本地的电影
}

// NewCatalog 创建目录
func NewCatalog(store RecordStore, cache LocalCache) *Catalog {
	return &Catalog{
		store: store,
		cache: cache,
	}
}

// Load 返回目录，首次调用时从存储加载；并发调用共享同一次加载
func (c *Catalog) Load(ctx context.Context) []model.Movie {
	c.mu.RLock()
	if c.loaded {
		movies := c.movies
		c.mu.RUnlock()
		return movies
	}
	c.mu.RUnlock()

	return c.load(ctx)
}

// Reload 强制重新加载
// 正在进行的旧加载如果晚于本次返回，其结果会被丢弃
func (c *Catalog) Reload(ctx context.Context) []model.Movie {
	c.sf.Forget(catalogFlight)
	return c.load(ctx)
}

// Snapshot 当前目录及其版本号，返回的切片只读
func (c *Catalog) Snapshot() ([]model.Movie, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.movies, c.version
}

// Find 按 ID 查找电影
func (c *Catalog) Find(id string) (model.Movie, bool) {
	movies, _ := c.Snapshot()
	for _, m := range movies {
		if m.ID == id {
			return m, true
		}
	}
	return model.Movie{}, false
}

// AddMovies 追加电影：标题已在目录中的记录跳过，其余尽力写入记录存储并镜像到本地缓存，然后重新加载
// 目录当前来自缓存或种子时，这部分电影也一并写入存储，避免重新加载后丢失
// 写入失败的电影保留在本地，之后的加载会并入目录，下次写入时重试
func (c *Catalog) AddMovies(ctx context.Context, records []model.MovieRecord) ([]model.Movie, error) {
	valid := NormalizeMovies(records)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: 没有可用的电影记录", model.ErrInvalidMovie)
	}

	current := c.Load(ctx)
	c.mu.RLock()
	fromStore := c.source == sourceStore
	retry := c.unsaved
	c.mu.RUnlock()

	titles := make(map[string]struct{}, len(current))
	for _, m := range current {
		titles[m.Title] = struct{}{}
	}
	fresh := make([]model.Movie, 0, len(valid))
	for _, m := range valid {
		if _, dup := titles[m.Title]; !dup {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return fresh, nil
	}

	merged := make([]model.Movie, 0, len(current)+len(fresh))
	merged = append(append(merged, current...), fresh...)

	persist := fresh
	if !fromStore {
		persist = merged
	}
	persist = mergeByTitle(retry, persist)
	if err := c.store.Upsert(ctx, persist); err != nil {
		log.Printf("[Catalog] 写入记录存储失败，仅保存到本地缓存: %v", err)
		c.mu.Lock()
		c.unsaved = mergeByTitle(c.unsaved, persist)
		c.mu.Unlock()
	} else {
		log.Printf("[Catalog] 已写入 %d 部电影", len(persist))
		c.mu.Lock()
		c.unsaved = dropTitles(c.unsaved, persist)
		c.mu.Unlock()
	}

	c.writeCache(merged)
	c.Reload(ctx)
	return fresh, nil
}

// RemoveByTitle 按标题删除电影
func (c *Catalog) RemoveByTitle(ctx context.Context, title string) error {
	c.mu.Lock()
	c.unsaved = dropTitles(c.unsaved, []model.Movie{{Title: title}})
	c.mu.Unlock()

	if err := c.store.DeleteByTitle(ctx, title); err != nil {
		return fmt.Errorf("删除电影 %q 失败: %w", title, err)
	}

	cached := c.fromCache()
	kept := cached[:0]
	for _, m := range cached {
		if m.Title != title {
			kept = append(kept, m)
		}
	}
	c.writeCache(kept)

	c.Reload(ctx)
	return nil
}

func (c *Catalog) load(ctx context.Context) []model.Movie {
	// 加载与发起请求的生命周期解耦，避免一个请求取消影响共享结果
	ctx = context.WithoutCancel(ctx)
	_, _, _ = c.sf.Do(catalogFlight, func() (interface{}, error) {
		gen := c.issued.Add(1)
		movies, source := c.fetch(ctx)
		if c.apply(gen, movies, source) {
			c.writeCache(movies)
		}
		return nil, nil
	})

	movies, _ := c.Snapshot()
	return movies
}

func (c *Catalog) fetch(ctx context.Context) ([]model.Movie, string) {
	source := sourceStore
	records, err := c.store.List(ctx)
	if err != nil {
		log.Printf("[Catalog] 从记录存储加载失败: %v", err)
	}
	movies := NormalizeMovies(records)
	if len(movies) > 0 {
		c.mu.RLock()
		movies = mergeByTitle(movies, c.unsaved)
		c.mu.RUnlock()
	}

	if len(movies) == 0 {
		source = sourceCache
		movies = c.fromCache()
	}
	if len(movies) == 0 {
		source = sourceSeed
		movies = NormalizeMovies(SeedMovies())
	}

	log.Printf("[Catalog] 加载 %d 部电影 (来源: %s)", len(movies), source)
	return movies, source
}

func (c *Catalog) apply(gen uint64, movies []model.Movie, source string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.applied {
		log.Printf("[Catalog] 丢弃过期的加载结果 (第 %d 代，当前第 %d 代)", gen, c.applied)
		return false
	}
	c.movies = movies
	c.source = source
	c.applied = gen
	c.version++
	c.loaded = true
	return true
}

func (c *Catalog) fromCache() []model.Movie {
	raw, ok := c.cache.Get(catalogCacheKey)
	if !ok {
		return nil
	}
	var records []model.MovieRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Printf("[Catalog] 本地缓存数据损坏: %v", err)
		return nil
	}
	return NormalizeMovies(records)
}

func (c *Catalog) writeCache(movies []model.Movie) {
	records := make([]model.MovieRecord, 0, len(movies))
	for _, m := range movies {
		records = append(records, m.Record())
	}
	raw, err := json.Marshal(records)
	if err != nil {
		log.Printf("[Catalog] 序列化本地缓存失败: %v", err)
		return
	}
	c.cache.Set(catalogCacheKey, raw)
}

// mergeByTitle 返回 base 加上 extra 中标题未出现过的电影，不修改入参
func mergeByTitle(base, extra []model.Movie) []model.Movie {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	for _, m := range base {
		seen[m.Title] = struct{}{}
	}
	out := make([]model.Movie, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, m := range extra {
		if _, dup := seen[m.Title]; dup {
			continue
		}
		seen[m.Title] = struct{}{}
		out = append(out, m)
	}
	return out
}

func dropTitles(movies, remove []model.Movie) []model.Movie {
	if len(movies) == 0 {
		return nil
	}
	gone := make(map[string]struct{}, len(remove))
	for _, m := range remove {
		gone[m.Title] = struct{}{}
	}
	var kept []model.Movie
	for _, m := range movies {
		if _, ok := gone[m.Title]; !ok {
			kept = append(kept, m)
		}
	}
	return kept
}

// NormalizeMovies 规范化原始记录：剔除缺少标题或海报的记录，再按标题去重（先出现的保留）
func NormalizeMovies(records []model.MovieRecord) []model.Movie {
	movies := make([]model.Movie, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		m, err := model.NewMovie(rec)
		if err != nil {
			continue
		}
		if _, dup := seen[m.Title]; dup {
			continue
		}
		seen[m.Title] = struct{}{}
		movies = append(movies, m)
	}
	return movies
}
