package utils

import (
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// LocalCache 本地 JSON 缓存，作为记录存储不可用时的兜底
// 条目不过期，进程重启即清空
type LocalCache struct {
	store *cache.Cache
}

// NewLocalCache 初始化本地缓存
func NewLocalCache() *LocalCache {
	return &LocalCache{
		store: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// Get 获取缓存的 JSON
func (c *LocalCache) Get(key string) (json.RawMessage, bool) {
	v, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	raw, ok := v.(json.RawMessage)
	if !ok {
		return nil, false
	}
	// 返回副本，调用方可以随意修改
	return append(json.RawMessage(nil), raw...), true
}

// Set 写入 JSON
func (c *LocalCache) Set(key string, value json.RawMessage) {
	c.store.Set(key, append(json.RawMessage(nil), value...), cache.NoExpiration)
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 带过期时间的 LRU 缓存，用于查询结果
type SearchCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache size 是最大缓存条数，ttl 是数据有效期
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	if size <= 0 {
		size = 256
	}
	// lru.New 是线程安全的，size > 0 时不会返回错误
	c, _ := lru.New[string, CacheItem[T]](size)
	return &SearchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（已存在则覆盖）
func (c *SearchCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期条目会被删除
func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Clear 清空
func (c *SearchCache[T]) Clear() {
	c.storage.Purge()
}

func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
