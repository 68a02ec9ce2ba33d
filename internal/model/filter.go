package model

import (
	"sort"
	"strconv"
	"strings"
)

// SearchFilters 一次查询的过滤条件（不持久化）
type SearchFilters struct {
	Query     string   `json:"query" form:"q"`
	Genre     string   `json:"genre,omitempty" form:"genre"`
	Year      string   `json:"year,omitempty" form:"year"`
	MinRating *float64 `json:"min_rating,omitempty" form:"min_rating" binding:"omitempty,min=0,max=10"`
}

// IsEmpty 所有条件均未设置
func (f SearchFilters) IsEmpty() bool {
	return f.Query == "" && f.Genre == "" && f.Year == "" && f.MinRating == nil
}

// CacheKey 用于查询结果缓存的规范化键
func (f SearchFilters) CacheKey() string {
	rating := "-"
	if f.MinRating != nil {
		rating = strconv.FormatFloat(*f.MinRating, 'f', -1, 64)
	}
	return strings.Join([]string{
		strings.ToLower(f.Query),
		strings.ToLower(f.Genre),
		f.Year,
		rating,
	}, "|")
}

// Watchlist 用户的待看电影 ID 集合，只有成员关系有意义
type Watchlist map[string]struct{}

// NewWatchlist 从 ID 列表构建集合（忽略空 ID）
func NewWatchlist(ids []string) Watchlist {
	w := make(Watchlist, len(ids))
	for _, id := range ids {
		if id != "" {
			w[id] = struct{}{}
		}
	}
	return w
}

func (w Watchlist) Has(id string) bool {
	_, ok := w[id]
	return ok
}

// Toggle 切换成员关系，返回切换后是否在列表中
func (w Watchlist) Toggle(id string) bool {
	if w.Has(id) {
		delete(w, id)
		return false
	}
	w[id] = struct{}{}
	return true
}

// IDs 排序后的 ID 列表
func (w Watchlist) IDs() []string {
	ids := make([]string, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone 复制一份
func (w Watchlist) Clone() Watchlist {
	c := make(Watchlist, len(w))
	for id := range w {
		c[id] = struct{}{}
	}
	return c
}
