package service

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/utils"
)

// Filter 返回满足全部条件的电影，保持目录原有顺序
//   - Query: 标题或简介包含查询词（不区分大小写）
//   - Genre: 标题或简介包含类型词（文本匹配，不看 Genre 字段）
//   - Year: 与年份字符串完全相等
//   - MinRating: 评分 >= MinRating
func Filter(movies []model.Movie, f model.SearchFilters) []model.Movie {
	if f.IsEmpty() {
		return movies
	}

	query := strings.ToLower(f.Query)
	genre := strings.ToLower(f.Genre)

	result := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		title := strings.ToLower(m.Title)
		desc := strings.ToLower(m.Description)

		if query != "" && !strings.Contains(title, query) && !strings.Contains(desc, query) {
			continue
		}
		if genre != "" && !strings.Contains(title, genre) && !strings.Contains(desc, genre) {
			continue
		}
		if f.Year != "" && m.Year != f.Year {
			continue
		}
		if f.MinRating != nil && m.Rating < *f.MinRating {
			continue
		}
		result = append(result, m)
	}
	return result
}

// QueryService 带结果缓存的目录查询
type QueryService struct {
	catalog *Catalog
	cache   *utils.SearchCache[[]model.Movie]
	version atomic.Uint64 // 缓存结果对应的目录版本
}

// NewQueryService 创建查询服务
func NewQueryService(catalog *Catalog, cacheSize int, ttl time.Duration) *QueryService {
	return &QueryService{
		catalog: catalog,
		cache:   utils.NewSearchCache[[]model.Movie](cacheSize, ttl),
	}
}

// Search 按条件过滤当前目录
// 缓存键包含目录版本；发现目录版本变化时清空旧结果
func (s *QueryService) Search(f model.SearchFilters) []model.Movie {
	movies, version := s.catalog.Snapshot()
	if old := s.version.Swap(version); old != version {
		s.cache.Clear()
	}
	key := strconv.FormatUint(version, 10) + "|" + f.CacheKey()

	if cached, found := s.cache.Get(key); found {
		return cached
	}

	result := Filter(movies, f)
	s.cache.Set(key, result)
	return result
}

// CachedResults 当前缓存的查询结果条数
func (s *QueryService) CachedResults() int {
	return s.cache.Len()
}

// FilterOptions 过滤面板的可选项
type FilterOptions struct {
	Genres  []string `json:"genres"`
	Years   []string `json:"years"`
	Ratings []int    `json:"ratings"`
}

// 过滤面板中的类型选项
var genreOptions = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "History", "Horror", "Mystery",
	"Romance", "Sci-Fi", "Thriller", "War", "Western",
}

// NewFilterOptions 年份从今年倒序到 1930，评分 1-9
func NewFilterOptions(now time.Time) FilterOptions {
	current := now.Year()
	years := make([]string, 0, current-1929)
	for y := current; y >= 1930; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return FilterOptions{
		Genres:  append([]string(nil), genreOptions...),
		Years:   years,
		Ratings: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
}
