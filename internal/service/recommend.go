package service

import (
	"log"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/cinebot/internal/model"
)

// DefaultRecommendLimit 推荐列表默认长度
const DefaultRecommendLimit = 12

// 每次推荐选取的偏好类型数
const preferredTagCount = 3

// ShuffleMode 推荐中随机扰动的方式
type ShuffleMode string

const (
	// ShuffleLegacy 用随机比较函数打乱后再排序（有偏，不是均匀洗牌）
	ShuffleLegacy ShuffleMode = "legacy"
	// ShuffleWeighted 按权重无放回抽样
	ShuffleWeighted ShuffleMode = "weighted"
)

// ParseShuffleMode 未知取值回退到 legacy
func ParseShuffleMode(s string) ShuffleMode {
	if ShuffleMode(strings.ToLower(strings.TrimSpace(s))) == ShuffleWeighted {
		return ShuffleWeighted
	}
	return ShuffleLegacy
}

type genreTag struct {
	Name    string
	Aliases []string
}

// 类型关键词表，按别名在“标题 + 简介”中做子串匹配
var genreVocabulary = []genreTag{
	{"action", []string{"action"}},
	{"comedy", []string{"comedy"}},
	{"horror", []string{"horror"}},
	{"sci-fi", []string{"sci-fi", "science fiction"}},
	{"drama", []string{"drama"}},
	{"thriller", []string{"thriller"}},
	{"romance", []string{"romance"}},
	{"fantasy", []string{"fantasy"}},
	{"animation", []string{"animation"}},
	{"documentary", []string{"documentary"}},
	{"crime", []string{"crime"}},
	{"mystery", []string{"mystery"}},
	{"family", []string{"family"}},
	{"war", []string{"war"}},
	{"adventure", []string{"adventure"}},
}

func (t genreTag) matches(text string) bool {
	for _, alias := range t.Aliases {
		if strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

// Recommendation 一次推荐的结果
type Recommendation struct {
	Movies []model.Movie `json:"movies"`
	Genres []string      `json:"genres"`
}

// Recommender 基于待看列表关键词的启发式推荐
// 结果不确定：相同输入多次调用可能得到不同的顺序和成员
type Recommender struct {
	limit int
	mode  ShuffleMode

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRecommender rng 为 nil 时使用按时间播种的随机源
func NewRecommender(limit int, mode ShuffleMode, rng *rand.Rand) *Recommender {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	return &Recommender{
		limit: limit,
		mode:  mode,
		rng:   rng,
	}
}

// Limit 推荐列表上限
func (r *Recommender) Limit() int {
	return r.limit
}

// Recommend 返回不在待看列表中的推荐电影，最多 limit 部
func (r *Recommender) Recommend(movies []model.Movie, watchlist model.Watchlist) []model.Movie {
	return r.RecommendWithGenres(movies, watchlist).Movies
}

// RecommendWithGenres 同 Recommend，并返回本次使用的偏好类型
// 计算中的任何 panic 都会被捕获，结果降级为空列表
func (r *Recommender) RecommendWithGenres(movies []model.Movie, watchlist model.Watchlist) (rec Recommendation) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Recommender] 生成推荐失败: %v", p)
			rec = Recommendation{Movies: []model.Movie{}, Genres: []string{}}
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	// 1. 统计待看列表中各类型关键词出现次数
	counts := tagCounts(movies, watchlist)

	// 2. 选出偏好类型
	preferred := r.preferredTags(counts)

	remaining := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if !watchlist.Has(m.ID) {
			remaining = append(remaining, m)
		}
	}

	// 3. 匹配偏好类型的候选
	picked := make([]model.Movie, 0, r.limit)
	if len(preferred) > 0 {
		candidates := make([]model.Movie, 0, len(remaining))
		for _, m := range remaining {
			text := m.SearchText()
			for _, tag := range preferred {
				if tag.matches(text) {
					candidates = append(candidates, m)
					break
				}
			}
		}
		picked = append(picked, r.rank(candidates, r.limit)...)
	}

	// 4. 不足时用高分电影补齐
	if len(picked) < r.limit {
		chosen := make(map[string]struct{}, len(picked))
		for _, m := range picked {
			chosen[m.ID] = struct{}{}
		}
		rest := make([]model.Movie, 0, len(remaining))
		for _, m := range remaining {
			if _, ok := chosen[m.ID]; !ok {
				rest = append(rest, m)
			}
		}
		picked = append(picked, r.rank(rest, r.limit-len(picked))...)
	}

	genres := make([]string, 0, len(preferred))
	for _, tag := range preferred {
		genres = append(genres, tag.Name)
	}
	return Recommendation{Movies: picked, Genres: genres}
}

type tagCount struct {
	tag   genreTag
	count int
}

// tagCounts 每部待看电影对每个类型最多计一次
func tagCounts(movies []model.Movie, watchlist model.Watchlist) []tagCount {
	counts := make([]tagCount, len(genreVocabulary))
	for i, tag := range genreVocabulary {
		counts[i].tag = tag
	}
	for _, m := range movies {
		if !watchlist.Has(m.ID) {
			continue
		}
		text := m.SearchText()
		for i := range counts {
			if counts[i].tag.matches(text) {
				counts[i].count++
			}
		}
	}

	found := counts[:0]
	for _, c := range counts {
		if c.count > 0 {
			found = append(found, c)
		}
	}
	return found
}

func (r *Recommender) preferredTags(counts []tagCount) []genreTag {
	if len(counts) == 0 {
		return nil
	}

	switch r.mode {
	case ShuffleWeighted:
		weights := make([]float64, len(counts))
		for i, c := range counts {
			weights[i] = float64(c.count)
		}
		order := r.weightedOrder(weights)
		tags := make([]genreTag, 0, preferredTagCount)
		for _, idx := range order {
			if len(tags) == preferredTagCount {
				break
			}
			tags = append(tags, counts[idx].tag)
		}
		return tags
	default:
		sort.SliceStable(counts, func(i, j int) bool {
			return counts[i].count > counts[j].count
		})
		// 比较函数 random() - 0.4：有 40% 概率判定 i 在前
		r.biasedShuffle(len(counts), 0.4, func(less func(i, j int) bool) {
			sort.SliceStable(counts, less)
		})
		n := min(preferredTagCount, len(counts))
		tags := make([]genreTag, 0, n)
		for _, c := range counts[:n] {
			tags = append(tags, c.tag)
		}
		return tags
	}
}

// rank 随机扰动后按评分降序，取前 n 部
func (r *Recommender) rank(movies []model.Movie, n int) []model.Movie {
	if n <= 0 || len(movies) == 0 {
		return nil
	}
	ranked := append([]model.Movie(nil), movies...)

	switch r.mode {
	case ShuffleWeighted:
		weights := make([]float64, len(ranked))
		for i, m := range ranked {
			weights[i] = ratingWeight(m.Rating)
		}
		order := r.weightedOrder(weights)
		sampled := make([]model.Movie, 0, min(n, len(order)))
		for _, idx := range order[:min(n, len(order))] {
			sampled = append(sampled, ranked[idx])
		}
		sort.SliceStable(sampled, func(i, j int) bool {
			return sampled[i].Rating > sampled[j].Rating
		})
		return sampled
	default:
		// 比较函数 random()*0.4 - 0.2：各 50% 概率，只扰动评分相同的相对顺序
		r.biasedShuffle(len(ranked), 0.5, func(less func(i, j int) bool) {
			sort.SliceStable(ranked, less)
		})
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Rating > ranked[j].Rating
		})
		return ranked[:min(n, len(ranked))]
	}
}

// biasedShuffle 用随机比较函数排序，p 为判定“i 在前”的概率
func (r *Recommender) biasedShuffle(n int, p float64, sortFn func(less func(i, j int) bool)) {
	if n < 2 {
		return
	}
	sortFn(func(i, j int) bool {
		return r.rng.Float64() < p
	})
}

// weightedOrder Efraimidis-Spirakis 加权无放回抽样，返回按抽中先后排列的下标
func (r *Recommender) weightedOrder(weights []float64) []int {
	type keyed struct {
		idx int
		key float64
	}
	keys := make([]keyed, len(weights))
	for i, w := range weights {
		if w <= 0 {
			w = math.SmallestNonzeroFloat64
		}
		u := r.rng.Float64()
		keys[i] = keyed{idx: i, key: math.Pow(u, 1/w)}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].key > keys[j].key
	})
	order := make([]int, len(keys))
	for i, k := range keys {
		order[i] = k.idx
	}
	return order
}

// ratingWeight 评分越高权重越大，0 分仍保留被抽中的机会
func ratingWeight(rating float64) float64 {
	if rating < 0 {
		rating = 0
	}
	return math.Exp(rating/2) + 0.01
}
