package utils

import (
	"hash/fnv"
	"strings"
)

// 已知影片的海报
var knownPosters = map[string]string{
	"inception":                "https://image.tmdb.org/t/p/w500/8IB2e4r4oVhHnANbnm7O3Tj6tF8.jpg",
	"the matrix":               "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
	"interstellar":             "https://image.tmdb.org/t/p/w500/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg",
	"the dark knight":          "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
	"pulp fiction":             "https://image.tmdb.org/t/p/w500/fIE3lAGcZDV1G6XM5KmuWnNsPp1.jpg",
	"fight club":               "https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
	"goodfellas":               "https://image.tmdb.org/t/p/w500/aKuFiU82s5ISJpGZp7YkIr3kCUd.jpg",
	"the shawshank redemption": "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
}

// 按标题关键词归类的占位图，顺序即优先级
var categoryPosters = []struct {
	keywords []string
	url      string
}{
	{[]string{"star", "space", "galaxy", "planet", "alien", "matrix"}, "https://placehold.co/500x750/0b1d3a/ffffff?text=Sci-Fi"},
	{[]string{"love", "heart", "wedding", "kiss"}, "https://placehold.co/500x750/7a1f3d/ffffff?text=Romance"},
	{[]string{"dead", "night", "evil", "ghost", "haunt"}, "https://placehold.co/500x750/1a1a1a/ffffff?text=Horror"},
	{[]string{"war", "soldier", "battle", "private"}, "https://placehold.co/500x750/3b3b1f/ffffff?text=War"},
	{[]string{"king", "lord", "dragon", "ring", "magic"}, "https://placehold.co/500x750/2d1b4e/ffffff?text=Fantasy"},
	{[]string{"godfather", "gang", "heist", "fiction", "fellas"}, "https://placehold.co/500x750/222222/e50914?text=Crime"},
}

// 兜底占位图
var genericPosters = []string{
	"https://placehold.co/500x750/141414/e50914?text=CineBot",
	"https://placehold.co/500x750/1f1f1f/ffffff?text=Movie",
	"https://placehold.co/500x750/2b2b2b/ffffff?text=Film",
	"https://placehold.co/500x750/333333/ffffff?text=Cinema",
}

// FallbackPoster 海报缺失或加载失败时的替代图片
// 依次查找：已知标题 -> 标题关键词分类 -> 标题哈希
func FallbackPoster(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	if url, ok := knownPosters[key]; ok {
		return url
	}

	for _, cat := range categoryPosters {
		for _, kw := range cat.keywords {
			if strings.Contains(key, kw) {
				return cat.url
			}
		}
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	return genericPosters[h.Sum32()%uint32(len(genericPosters))]
}
