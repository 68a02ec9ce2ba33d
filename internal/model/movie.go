package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidMovie 电影记录缺少必填字段
var ErrInvalidMovie = errors.New("invalid movie record")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Movie 目录中的电影（已规范化）
type Movie struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"index" validate:"required"`
	ImageURL    string    `json:"image_url" gorm:"column:image_url" validate:"required"`
	Year        string    `json:"year" gorm:"index"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating" gorm:"index"`
	Genre       string    `json:"genre"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// SearchText 用于关键词匹配的小写文本（标题 + 简介）
func (m *Movie) SearchText() string {
	return strings.ToLower(m.Title + " " + m.Description)
}

// MovieID 兼容字符串和数字两种 JSON 形式的 ID
type MovieID string

func (id *MovieID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MovieID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("movie id must be string or number: %w", err)
	}
	*id = MovieID(n.String())
	return nil
}

// MovieRecord 记录存储、本地缓存或请求体中的原始电影数据
type MovieRecord struct {
	ID          MovieID    `json:"id" gorm:"column:id"`
	Title       string     `json:"title" gorm:"column:title"`
	ImageURL    string     `json:"image_url" gorm:"column:image_url"`
	ImageURLAlt string     `json:"imageUrl,omitempty" gorm:"-"`
	Year        string     `json:"year" gorm:"column:year"`
	Description *string    `json:"description" gorm:"column:description"`
	Rating      *float64   `json:"rating" gorm:"column:rating"`
	Genre       string     `json:"genre,omitempty" gorm:"column:genre"`
	CreatedAt   *time.Time `json:"created_at,omitempty" gorm:"column:created_at"`
}

func (MovieRecord) TableName() string {
	return "movies"
}

// NewMovie 将原始记录规范化为 Movie
// image_url 优先于 imageUrl，评分缺失按 0 处理；缺少标题或海报返回 ErrInvalidMovie
func NewMovie(rec MovieRecord) (Movie, error) {
	m := Movie{
		ID:       strings.TrimSpace(string(rec.ID)),
		Title:    strings.TrimSpace(rec.Title),
		ImageURL: strings.TrimSpace(rec.ImageURL),
		Year:     strings.TrimSpace(rec.Year),
		Genre:    strings.TrimSpace(rec.Genre),
	}
	if m.ImageURL == "" {
		m.ImageURL = strings.TrimSpace(rec.ImageURLAlt)
	}
	if rec.Description != nil {
		m.Description = *rec.Description
	}
	if rec.Rating != nil {
		m.Rating = *rec.Rating
	}
	if rec.CreatedAt != nil {
		m.CreatedAt = *rec.CreatedAt
	}

	if err := validate.Struct(&m); err != nil {
		return Movie{}, fmt.Errorf("%w: %v", ErrInvalidMovie, err)
	}

	// 没有 ID 的记录用标题生成一个稳定 ID
	if m.ID == "" {
		m.ID = "title-" + slug(m.Title)
	}
	return m, nil
}

// Record 转回原始记录形式（写入本地缓存时使用）
func (m Movie) Record() MovieRecord {
	desc := m.Description
	rating := m.Rating
	rec := MovieRecord{
		ID:          MovieID(m.ID),
		Title:       m.Title,
		ImageURL:    m.ImageURL,
		Year:        m.Year,
		Description: &desc,
		Rating:      &rating,
		Genre:       m.Genre,
	}
	if !m.CreatedAt.IsZero() {
		created := m.CreatedAt
		rec.CreatedAt = &created
	}
	return rec
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		h := fnv.New32a()
		h.Write([]byte(s))
		return strconv.FormatUint(uint64(h.Sum32()), 16)
	}
	return out
}
