package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/cinebot/internal/model"
)

func sampleCatalog() []model.Movie {
	m1 := movie("1", "The Matrix", 8.7, "A hacker learns the truth. Science fiction action.")
	m1.Year = "1999"
	m2 := movie("2", "Heat", 8.3, "A crime drama in Los Angeles.")
	m2.Year = "1995"
	m3 := movie("3", "Arrival", 7.9, "A linguist meets visitors. Sci-Fi drama.")
	m3.Year = "2016"
	m4 := movie("4", "Unrated Indie", 0, "A quiet comedy.")
	m4.Year = "1999"
	return []model.Movie{m1, m2, m3, m4}
}

func TestFilter(t *testing.T) {
	movies := sampleCatalog()
	seven := 7.0
	zero := 0.0

	cases := []struct {
		name    string
		filters model.SearchFilters
		want    []string
	}{
		{"empty filters keep everything", model.SearchFilters{}, []string{"1", "2", "3", "4"}},
		{"query matches title case-insensitively", model.SearchFilters{Query: "MATRIX"}, []string{"1"}},
		{"query matches description", model.SearchFilters{Query: "linguist"}, []string{"3"}},
		{"genre is a text match", model.SearchFilters{Genre: "Drama"}, []string{"2", "3"}},
		{"genre ignores the genre field", model.SearchFilters{Genre: "Horror"}, []string{}},
		{"year is exact", model.SearchFilters{Year: "1999"}, []string{"1", "4"}},
		{"min rating inclusive", model.SearchFilters{MinRating: &seven}, []string{"1", "2", "3"}},
		{"min rating zero keeps unrated", model.SearchFilters{MinRating: &zero}, []string{"1", "2", "3", "4"}},
		{"all conditions combine", model.SearchFilters{Year: "1999", MinRating: &seven}, []string{"1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(movies, tc.filters)))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	movies := sampleCatalog()
	Filter(movies, model.SearchFilters{Query: "heat"})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(movies))
}

func TestQueryService_CacheFollowsCatalogVersion(t *testing.T) {
	store := newFakeStore(rec("1", "Alien", 8.5, "space horror"))
	catalog := NewCatalog(store, newCache())
	catalog.Load(context.Background())
	q := NewQueryService(catalog, 16, time.Minute)

	f := model.SearchFilters{Query: "horror"}
	assert.Equal(t, []string{"1"}, ids(q.Search(f)))
	q.Search(model.SearchFilters{Year: "1979"})
	assert.Equal(t, 2, q.CachedResults())

	store.setRecords(rec("1", "Alien", 8.5, "space horror"), rec("2", "Scream", 7.4, "slasher horror"))
	catalog.Reload(context.Background())

	assert.Equal(t, []string{"1", "2"}, ids(q.Search(f)))
	assert.Equal(t, 1, q.CachedResults(), "results from the old catalog version dropped")
}

func TestNewFilterOptions(t *testing.T) {
	opts := NewFilterOptions(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024", opts.Years[0])
	assert.Equal(t, "1930", opts.Years[len(opts.Years)-1])
	assert.Len(t, opts.Years, 2024-1930+1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, opts.Ratings)
	assert.Contains(t, opts.Genres, "Sci-Fi")
}
