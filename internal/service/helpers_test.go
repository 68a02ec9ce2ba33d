package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/user/cinebot/internal/model"
	"github.com/user/cinebot/internal/utils"
)

var errStoreDown = errors.New("store unavailable")

var _ RecordStore = (*fakeStore)(nil)

// fakeStore 可注入失败的记录存储
type fakeStore struct {
	mu         sync.Mutex
	records    []model.MovieRecord
	watchlists map[int][]string

	listErr  error
	writeErr error

	listCalls   int
	replaced    [][]string
	listStarted chan struct{} // 非 nil 时 List 开始时发送信号
	listGate    chan struct{} // 非 nil 时 List 阻塞直到关闭

	watchlistStarted chan struct{} // 同上，作用于 ListWatchlist
	watchlistGate    chan struct{}
}

func newFakeStore(records ...model.MovieRecord) *fakeStore {
	return &fakeStore{records: records, watchlists: make(map[int][]string)}
}

func (s *fakeStore) List(ctx context.Context) ([]model.MovieRecord, error) {
	s.mu.Lock()
	s.listCalls++
	started, gate := s.listStarted, s.listGate
	records, err := append([]model.MovieRecord(nil), s.records...), s.listErr
	s.mu.Unlock()

	// 先取快照再阻塞，模拟读到旧数据的慢加载
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *fakeStore) Upsert(ctx context.Context, movies []model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for _, m := range movies {
		s.records = append(s.records, m.Record())
	}
	return nil
}

func (s *fakeStore) DeleteByTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Title != title {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *fakeStore) ListWatchlist(ctx context.Context, userID int) ([]string, error) {
	s.mu.Lock()
	started, gate := s.watchlistStarted, s.watchlistGate
	ids, err := append([]string(nil), s.watchlists[userID]...), s.listErr
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *fakeStore) ReplaceWatchlist(ctx context.Context, userID int, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced = append(s.replaced, ids)
	if s.writeErr != nil {
		return s.writeErr
	}
	s.watchlists[userID] = append([]string(nil), ids...)
	return nil
}

func (s *fakeStore) storedWatchlist(userID int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.watchlists[userID]...)
}

func (s *fakeStore) setRecords(records ...model.MovieRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

func rec(id, title string, rating float64, desc string) model.MovieRecord {
	return model.MovieRecord{
		ID:          model.MovieID(id),
		Title:       title,
		ImageURL:    "https://img.example/" + id + ".jpg",
		Description: strPtr(desc),
		Rating:      floatPtr(rating),
	}
}

func movie(id, title string, rating float64, desc string) model.Movie {
	m, err := model.NewMovie(rec(id, title, rating, desc))
	if err != nil {
		panic(err)
	}
	return m
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newCache() *utils.LocalCache {
	return utils.NewLocalCache()
}

func ids(movies []model.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}
