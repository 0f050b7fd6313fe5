package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

type memMovies struct {
	mu     sync.Mutex
	byID   map[int]models.MovieDoc
	failOn string
}

func newMemMovies(ms ...models.MovieDoc) *memMovies {
	s := &memMovies{byID: map[int]models.MovieDoc{}}
	for _, m := range ms {
		s.byID[m.MovieID] = m
	}
	return s
}

func (s *memMovies) fail(op string) error {
	if s.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (s *memMovies) sorted() []models.MovieDoc {
	out := make([]models.MovieDoc, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out
}

func (s *memMovies) ListAll(context.Context) ([]models.MovieDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), s.fail("ListAll")
}

func (s *memMovies) GetByID(_ context.Context, id int) (*models.MovieDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memMovies) GetByIDs(_ context.Context, ids []int) (map[int]models.MovieDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetByIDs"); err != nil {
		return nil, err
	}
	out := map[int]models.MovieDoc{}
	for _, id := range ids {
		if m, ok := s.byID[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (s *memMovies) Search(_ context.Context, f models.MovieFilter) (models.MoviePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []models.MovieDoc
	for _, m := range s.sorted() {
		if f.Query != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Query)) {
			continue
		}
		hits = append(hits, m)
	}
	page := models.MoviePage{Total: int64(len(hits)), Limit: f.Limit, Offset: f.Offset, Items: []models.MovieDoc{}}
	if f.Offset < len(hits) {
		hits = hits[f.Offset:]
		if len(hits) > f.Limit {
			hits = hits[:f.Limit]
		}
		page.Items = hits
	}
	return page, nil
}

func (s *memMovies) Top(_ context.Context, metric, genre string, limit int) ([]models.MovieDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MovieDoc
	for _, m := range s.sorted() {
		if m.Count() > 0 && (genre == "" || m.HasGenre(genre)) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if metric == models.TopByRating {
			return out[i].Average() > out[j].Average()
		}
		return out[i].Count() > out[j].Count()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memMovies) Genres(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]struct{}{}
	for _, m := range s.byID {
		for _, g := range m.Genres {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memMovies) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byID)), nil
}

func (s *memMovies) ApplyRating(_ context.Context, id int, score float64, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ApplyRating"); err != nil {
		return err
	}
	m, ok := s.byID[id]
	if !ok {
		return models.ErrMovieNotFound
	}
	st := models.RatingStats{}
	if m.RatingStats != nil {
		st = *m.RatingStats
	}
	st.Count++
	st.Sum += score
	st.Average = st.Sum / float64(st.Count)
	st.LastRatedAt = ts
	m.RatingStats = &st
	s.byID[id] = m
	return nil
}

func (s *memMovies) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

func (s *memMovies) Insert(_ context.Context, m models.MovieDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[m.MovieID] = m
	return nil
}

type memRatings struct {
	mu     sync.Mutex
	rows   []models.RatingDoc
	movies *memMovies
	err    error
}

func (s *memRatings) ListAll(context.Context) ([]models.RatingDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RatingDoc(nil), s.rows...), s.err
}

func (s *memRatings) GetAllByUser(_ context.Context, userID int) ([]models.RatingDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.RatingDoc
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (s *memRatings) Insert(ctx context.Context, r models.RatingDoc) error {
	if s.movies != nil {
		if m, _ := s.movies.GetByID(ctx, r.MovieID); m == nil {
			return models.ErrMovieNotFound
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r)
	return nil
}

func (s *memRatings) DeleteByMovie(_ context.Context, movieID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	var n int64
	for _, r := range s.rows {
		if r.MovieID == movieID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	return n, nil
}

func (s *memRatings) MaxUserID(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hi := 0
	for _, r := range s.rows {
		hi = max(hi, r.UserID)
	}
	return hi, nil
}

func (s *memRatings) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

type memHistory struct {
	mu   sync.Mutex
	recs []models.Recommendation
	err  error
}

func (s *memHistory) Insert(_ context.Context, rec *models.Recommendation) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, *rec)
	return nil
}

func (s *memHistory) FindByUser(_ context.Context, userID, limit int) ([]models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Recommendation
	for i := len(s.recs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.recs[i].UserID == userID {
			out = append(out, s.recs[i])
		}
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.UserDoc
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]models.UserDoc{}} }

func (s *memUsers) FindByUsername(_ context.Context, name string) (*models.UserDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *memUsers) FindByID(_ context.Context, id int) (*models.UserDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) List(context.Context) ([]models.UserDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserDoc, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *memUsers) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *memUsers) InsertNext(_ context.Context, u *models.UserDoc, floor, first int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return models.ErrUserExists
	}
	hi := floor
	for _, other := range s.users {
		hi = max(hi, other.UserID)
	}
	if hi == 0 {
		u.UserID = first
	} else {
		u.UserID = hi + 1
	}
	s.users[u.Username] = *u
	return nil
}

func (s *memUsers) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[name]; !ok {
		return models.ErrUserNotFound
	}
	delete(s.users, name)
	return nil
}

// tableScorer scores by dense movie index and returns fixed embeddings.
type tableScorer struct {
	scores  map[int]float64
	vectors map[int][]float64
}

func (s tableScorer) Predict(_ int, items []int) ([]float64, error) {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = s.scores[it]
	}
	return out, nil
}

func (s tableScorer) Embedding(_ identity.Kind, idx int) ([]float64, error) {
	v, ok := s.vectors[idx]
	if !ok {
		return nil, errors.New("no vector")
	}
	return v, nil
}

func stats(count int, avg float64) *models.RatingStats {
	return &models.RatingStats{Count: count, Average: avg, Sum: avg * float64(count)}
}

// memCache stores JSON values like the Redis cache does.
type memCache struct {
	mu   sync.Mutex
	vals map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{vals: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.vals[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = b
	return nil
}
