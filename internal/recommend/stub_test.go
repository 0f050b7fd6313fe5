package recommend

import (
	"errors"
	"fmt"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
)

// stubScorer returns fixed per-movie scores (keyed by dense index) and
// fixed movie embeddings.
type stubScorer struct {
	scores   map[int]float64
	vectors  map[int][]float64
	failOn   map[int]bool
	err      error
	calls    int
	lastSize int
}

func (s *stubScorer) Predict(user int, items []int) ([]float64, error) {
	s.calls++
	s.lastSize = len(items)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = s.scores[it]
	}
	return out, nil
}

func (s *stubScorer) Embedding(kind identity.Kind, idx int) ([]float64, error) {
	if s.failOn[idx] {
		return nil, errors.New("boom")
	}
	v, ok := s.vectors[idx]
	if !ok {
		return nil, fmt.Errorf("no vector %d", idx)
	}
	return v, nil
}

// identityFor maps external movie ids to dense indices in the given order.
func identityFor(users []int, movies []int) *identity.Index {
	u := make(map[int]int, len(users))
	for i, id := range users {
		u[id] = i
	}
	m := make(map[int]int, len(movies))
	for i, id := range movies {
		m[id] = i
	}
	ids, err := identity.New(u, m)
	if err != nil {
		panic(err)
	}
	return ids
}
