package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/metrics"
)

var ErrScoreNaN = errors.New("model produced a NaN score")

// Ranker scores every unseen movie for a resolved rater.
type Ranker struct {
	ids    *identity.Index
	scorer Scorer
}

func NewRanker(ids *identity.Index, scorer Scorer) *Ranker {
	return &Ranker{ids: ids, scorer: scorer}
}

// Recommend returns at most k movies the user has not rated, by descending
// predicted score with ties on ascending movie id. seen holds external
// movie ids; ids unknown to the identity index are simply not candidates.
// All candidates are scored in one Predict call. The returned ids are
// external and may include movies that have since left the catalog; the
// caller drops those when joining metadata.
func (r *Ranker) Recommend(userDense int, seen map[int]struct{}, k int) ([]Scored, error) {
	if k <= 0 {
		return []Scored{}, nil
	}

	dense := r.ids.DenseIDs(identity.Movie)
	cand := dense[:0]
	external := make([]int, 0, len(dense))
	for _, d := range dense {
		ext, ok := r.ids.ToExternal(identity.Movie, d)
		if !ok {
			continue
		}
		if _, rated := seen[ext]; rated {
			continue
		}
		cand = append(cand, d)
		external = append(external, ext)
	}
	metrics.CandidatesScored.Observe(float64(len(cand)))
	if len(cand) == 0 {
		return []Scored{}, nil
	}

	scores, err := r.scorer.Predict(userDense, cand)
	if err != nil {
		return nil, fmt.Errorf("score %d candidates: %w", len(cand), err)
	}
	if len(scores) != len(cand) {
		return nil, fmt.Errorf("scorer returned %d scores for %d candidates", len(scores), len(cand))
	}

	out := make([]Scored, len(cand))
	for i, s := range scores {
		if math.IsNaN(s) {
			return nil, fmt.Errorf("movie %d: %w", external[i], ErrScoreNaN)
		}
		out[i] = Scored{MovieID: external[i], Score: s}
	}
	sort.Slice(out, func(a, b int) bool { return less(out[a], out[b]) })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
