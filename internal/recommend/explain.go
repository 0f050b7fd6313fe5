package recommend

import (
	"sort"

	"github.com/aryan595/Movie-Recommendation-System/internal/embedding"
	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// DefaultLikedThreshold is the rating at or above which a movie counts as
// liked.
const DefaultLikedThreshold = 4.0

// Explainer finds the liked movie whose embedding is closest to a
// recommended one.
type Explainer struct {
	ids       *identity.Index
	scorer    Scorer
	threshold float64
}

func NewExplainer(ids *identity.Index, scorer Scorer, threshold float64) *Explainer {
	if threshold <= 0 {
		threshold = DefaultLikedThreshold
	}
	return &Explainer{ids: ids, scorer: scorer, threshold: threshold}
}

func (e *Explainer) Threshold() float64 { return e.threshold }

// Explain picks, among the liked movies of history, the one with the
// highest cosine similarity to recommendedID (ties on the lowest id). It
// reports false when nothing qualifies or an embedding cannot be read;
// callers treat that as "no explanation", never as a failure.
//
// history should already be restricted to movies still in the catalog.
func (e *Explainer) Explain(recommendedID int, history []models.RatingDoc) (models.Explanation, bool) {
	recDense, ok := e.ids.ToDense(identity.Movie, recommendedID)
	if !ok {
		return models.Explanation{}, false
	}
	recVec, err := e.scorer.Embedding(identity.Movie, recDense)
	if err != nil {
		return models.Explanation{}, false
	}

	liked := e.liked(recommendedID, history)
	best := models.Explanation{MovieID: recommendedID}
	found := false
	for _, id := range liked {
		d, ok := e.ids.ToDense(identity.Movie, id)
		if !ok {
			continue
		}
		v, err := e.scorer.Embedding(identity.Movie, d)
		if err != nil {
			continue
		}
		sim := embedding.Cosine(recVec, v)
		if !found || sim > best.Similarity {
			best.LikedMovieID = id
			best.Similarity = sim
			found = true
		}
	}
	return best, found
}

// liked returns the distinct liked movie ids of history in ascending order.
// Only a movie's latest rating counts. Ratings with equal timestamps keep
// the first one seen, as history lists the newest first.
func (e *Explainer) liked(exclude int, history []models.RatingDoc) []int {
	latest := make(map[int]models.RatingDoc, len(history))
	for _, r := range history {
		if r.MovieID == exclude {
			continue
		}
		if prev, ok := latest[r.MovieID]; ok && prev.Timestamp >= r.Timestamp {
			continue
		}
		latest[r.MovieID] = r
	}
	out := make([]int, 0, len(latest))
	for id, r := range latest {
		if r.Rating >= e.threshold {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
