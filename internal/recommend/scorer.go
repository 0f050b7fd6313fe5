package recommend

import "github.com/aryan595/Movie-Recommendation-System/internal/identity"

// Scorer is the narrow view of the trained model the ranker and explainer
// need. embedding.Model implements it; tests use a stub.
type Scorer interface {
	// Predict scores items (dense movie indices) for one dense user index.
	Predict(user int, items []int) ([]float64, error)
	// Embedding returns the latent vector of one dense index.
	Embedding(kind identity.Kind, idx int) ([]float64, error)
}

// Scored is a movie id with the score it was ranked by.
type Scored struct {
	MovieID int     `json:"movieId"`
	Score   float64 `json:"score"`
}

// less orders by descending score, then ascending movie id.
func less(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.MovieID < b.MovieID
}
