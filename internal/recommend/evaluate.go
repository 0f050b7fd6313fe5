package recommend

import (
	"context"
	"math"
	"sort"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// Evaluate scores every rating whose user and movie the identity index
// resolves and reports RMSE and MAE against the observed values. Ratings
// it cannot resolve are counted as skipped. Predictions are batched per
// user.
func (s *Snapshot) Evaluate(ctx context.Context, ratings []models.RatingDoc) (models.ModelEvaluation, error) {
	ev := models.ModelEvaluation{ModelVersion: s.ModelVersion()}

	type pair struct {
		movie  int
		actual float64
	}
	byUser := make(map[int][]pair)
	for _, r := range ratings {
		u, ok := s.Identity.ToDense(identity.User, r.UserID)
		if !ok {
			ev.Skipped++
			continue
		}
		m, ok := s.Identity.ToDense(identity.Movie, r.MovieID)
		if !ok {
			ev.Skipped++
			continue
		}
		byUser[u] = append(byUser[u], pair{movie: m, actual: r.Rating})
	}

	users := make([]int, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Ints(users)

	var se, ae float64
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return ev, err
		}
		ps := byUser[u]
		items := make([]int, len(ps))
		for i, p := range ps {
			items[i] = p.movie
		}
		preds, err := s.scorer.Predict(u, items)
		if err != nil {
			return ev, err
		}
		for i, p := range ps {
			d := preds[i] - p.actual
			se += d * d
			ae += math.Abs(d)
			ev.Evaluated++
		}
	}
	if ev.Evaluated > 0 {
		ev.RMSE = math.Sqrt(se / float64(ev.Evaluated))
		ev.MAE = ae / float64(ev.Evaluated)
	}
	return ev, nil
}
