package service

import (
	"context"
	"sort"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

// AdminService reports how far the catalog has drifted from the loaded
// model. Retraining happens offline; this only tells the operator when.
type AdminService struct {
	snap   *recommend.Snapshot
	movies repository.MovieStore
}

func NewAdminService(snap *recommend.Snapshot, movies repository.MovieStore) *AdminService {
	return &AdminService{snap: snap, movies: movies}
}

// ModelStatus counts catalog movies missing from the model and model
// movies missing from the catalog. Pending lists the most rated of the
// former, those with at least minRatings ratings, up to limit.
func (s *AdminService) ModelStatus(ctx context.Context, minRatings, limit int) (*models.ModelStatus, error) {
	catalog, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := s.snap.Identity

	st := &models.ModelStatus{
		ModelVersion:  s.snap.ModelVersion(),
		Generation:    s.snap.Generation,
		LoadedAt:      s.snap.LoadedAt.Format(time.RFC3339),
		ModelUsers:    ids.Len(identity.User),
		ModelMovies:   ids.Len(identity.Movie),
		CatalogMovies: len(catalog),
		MinRatings:    minRatings,
		Pending:       []models.PendingMovie{},
	}

	inCatalog := 0
	for i := range catalog {
		m := &catalog[i]
		if _, ok := ids.ToDense(identity.Movie, m.MovieID); ok {
			inCatalog++
			continue
		}
		st.CatalogWithoutModel++
		if m.Count() >= minRatings {
			st.Pending = append(st.Pending, models.PendingMovie{
				MovieID:      m.MovieID,
				Title:        m.Title,
				RatingsCount: m.Count(),
			})
		}
	}
	st.ModelWithoutCatalog = st.ModelMovies - inCatalog

	sort.Slice(st.Pending, func(i, j int) bool {
		a, b := st.Pending[i], st.Pending[j]
		if a.RatingsCount != b.RatingsCount {
			return a.RatingsCount > b.RatingsCount
		}
		return a.MovieID < b.MovieID
	})
	if limit > 0 && len(st.Pending) > limit {
		st.Pending = st.Pending[:limit]
	}
	return st, nil
}
