package repository

import (
	"context"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// RatingStore persists append-only rating facts.
type RatingStore interface {
	ListAll(ctx context.Context) ([]models.RatingDoc, error)
	// GetAllByUser returns the user's ratings, newest first.
	GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error)
	// Insert fails with models.ErrMovieNotFound when the movie does not
	// exist and wraps any other failure in models.ErrStoreWrite.
	Insert(ctx context.Context, r models.RatingDoc) error
	DeleteByMovie(ctx context.Context, movieID int) (int64, error)
	MaxUserID(ctx context.Context) (int, error)
	Count(ctx context.Context) (int64, error)
}

// MovieStore is the catalog. Lookups by id return (nil, nil) on a miss.
type MovieStore interface {
	ListAll(ctx context.Context) ([]models.MovieDoc, error)
	GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error)
	// GetByIDs silently omits ids that are not in the catalog.
	GetByIDs(ctx context.Context, ids []int) (map[int]models.MovieDoc, error)
	Search(ctx context.Context, f models.MovieFilter) (models.MoviePage, error)
	// Top returns rated movies ordered by metric (models.TopByPopularity or
	// models.TopByRating), optionally restricted to one genre.
	Top(ctx context.Context, metric, genre string, limit int) ([]models.MovieDoc, error)
	Genres(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	// ApplyRating folds a new rating into the movie's derived stats.
	ApplyRating(ctx context.Context, movieID int, score float64, ts int64) error
	Delete(ctx context.Context, movieID int) (bool, error)
	// Insert adds a movie or refreshes the metadata of an existing one,
	// leaving its rating stats alone.
	Insert(ctx context.Context, m models.MovieDoc) error
}

// RecommendationStore keeps the audit trail of served lists.
type RecommendationStore interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	FindByUser(ctx context.Context, userID int, limit int) ([]models.Recommendation, error)
}

// Stores bundles the store implementations selected by STORE_DRIVER.
type Stores struct {
	Movies          MovieStore
	Ratings         RatingStore
	Recommendations RecommendationStore
	close           func(context.Context) error
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
