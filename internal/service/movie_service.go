package service

import (
	"context"
	"fmt"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type MovieService struct {
	movies  repository.MovieStore
	ratings repository.RatingStore
	snap    *recommend.Snapshot
}

func NewMovieService(m repository.MovieStore, r repository.RatingStore, snap *recommend.Snapshot) *MovieService {
	return &MovieService{movies: m, ratings: r, snap: snap}
}

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// GetMovie fails with models.ErrMovieNotFound on a miss.
func (s *MovieService) GetMovie(ctx context.Context, id int) (*models.MovieDoc, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, models.ErrMovieNotFound
	}
	return m, nil
}

func (s *MovieService) Search(ctx context.Context, f models.MovieFilter) (models.MoviePage, error) {
	f.Limit = pageSize(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	if r := []rune(f.Letter); len(r) > 1 {
		f.Letter = string(r[:1])
	}
	return s.movies.Search(ctx, f)
}

func (s *MovieService) Top(ctx context.Context, metric, genre string, limit int) ([]models.MovieDoc, error) {
	if metric != models.TopByRating {
		metric = models.TopByPopularity
	}
	return s.movies.Top(ctx, metric, genre, pageSize(limit))
}

func (s *MovieService) Genres(ctx context.Context) ([]string, error) {
	return s.movies.Genres(ctx)
}

// Delete removes a movie and every rating of it, ratings first so no rating
// is ever left pointing at a missing movie. The loaded model still has the
// movie, which is reported as ModelOutOfSync; recommendations skip it
// until the model is retrained.
func (s *MovieService) Delete(ctx context.Context, movieID int) (models.DeleteMovieResult, error) {
	res := models.DeleteMovieResult{MovieID: movieID}

	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return res, err
	}
	if m == nil {
		return res, models.ErrMovieNotFound
	}

	n, err := s.ratings.DeleteByMovie(ctx, movieID)
	if err != nil {
		return res, fmt.Errorf("delete ratings of movie %d: %w", movieID, err)
	}
	res.RatingsDeleted = n

	res.MovieDeleted, err = s.movies.Delete(ctx, movieID)
	if err != nil {
		return res, fmt.Errorf("delete movie %d: %w", movieID, err)
	}
	if s.snap != nil {
		_, res.ModelOutOfSync = s.snap.Identity.ToDense(identity.Movie, movieID)
	}

	logging.Ctx(ctx).Info().
		Int("movie_id", movieID).
		Int64("ratings_deleted", n).
		Bool("model_out_of_sync", res.ModelOutOfSync).
		Msg("movie deleted")
	return res, nil
}
