package service

import (
	"context"
	"errors"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/metrics"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

type RatingService struct {
	ratings repository.RatingStore
	movies  repository.MovieStore
	now     func() time.Time
}

func NewRatingService(r repository.RatingStore, m repository.MovieStore) *RatingService {
	return &RatingService{ratings: r, movies: m, now: time.Now}
}

// Submit appends a rating. The loaded model is not touched: a new rating
// only changes what counts as seen and the movie's stats.
func (s *RatingService) Submit(ctx context.Context, userID, movieID int, rating float64) (models.RatingDoc, error) {
	if !models.ValidRating(rating) {
		metrics.RecordRatingWrite("invalid")
		return models.RatingDoc{}, models.ErrInvalidRating
	}
	rd := models.RatingDoc{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		Timestamp: s.now().Unix(),
	}
	if err := s.ratings.Insert(ctx, rd); err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			metrics.RecordRatingWrite("unknown_movie")
		} else {
			metrics.RecordRatingWrite("error")
		}
		return models.RatingDoc{}, err
	}
	metrics.RecordRatingWrite("ok")

	if err := s.movies.ApplyRating(ctx, movieID, rating, rd.Timestamp); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("movie_id", movieID).Msg("rating stored but movie stats not updated")
	}
	return rd, nil
}

// History returns the user's ratings joined with movie metadata, newest
// first. Ratings of deleted movies are left out.
func (s *RatingService) History(ctx context.Context, userID int) ([]models.RatedMovie, error) {
	ratings, err := s.ratings.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(ratings))
	for i, r := range ratings {
		ids[i] = r.MovieID
	}
	meta, err := s.movies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.RatedMovie, 0, len(ratings))
	for _, r := range ratings {
		m, ok := meta[r.MovieID]
		if !ok {
			continue
		}
		out = append(out, models.RatedMovie{
			MovieID:   r.MovieID,
			Title:     m.Title,
			Genres:    m.Genres,
			PosterURL: m.PosterURL,
			Rating:    r.Rating,
			Timestamp: r.Timestamp,
		})
	}
	return out, nil
}
