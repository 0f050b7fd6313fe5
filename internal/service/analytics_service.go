package service

import (
	"context"
	"sort"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

const topGenres = 10

type AnalyticsService struct {
	ratings *RatingService
	users   UserStore
	movies  repository.MovieStore
	store   repository.RatingStore
}

func NewAnalyticsService(ratings *RatingService, users UserStore, movies repository.MovieStore, store repository.RatingStore) *AnalyticsService {
	return &AnalyticsService{ratings: ratings, users: users, movies: movies, store: store}
}

// ForUser summarises one user's rating history.
func (s *AnalyticsService) ForUser(ctx context.Context, userID int) (*models.UserAnalytics, error) {
	history, err := s.ratings.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &models.UserAnalytics{
		UserID:          userID,
		TotalRatings:    len(history),
		GenreCounts:     []models.GenreCount{},
		RatingHistogram: []models.HistogramBucket{},
		History:         history,
	}
	if len(history) == 0 {
		return out, nil
	}

	var sum float64
	genres := map[string]int{}
	buckets := map[float64]int{}
	for _, h := range history {
		sum += h.Rating
		buckets[h.Rating]++
		for _, g := range h.Genres {
			genres[g]++
		}
	}
	out.AverageRating = sum / float64(len(history))

	for g, n := range genres {
		out.GenreCounts = append(out.GenreCounts, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out.GenreCounts, func(i, j int) bool {
		a, b := out.GenreCounts[i], out.GenreCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Genre < b.Genre
	})
	if len(out.GenreCounts) > 0 {
		out.FavoriteGenre = out.GenreCounts[0].Genre
	}
	if len(out.GenreCounts) > topGenres {
		out.GenreCounts = out.GenreCounts[:topGenres]
	}

	for v := models.MinRating; v <= models.MaxRating; v += models.RatingStep {
		out.RatingHistogram = append(out.RatingHistogram, models.HistogramBucket{Rating: v, Count: buckets[v]})
	}
	return out, nil
}

// Platform counts registered users, catalog movies and stored ratings.
func (s *AnalyticsService) Platform(ctx context.Context) (*models.PlatformStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.movies.Count(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PlatformStats{Users: users, Movies: movies, Ratings: ratings}, nil
}
