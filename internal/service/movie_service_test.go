package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
)

func TestMovieServiceGet(t *testing.T) {
	movies := newMemMovies(models.MovieDoc{MovieID: 1, Title: "Toy Story (1995)"})
	svc := NewMovieService(movies, &memRatings{}, nil)

	m, err := svc.GetMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Toy Story (1995)", m.Title)

	_, err = svc.GetMovie(context.Background(), 2)
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
}

func TestMovieServiceSearchPaging(t *testing.T) {
	var docs []models.MovieDoc
	for i := 1; i <= 150; i++ {
		docs = append(docs, models.MovieDoc{MovieID: i, Title: "Movie"})
	}
	svc := NewMovieService(newMemMovies(docs...), &memRatings{}, nil)
	ctx := context.Background()

	page, err := svc.Search(ctx, models.MovieFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, int64(150), page.Total)

	page, err = svc.Search(ctx, models.MovieFilter{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestMovieServiceTopDefaultsToPopular(t *testing.T) {
	movies := newMemMovies(
		models.MovieDoc{MovieID: 1, RatingStats: stats(10, 5)},
		models.MovieDoc{MovieID: 2, RatingStats: stats(90, 3)},
		models.MovieDoc{MovieID: 3},
	)
	svc := NewMovieService(movies, &memRatings{}, nil)

	got, err := svc.Top(context.Background(), "bogus", "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].MovieID)

	got, err = svc.Top(context.Background(), models.TopByRating, "", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].MovieID)
}

func TestMovieServiceDeleteCascade(t *testing.T) {
	movies := newMemMovies(
		models.MovieDoc{MovieID: 10, Title: "Heat (1995)"},
		models.MovieDoc{MovieID: 20, Title: "Clueless (1995)"},
	)
	ratings := &memRatings{rows: []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 10, Rating: 3},
		{UserID: 2, MovieID: 20, Rating: 5},
	}}
	ids, err := identity.New(map[int]int{1: 0}, map[int]int{10: 0})
	require.NoError(t, err)
	snap := recommend.New(ids, tableScorer{}, nil, "v", recommend.DefaultLikedThreshold)
	svc := NewMovieService(movies, ratings, snap)
	ctx := context.Background()

	res, err := svc.Delete(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteMovieResult{
		MovieID:        10,
		MovieDeleted:   true,
		RatingsDeleted: 2,
		ModelOutOfSync: true,
	}, res)
	assert.Len(t, ratings.rows, 1)

	res, err = svc.Delete(ctx, 20)
	require.NoError(t, err)
	assert.False(t, res.ModelOutOfSync)

	_, err = svc.Delete(ctx, 10)
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
}
