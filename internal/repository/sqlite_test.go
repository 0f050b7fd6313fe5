package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan595/Movie-Recommendation-System/internal/db"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

func newSQLiteStores(t *testing.T) *Stores {
	t.Helper()
	sqldb, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	s := NewSQLiteStores(sqldb)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func seedCatalog(t *testing.T, s *Stores) {
	t.Helper()
	ctx := context.Background()
	year := 1995
	for _, m := range []models.MovieDoc{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}, Year: &year},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure", "Children", "Fantasy"}},
		{MovieID: 3, Title: "Grumpier Old Men (1995)", Genres: []string{"Comedy", "Romance"}},
		{MovieID: 4, Title: "Heat (1995)", Genres: []string{"Action", "Crime", "Thriller"}},
		{MovieID: 5, Title: "100% Love", Genres: nil},
	} {
		require.NoError(t, s.Movies.Insert(ctx, m))
	}
}

func TestSQLiteMovieInsertAndGet(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)
	ctx := context.Background()

	m, err := s.Movies.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Toy Story (1995)", m.Title)
	assert.Equal(t, []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}, m.Genres)
	require.NotNil(t, m.Year)
	assert.Equal(t, 1995, *m.Year)
	assert.Nil(t, m.RatingStats)

	missing, err := s.Movies.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// re-import refreshes metadata
	require.NoError(t, s.Movies.Insert(ctx, models.MovieDoc{MovieID: 1, Title: "Toy Story", Genres: []string{"Animation"}}))
	m, err = s.Movies.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Toy Story", m.Title)

	n, err := s.Movies.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestSQLiteGetByIDsDropsMissing(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)

	got, err := s.Movies.GetByIDs(context.Background(), []int{4, 1, 77})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, 1)
	assert.Contains(t, got, 4)
}

func TestSQLiteSearch(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.MovieFilter
		want   []int
		total  int64
	}{
		{"all by title", models.MovieFilter{Limit: 10}, []int{5, 3, 4, 2, 1}, 5},
		{"query is case-insensitive", models.MovieFilter{Query: "toy", Limit: 10}, []int{1}, 1},
		{"percent is literal", models.MovieFilter{Query: "100%", Limit: 10}, []int{5}, 1},
		{"genres are ANDed", models.MovieFilter{Genres: []string{"Adventure", "comedy"}, Limit: 10}, []int{1}, 1},
		{"whole genre only", models.MovieFilter{Genres: []string{"Roman"}, Limit: 10}, []int{}, 0},
		{"first letter", models.MovieFilter{Letter: "j", Limit: 10}, []int{2}, 1},
		{"paged", models.MovieFilter{Limit: 2, Offset: 2}, []int{4, 2}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.Movies.Search(ctx, tt.filter)
			require.NoError(t, err)
			ids := []int{}
			for _, m := range page.Items {
				ids = append(ids, m.MovieID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestSQLiteRatingsAndStats(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)
	ctx := context.Background()

	for _, r := range []models.RatingDoc{
		{UserID: 1, MovieID: 1, Rating: 4, Timestamp: 100},
		{UserID: 2, MovieID: 1, Rating: 5, Timestamp: 200},
		{UserID: 2, MovieID: 4, Rating: 3, Timestamp: 300},
		{UserID: 7, MovieID: 3, Rating: 5, Timestamp: 400},
	} {
		require.NoError(t, s.Ratings.Insert(ctx, r))
		require.NoError(t, s.Movies.ApplyRating(ctx, r.MovieID, r.Rating, r.Timestamp))
	}

	err := s.Ratings.Insert(ctx, models.RatingDoc{UserID: 1, MovieID: 404, Rating: 3, Timestamp: 1})
	assert.ErrorIs(t, err, models.ErrMovieNotFound)

	m, err := s.Movies.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m.RatingStats)
	assert.Equal(t, 2, m.RatingStats.Count)
	assert.InDelta(t, 4.5, m.RatingStats.Average, 1e-9)
	assert.EqualValues(t, 200, m.RatingStats.LastRatedAt)

	mine, err := s.Ratings.GetAllByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 4, mine[0].MovieID, "newest first")

	maxID, err := s.Ratings.MaxUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, maxID)

	top, err := s.Movies.Top(ctx, models.TopByPopularity, "", 10)
	require.NoError(t, err)
	require.Len(t, top, 3, "unrated movies are left out")
	assert.Equal(t, 1, top[0].MovieID)

	top, err = s.Movies.Top(ctx, models.TopByRating, "comedy", 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 3, top[0].MovieID)
	assert.Equal(t, 1, top[1].MovieID)
}

func TestSQLiteDeleteCascadeOrder(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)
	ctx := context.Background()

	require.NoError(t, s.Ratings.Insert(ctx, models.RatingDoc{UserID: 1, MovieID: 2, Rating: 4, Timestamp: 1}))
	require.NoError(t, s.Ratings.Insert(ctx, models.RatingDoc{UserID: 2, MovieID: 2, Rating: 2, Timestamp: 2}))

	_, err := s.Movies.Delete(ctx, 2)
	assert.Error(t, err, "foreign key blocks deleting a rated movie")

	n, err := s.Ratings.DeleteByMovie(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	ok, err := s.Movies.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Movies.Delete(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteGenres(t *testing.T) {
	s := newSQLiteStores(t)
	seedCatalog(t, s)

	got, err := s.Movies.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Adventure", "Animation", "Children", "Comedy", "Crime", "Fantasy", "Romance", "Thriller"}, got)
}

func TestSQLiteRecommendationHistory(t *testing.T) {
	s := newSQLiteStores(t)
	ctx := context.Background()

	first := &models.Recommendation{UserID: 3, Strategy: models.StrategyPersonalized, K: 2,
		Items: []models.RecItem{{MovieID: 1, Title: "a", Score: 4.2}}}
	require.NoError(t, s.Recommendations.Insert(ctx, first))
	second := &models.Recommendation{UserID: 3, Strategy: models.StrategyColdStartPopularity, K: 1}
	require.NoError(t, s.Recommendations.Insert(ctx, second))
	assert.NotEmpty(t, first.ID)

	got, err := s.Recommendations.FindByUser(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StrategyColdStartPopularity, got[0].Strategy)
	assert.Equal(t, 4.2, got[1].Items[0].Score)

	got, err = s.Recommendations.FindByUser(ctx, 3, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
