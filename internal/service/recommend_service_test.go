package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/similarity"
)

type recFixture struct {
	svc     *RecommendService
	movies  *memMovies
	ratings *memRatings
	history *memHistory
	snap    *recommend.Snapshot
}

// newRecFixture trains on movies 10, 20, 30 and 40, but 40 has since been
// removed from the catalog.
func newRecFixture(t *testing.T) *recFixture {
	t.Helper()
	movies := newMemMovies(
		models.MovieDoc{MovieID: 10, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}, RatingStats: stats(100, 4)},
		models.MovieDoc{MovieID: 20, Title: "Clueless (1995)", Genres: []string{"Comedy", "Romance"}, RatingStats: stats(10, 3)},
		models.MovieDoc{MovieID: 30, Title: "Rush Hour (1998)", Genres: []string{"Action", "Comedy"}, RatingStats: stats(50, 4.5)},
		models.MovieDoc{MovieID: 50, Title: "Persona (1966)", Genres: []string{"Drama"}},
	)
	ratings := &memRatings{movies: movies, rows: []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5, Timestamp: 100},
		{UserID: 2, MovieID: 20, Rating: 2, Timestamp: 100},
	}}

	ids, err := identity.New(map[int]int{1: 0, 2: 1}, map[int]int{10: 0, 20: 1, 30: 2, 40: 3})
	require.NoError(t, err)
	scorer := tableScorer{
		scores:  map[int]float64{0: 4, 1: 3, 2: 4.5, 3: 5},
		vectors: map[int][]float64{0: {1, 0}, 1: {0, 1}, 2: {1, 1}, 3: {1, -1}},
	}
	catalog, _ := movies.ListAll(context.Background())
	sim, err := similarity.Build(context.Background(), catalog)
	require.NoError(t, err)
	snap := recommend.New(ids, scorer, sim, "mf-test", recommend.DefaultLikedThreshold)

	history := &memHistory{}
	svc := NewRecommendService(snap, movies, ratings, history, nil, RecommendOptions{MinSeeds: 2})
	return &recFixture{svc: svc, movies: movies, ratings: ratings, history: history, snap: snap}
}

func itemIDs(items []models.RecItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.MovieID
	}
	return out
}

func TestRecommendPersonalizedDropsDangling(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 1, K: 3})
	require.NoError(t, err)
	assert.Equal(t, models.StrategyPersonalized, res.Strategy)
	assert.Equal(t, f.snap.Generation, res.Generation)
	// 40 ranks first but is gone from the catalog, so the list is short.
	assert.Equal(t, []int{30, 20}, itemIDs(res.Items))
	assert.Equal(t, "Rush Hour (1998)", res.Items[0].Title)
	assert.InDelta(t, 4.5, res.Items[0].Score, 1e-9)
	assert.Nil(t, res.Items[0].Explanation)

	require.Len(t, f.history.recs, 1)
	assert.Equal(t, "mf-test", f.history.recs[0].ModelVersion)
	assert.Equal(t, 3, f.history.recs[0].K)
}

func TestRecommendNeverReturnsSeen(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 1, K: 50})
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(res.Items), 10)
}

func TestRecommendWithExplanations(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 1, K: 3, Explain: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	exp := res.Items[0].Explanation
	require.NotNil(t, exp)
	assert.Equal(t, 30, exp.MovieID)
	assert.Equal(t, 10, exp.LikedMovieID)
	assert.Equal(t, "Heat (1995)", exp.LikedTitle)
	assert.InDelta(t, 0.7071, exp.Similarity, 1e-3)
	assert.Empty(t, res.Items[0].Reason)
}

func TestRecommendExplanationFallback(t *testing.T) {
	f := newRecFixture(t)

	// User 2 has no rating at or above the liked threshold.
	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 2, K: 3, Explain: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)
	for _, it := range res.Items {
		assert.Nil(t, it.Explanation)
		assert.Equal(t, models.NoExplanationReason, it.Reason)
	}
}

func TestRecommendUnknownUserGetsPopular(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 999, K: 3})
	require.NoError(t, err)
	assert.Equal(t, models.StrategyColdStartPopularity, res.Strategy)
	// 100*4, 50*4.5, 10*3
	assert.Equal(t, []int{10, 30, 20}, itemIDs(res.Items))
}

func TestRecommendClampsK(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 999, K: 1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	assert.Equal(t, DefaultK, f.svc.clampK(0))
	assert.Equal(t, MaxK, f.svc.clampK(MaxK+1))
}

func TestRecommendHistoryFailureSwallowed(t *testing.T) {
	f := newRecFixture(t)
	f.history.err = errors.New("disk full")

	res, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 1, K: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Items)
}

func TestRecommendRatingStoreFailure(t *testing.T) {
	f := newRecFixture(t)
	f.ratings.err = errors.New("down")

	_, err := f.svc.Recommend(context.Background(), RecRequest{UserID: 1})
	assert.Error(t, err)
}

func TestColdStart(t *testing.T) {
	f := newRecFixture(t)

	res, err := f.svc.ColdStart(context.Background(), 700, []int{10, 20}, 5)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyGenreOverlap, res.Strategy)
	// 30 shares Action and Comedy, 50 shares nothing. Seeds are excluded.
	assert.Equal(t, []int{30, 50}, itemIDs(res.Items))
	assert.InDelta(t, 2, res.Items[0].Score, 1e-9)
}

func TestColdStartNeedsEnoughSeeds(t *testing.T) {
	f := newRecFixture(t)

	// Duplicates and unknown ids do not count toward the minimum.
	_, err := f.svc.ColdStart(context.Background(), 700, []int{10, 10, 12345}, 5)
	assert.ErrorIs(t, err, models.ErrNotEnoughSeeds)
}

func TestSeedPool(t *testing.T) {
	f := newRecFixture(t)

	pool, err := f.svc.SeedPool(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, 10, pool[0].MovieID)
	assert.Equal(t, 30, pool[1].MovieID)
}

func TestSimilar(t *testing.T) {
	f := newRecFixture(t)

	items, err := f.svc.Similar(context.Background(), 10, 2)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, 30, items[0].MovieID)
	assert.NotContains(t, itemIDs(items), 10)

	_, err = f.svc.Similar(context.Background(), 4242, 2)
	assert.ErrorIs(t, err, models.ErrUnknownEntity)
}

func TestSimilarDeletedMovieIsUnknown(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	_, err := NewMovieService(f.movies, f.ratings, f.snap).Delete(ctx, 10)
	require.NoError(t, err)

	items, err := f.svc.Similar(ctx, 10, 3)
	assert.ErrorIs(t, err, models.ErrUnknownEntity)
	assert.Nil(t, items)
}

func TestSimilarCacheHitDropsDeletedNeighbour(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()
	c := newMemCache()
	svc := NewRecommendService(f.snap, f.movies, f.ratings, f.history, c, RecommendOptions{MinSeeds: 2})

	first, err := svc.Similar(ctx, 30, 3)
	require.NoError(t, err)
	require.Contains(t, itemIDs(first), 10)
	require.Len(t, c.vals, 1)

	_, err = NewMovieService(f.movies, f.ratings, f.snap).Delete(ctx, 10)
	require.NoError(t, err)

	second, err := svc.Similar(ctx, 30, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.NotContains(t, itemIDs(second), 10)
	assert.Len(t, second, len(first)-1)
}

func TestHistory(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	_, err := f.svc.Recommend(ctx, RecRequest{UserID: 1, K: 2})
	require.NoError(t, err)
	_, err = f.svc.Recommend(ctx, RecRequest{UserID: 999, K: 2})
	require.NoError(t, err)

	recs, err := f.svc.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StrategyPersonalized, recs[0].Strategy)
}
