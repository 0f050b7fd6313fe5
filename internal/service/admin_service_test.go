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

func TestModelStatus(t *testing.T) {
	movies := newMemMovies(
		models.MovieDoc{MovieID: 10, Title: "in model"},
		models.MovieDoc{MovieID: 60, Title: "new, popular", RatingStats: stats(40, 4)},
		models.MovieDoc{MovieID: 70, Title: "new, niche", RatingStats: stats(2, 5)},
		models.MovieDoc{MovieID: 80, Title: "new, busier", RatingStats: stats(90, 3)},
	)
	ids, err := identity.New(map[int]int{1: 0}, map[int]int{10: 0, 40: 1})
	require.NoError(t, err)
	snap := recommend.New(ids, tableScorer{}, nil, "mf-9", recommend.DefaultLikedThreshold)
	svc := NewAdminService(snap, movies)

	st, err := svc.ModelStatus(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Equal(t, "mf-9", st.ModelVersion)
	assert.Equal(t, 1, st.ModelUsers)
	assert.Equal(t, 2, st.ModelMovies)
	assert.Equal(t, 4, st.CatalogMovies)
	assert.Equal(t, 3, st.CatalogWithoutModel)
	assert.Equal(t, 1, st.ModelWithoutCatalog)
	require.Len(t, st.Pending, 2)
	assert.Equal(t, 80, st.Pending[0].MovieID)
	assert.Equal(t, 60, st.Pending[1].MovieID)

	st, err = svc.ModelStatus(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Len(t, st.Pending, 1)
}
