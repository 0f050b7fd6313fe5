package embedding

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
)

func testModel() *Model {
	return &Model{
		Version:        "test",
		Dim:            2,
		GlobalBias:     3.0,
		MinRating:      0.5,
		MaxRating:      5.0,
		UserEmbedding:  [][]float64{{1, 0}, {0, 1}},
		MovieEmbedding: [][]float64{{0.5, 0}, {0, 0.5}, {10, 10}},
		UserBias:       []float64{0.1, -0.1},
		MovieBias:      []float64{0, 0.2, 0},
	}
}

func TestPredict(t *testing.T) {
	m := testModel()
	got, err := m.Predict(0, []int{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.InDelta(t, 3.6, got[0], 1e-9)
	assert.InDelta(t, 3.3, got[1], 1e-9)
	assert.Equal(t, 5.0, got[2], "clamped to maxRating")
}

func TestPredictOutOfRange(t *testing.T) {
	m := testModel()

	_, err := m.Predict(5, []int{0})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = m.Predict(0, []int{0, 3})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestEmbedding(t *testing.T) {
	m := testModel()

	v, err := m.Embedding(identity.Movie, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5}, v)

	_, err = m.Embedding(identity.User, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 3, m.Rows(identity.Movie))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 1}, []float64{2, 2}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 1}))
}

func TestValidate(t *testing.T) {
	m := testModel()
	m.MovieEmbedding[1] = []float64{1}
	assert.ErrorContains(t, m.Validate(), "movieEmbedding row 1")

	m = testModel()
	m.UserBias = []float64{0}
	assert.ErrorContains(t, m.Validate(), "userBias")

	m = testModel()
	m.MinRating, m.MaxRating = 0, 0
	require.NoError(t, m.Validate())
	assert.Equal(t, 0.5, m.MinRating)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	body := `{"version":"v1","dim":1,"globalBias":3.5,"userEmbedding":[[1]],"movieEmbedding":[[0.5],[-0.5]]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, File), []byte(body), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1", m.Version)

	got, err := m.Predict(0, []int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.False(t, math.IsNaN(got[0]))
}
