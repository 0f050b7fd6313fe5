// Package embedding loads the exported latent-factor model and scores
// (user, movie) pairs with it. The model is read-only: nothing here trains.
package embedding

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/aryan595/Movie-Recommendation-System/internal/identity"
)

// File is the artifact name inside the model directory.
const File = "model.json"

var ErrIndexOutOfRange = errors.New("embedding index out of range")

// Model is a biased matrix factorisation:
//
//	r(u, i) = clamp(globalBias + userBias[u] + movieBias[i] + <U[u], M[i]>)
type Model struct {
	Version        string      `json:"version"`
	Dim            int         `json:"dim"`
	GlobalBias     float64     `json:"globalBias"`
	MinRating      float64     `json:"minRating"`
	MaxRating      float64     `json:"maxRating"`
	UserEmbedding  [][]float64 `json:"userEmbedding"`
	MovieEmbedding [][]float64 `json:"movieEmbedding"`
	UserBias       []float64   `json:"userBias"`
	MovieBias      []float64   `json:"movieBias"`
}

// Load reads dir/model.json and validates its shape.
func Load(dir string) (*Model, error) {
	b, err := os.ReadFile(filepath.Join(dir, File))
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks matrix dimensions and fills rating bounds when absent.
func (m *Model) Validate() error {
	if m.Dim <= 0 {
		return fmt.Errorf("model: dim must be positive, got %d", m.Dim)
	}
	if m.MinRating == 0 && m.MaxRating == 0 {
		m.MinRating, m.MaxRating = 0.5, 5.0
	}
	if m.MinRating > m.MaxRating {
		return fmt.Errorf("model: minRating %.2f above maxRating %.2f", m.MinRating, m.MaxRating)
	}
	if err := checkRows("userEmbedding", m.UserEmbedding, m.Dim); err != nil {
		return err
	}
	if err := checkRows("movieEmbedding", m.MovieEmbedding, m.Dim); err != nil {
		return err
	}
	if m.UserBias != nil && len(m.UserBias) != len(m.UserEmbedding) {
		return fmt.Errorf("model: userBias has %d entries for %d users", len(m.UserBias), len(m.UserEmbedding))
	}
	if m.MovieBias != nil && len(m.MovieBias) != len(m.MovieEmbedding) {
		return fmt.Errorf("model: movieBias has %d entries for %d movies", len(m.MovieBias), len(m.MovieEmbedding))
	}
	return nil
}

func checkRows(name string, rows [][]float64, dim int) error {
	for i, r := range rows {
		if len(r) != dim {
			return fmt.Errorf("model: %s row %d has %d values, want %d", name, i, len(r), dim)
		}
	}
	return nil
}

// Rows returns how many dense indices the model holds for kind.
func (m *Model) Rows(kind identity.Kind) int {
	if kind == identity.User {
		return len(m.UserEmbedding)
	}
	return len(m.MovieEmbedding)
}

// Predict scores every item for one user in a single pass.
func (m *Model) Predict(user int, items []int) ([]float64, error) {
	if user < 0 || user >= len(m.UserEmbedding) {
		return nil, fmt.Errorf("user %d: %w", user, ErrIndexOutOfRange)
	}
	u := m.UserEmbedding[user]
	base := m.GlobalBias + at(m.UserBias, user)

	out := make([]float64, len(items))
	for n, i := range items {
		if i < 0 || i >= len(m.MovieEmbedding) {
			return nil, fmt.Errorf("movie %d: %w", i, ErrIndexOutOfRange)
		}
		out[n] = m.clamp(base + at(m.MovieBias, i) + dot(u, m.MovieEmbedding[i]))
	}
	return out, nil
}

// Embedding returns the latent vector of one row. The slice is shared with
// the model and must not be modified.
func (m *Model) Embedding(kind identity.Kind, idx int) ([]float64, error) {
	rows := m.MovieEmbedding
	if kind == identity.User {
		rows = m.UserEmbedding
	}
	if idx < 0 || idx >= len(rows) {
		return nil, fmt.Errorf("%s %d: %w", kind, idx, ErrIndexOutOfRange)
	}
	return rows[idx], nil
}

func (m *Model) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(m.MinRating, math.Min(m.MaxRating, v))
}

func at(bias []float64, i int) float64 {
	if bias == nil {
		return 0
	}
	return bias[i]
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Cosine returns the cosine similarity of two vectors, 0 when either is
// all zeros.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var d, na, nb float64
	for i := range a {
		d += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return d / (math.Sqrt(na) * math.Sqrt(nb))
}
