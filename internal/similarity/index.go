// Package similarity holds the content similarity index: a TF-IDF vector
// per movie over its genre tokens and the full pairwise cosine matrix,
// built once from the catalog at startup and never mutated afterwards.
package similarity

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// Neighbor is one entry of a similar-movies list.
type Neighbor struct {
	MovieID    int     `json:"movieId"`
	Similarity float64 `json:"similarity"`
}

// Index stores the strict upper triangle of the symmetric N×N matrix as
// float32. The diagonal is never stored: a movie is excluded from its own
// neighbour list by position, not by score.
type Index struct {
	ids   []int       // position -> movie id
	pos   map[int]int // movie id -> position
	tri   []float32
	vocab []string
}

// Build vectorizes the catalog and fills the matrix. Rows are computed in
// parallel, each goroutine writing its own disjoint stretch of the triangle.
func Build(ctx context.Context, movies []models.MovieDoc) (*Index, error) {
	n := len(movies)
	ix := &Index{
		ids: make([]int, n),
		pos: make(map[int]int, n),
	}
	docs := make([]string, n)
	for i, m := range movies {
		if _, dup := ix.pos[m.MovieID]; dup {
			return nil, fmt.Errorf("similarity: duplicate movie id %d in catalog", m.MovieID)
		}
		ix.ids[i] = m.MovieID
		ix.pos[m.MovieID] = i
		docs[i] = models.JoinGenres(m.Genres)
	}

	rows, vocab := vectorize(docs)
	ix.vocab = vocab
	if n > 1 {
		ix.tri = make([]float32, n*(n-1)/2)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n-1; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			base := ix.offset(i, i+1)
			for j := i + 1; j < n; j++ {
				ix.tri[base+j-i-1] = float32(dot(rows[i], rows[j]))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ix, nil
}

// offset of (i, j), i < j, in the packed upper triangle.
func (ix *Index) offset(i, j int) int {
	n := len(ix.ids)
	return i*n - i*(i+1)/2 + (j - i - 1)
}

func (ix *Index) at(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return float64(ix.tri[ix.offset(i, j)])
}

// Len is the number of movies in the index.
func (ix *Index) Len() int { return len(ix.ids) }

// VocabularySize is the number of distinct genre tokens.
func (ix *Index) VocabularySize() int { return len(ix.vocab) }

func (ix *Index) Has(movieID int) bool {
	_, ok := ix.pos[movieID]
	return ok
}

// Similarity returns the cosine similarity of two indexed movies.
func (ix *Index) Similarity(a, b int) (float64, error) {
	i, ok := ix.pos[a]
	if !ok {
		return 0, fmt.Errorf("movie %d: %w", a, models.ErrUnknownEntity)
	}
	j, ok := ix.pos[b]
	if !ok {
		return 0, fmt.Errorf("movie %d: %w", b, models.ErrUnknownEntity)
	}
	if i == j {
		return 1, nil
	}
	return ix.at(i, j), nil
}

// SimilarTo returns up to k movies ordered by descending similarity, ties
// broken by ascending movie id. The query movie never appears in its own
// list. An id the index was not built with yields ErrUnknownEntity.
func (ix *Index) SimilarTo(movieID, k int) ([]Neighbor, error) {
	i, ok := ix.pos[movieID]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", movieID, models.ErrUnknownEntity)
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	out := make([]Neighbor, 0, len(ix.ids)-1)
	for j, id := range ix.ids {
		if j == i {
			continue
		}
		out = append(out, Neighbor{MovieID: id, Similarity: ix.at(i, j)})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Similarity != out[b].Similarity {
			return out[a].Similarity > out[b].Similarity
		}
		return out[a].MovieID < out[b].MovieID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
