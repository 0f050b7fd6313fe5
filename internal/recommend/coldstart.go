package recommend

import (
	"sort"
	"strings"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// DefaultSeedPool is how many popular movies are offered as cold-start
// seeds.
const DefaultSeedPool = 500

// PopularityScore is rating count times mean rating.
func PopularityScore(m *models.MovieDoc) float64 {
	return float64(m.Count()) * m.Average()
}

// Popular ranks the catalog by PopularityScore, skipping excluded ids.
func Popular(catalog []models.MovieDoc, exclude map[int]struct{}, k int) []Scored {
	out := make([]Scored, 0, len(catalog))
	for i := range catalog {
		m := &catalog[i]
		if _, skip := exclude[m.MovieID]; skip {
			continue
		}
		out = append(out, Scored{MovieID: m.MovieID, Score: PopularityScore(m)})
	}
	return topK(out, k)
}

// GenreOverlap scores each candidate by how many genres it shares with the
// union of the seed movies' genres. Seeds and excluded ids are never
// candidates. Seed ids missing from the catalog contribute nothing.
func GenreOverlap(catalog []models.MovieDoc, seeds []int, exclude map[int]struct{}, k int) []Scored {
	seedSet := make(map[int]struct{}, len(seeds))
	for _, id := range seeds {
		seedSet[id] = struct{}{}
	}
	liked := make(map[string]struct{})
	for i := range catalog {
		if _, ok := seedSet[catalog[i].MovieID]; !ok {
			continue
		}
		for _, g := range catalog[i].Genres {
			liked[strings.ToLower(g)] = struct{}{}
		}
	}

	out := make([]Scored, 0, len(catalog))
	for i := range catalog {
		m := &catalog[i]
		if _, ok := seedSet[m.MovieID]; ok {
			continue
		}
		if _, ok := exclude[m.MovieID]; ok {
			continue
		}
		out = append(out, Scored{MovieID: m.MovieID, Score: float64(overlap(liked, m.Genres))})
	}
	return topK(out, k)
}

func overlap(liked map[string]struct{}, genres []string) int {
	n := 0
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.ToLower(g)
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := liked[g]; ok {
			n++
		}
	}
	return n
}

// SeedPool returns up to n rated movies ordered by rating count, then mean
// rating, both descending, then ascending id. This is the list a new user
// picks cold-start seeds from.
func SeedPool(catalog []models.MovieDoc, n int) []models.MovieDoc {
	pool := make([]models.MovieDoc, 0, len(catalog))
	for _, m := range catalog {
		if m.Count() > 0 {
			pool = append(pool, m)
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		a, b := &pool[i], &pool[j]
		if a.Count() != b.Count() {
			return a.Count() > b.Count()
		}
		if a.Average() != b.Average() {
			return a.Average() > b.Average()
		}
		return a.MovieID < b.MovieID
	})
	if n > 0 && len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

func topK(s []Scored, k int) []Scored {
	if k <= 0 {
		return []Scored{}
	}
	sort.Slice(s, func(a, b int) bool { return less(s[a], s[b]) })
	if len(s) > k {
		s = s[:k]
	}
	return s
}
