package models

import (
	"strings"
)

// noGenres is the MovieLens placeholder for a movie without genre tags.
const noGenres = "(no genres listed)"

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	Sum         float64 `json:"-" bson:"sum"`
	LastRatedAt int64   `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

type MovieDoc struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Year        *int         `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string     `json:"genres" bson:"genres"`
	PosterURL   string       `json:"posterUrl,omitempty" bson:"posterUrl,omitempty"`
	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Average returns the mean observed rating, 0 when the movie has none.
func (m *MovieDoc) Average() float64 {
	if m.RatingStats == nil {
		return 0
	}
	return m.RatingStats.Average
}

// Count returns the number of ratings the movie has received.
func (m *MovieDoc) Count() int {
	if m.RatingStats == nil {
		return 0
	}
	return m.RatingStats.Count
}

// HasGenre reports whether the movie carries the genre, case-insensitively.
func (m *MovieDoc) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// ParseGenres splits a pipe-delimited genre string ("Action|Sci-Fi").
func ParseGenres(s string) []string {
	out := []string{}
	for _, g := range strings.Split(s, "|") {
		g = strings.TrimSpace(g)
		if g == "" || g == noGenres {
			continue
		}
		out = append(out, g)
	}
	return out
}

// JoinGenres is the inverse of ParseGenres.
func JoinGenres(genres []string) string {
	return strings.Join(genres, "|")
}

// MovieFilter drives catalog search and browsing.
type MovieFilter struct {
	Query  string   // substring of the title, case-insensitive
	Genres []string // every genre must match
	Letter string   // first letter of the title
	Limit  int
	Offset int
}

type MoviePage struct {
	Items  []MovieDoc `json:"items"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// Top metrics.
const (
	TopByPopularity = "popular"
	TopByRating     = "rating"
)

// DeleteMovieResult reports the cascade performed by an admin movie delete.
type DeleteMovieResult struct {
	MovieID        int   `json:"movieId"`
	MovieDeleted   bool  `json:"movieDeleted"`
	RatingsDeleted int64 `json:"ratingsDeleted"`
	ModelOutOfSync bool  `json:"modelOutOfSync"`
}
