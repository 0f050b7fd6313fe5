package models

import "math"

const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

// RatingDoc is a single (user, movie, score, time) fact. Ratings are
// append-only: the same user may rate the same movie more than once.
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}

// ValidRating reports whether v is on the 0.5..5.0 scale at 0.5 granularity.
func ValidRating(v float64) bool {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return false
	}
	steps := v / RatingStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// RatedMovie is a rating joined with the movie it refers to.
type RatedMovie struct {
	MovieID   int      `json:"movieId"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	PosterURL string   `json:"posterUrl,omitempty"`
	Rating    float64  `json:"rating"`
	Timestamp int64    `json:"timestamp"`
}
