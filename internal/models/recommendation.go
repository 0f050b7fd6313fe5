package models

import "time"

// Strategies a recommendation list can be produced with.
const (
	StrategyPersonalized        = "personalized"
	StrategyColdStartPopularity = "cold_start_popularity"
	StrategyGenreOverlap        = "cold_start_genre_overlap"
	StrategyContentSimilarity   = "content_similarity"
)

// NoExplanationReason is shown when no liked movie can justify an item.
const NoExplanationReason = "This is a top general recommendation. Rate some movies 4 stars or higher to get personalized reasons!"

type RecItem struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Genres      []string     `json:"genres,omitempty" bson:"genres,omitempty"`
	PosterURL   string       `json:"posterUrl,omitempty" bson:"-"`
	Score       float64      `json:"score" bson:"score"`
	Explanation *Explanation `json:"explanation,omitempty" bson:"-"`
	Reason      string       `json:"reason,omitempty" bson:"-"`
}

// Explanation ties a recommended movie to the liked movie whose embedding
// is closest to it.
type Explanation struct {
	MovieID      int     `json:"movieId"`
	LikedMovieID int     `json:"likedMovieId"`
	LikedTitle   string  `json:"likedTitle"`
	Similarity   float64 `json:"similarity"`
}

type RecommendResult struct {
	UserID     int       `json:"userId"`
	Strategy   string    `json:"strategy"`
	Generation string    `json:"generation"`
	Items      []RecItem `json:"items"`
}

// Recommendation is the audit record of a served list.
type Recommendation struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	UserID       int       `bson:"userId"        json:"userId"`
	Strategy     string    `bson:"strategy"      json:"strategy"`
	ModelVersion string    `bson:"modelVersion"  json:"modelVersion"`
	Generation   string    `bson:"generation"    json:"generation"`
	K            int       `bson:"k"             json:"k"`
	Items        []RecItem `bson:"items"         json:"items"`
	CreatedAt    time.Time `bson:"createdAt"     json:"createdAt"`
}
