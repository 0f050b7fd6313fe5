package models

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type HistogramBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

type UserAnalytics struct {
	UserID          int               `json:"userId"`
	TotalRatings    int               `json:"totalRatings"`
	AverageRating   float64           `json:"averageRating"`
	FavoriteGenre   string            `json:"favoriteGenre,omitempty"`
	GenreCounts     []GenreCount      `json:"genreCounts"`
	RatingHistogram []HistogramBucket `json:"ratingHistogram"`
	History         []RatedMovie      `json:"history"`
}

type PlatformStats struct {
	Users   int   `json:"users"`
	Movies  int64 `json:"movies"`
	Ratings int64 `json:"ratings"`
}

// ModelEvaluation reports the accuracy of the loaded model on the ratings
// currently in the store.
type ModelEvaluation struct {
	ModelVersion string  `json:"modelVersion"`
	Evaluated    int     `json:"evaluated"`
	Skipped      int     `json:"skipped"`
	RMSE         float64 `json:"rmse"`
	MAE          float64 `json:"mae"`
}

// PendingMovie is a rated catalog movie the loaded model has never seen.
type PendingMovie struct {
	MovieID      int    `json:"movieId"`
	Title        string `json:"title"`
	RatingsCount int    `json:"ratingsCount"`
}

// ModelStatus compares the loaded model with the current catalog.
type ModelStatus struct {
	ModelVersion        string         `json:"modelVersion"`
	Generation          string         `json:"generation"`
	LoadedAt            string         `json:"loadedAt"`
	ModelUsers          int            `json:"modelUsers"`
	ModelMovies         int            `json:"modelMovies"`
	CatalogMovies       int            `json:"catalogMovies"`
	CatalogWithoutModel int            `json:"catalogWithoutModel"`
	ModelWithoutCatalog int            `json:"modelWithoutCatalog"`
	MinRatings          int            `json:"minRatings"`
	Pending             []PendingMovie `json:"pending"`
}
