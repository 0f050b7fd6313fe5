package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

const progressEvery = 10000

type Result struct {
	Movies         int `json:"movies"`
	Ratings        int `json:"ratings"`
	SkippedRatings int `json:"skippedRatings"`
	UnknownMovies  int `json:"unknownMovies"`
}

// Importer writes parsed CSV rows through the store interfaces, so the same
// import works against Mongo and SQLite.
type Importer struct {
	Movies  repository.MovieStore
	Ratings repository.RatingStore
}

// ImportMovies upserts every movie. Existing rating stats are kept.
func (im *Importer) ImportMovies(ctx context.Context, r io.Reader, res *Result) error {
	movies, err := ReadMovies(r)
	if err != nil {
		return err
	}
	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.Movies.Insert(ctx, m); err != nil {
			return fmt.Errorf("insert movie %d: %w", m.MovieID, err)
		}
		res.Movies++
	}
	logging.Info().Int("movies", res.Movies).Msg("movies imported")
	return nil
}

// ImportRatings appends every rating. Ratings of movies missing from the
// catalog are counted and skipped.
func (im *Importer) ImportRatings(ctx context.Context, r io.Reader, res *Result) error {
	skipped, err := ReadRatings(r, func(rd models.RatingDoc) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.Ratings.Insert(ctx, rd); err != nil {
			if errors.Is(err, models.ErrMovieNotFound) {
				res.UnknownMovies++
				return nil
			}
			return err
		}
		if err := im.Movies.ApplyRating(ctx, rd.MovieID, rd.Rating, rd.Timestamp); err != nil {
			return err
		}
		res.Ratings++
		if res.Ratings%progressEvery == 0 {
			logging.Info().Int("ratings", res.Ratings).Msg("importing ratings")
		}
		return nil
	})
	res.SkippedRatings += skipped
	if err != nil {
		return err
	}
	logging.Info().
		Int("ratings", res.Ratings).
		Int("skipped", res.SkippedRatings).
		Int("unknown_movies", res.UnknownMovies).
		Msg("ratings imported")
	return nil
}
