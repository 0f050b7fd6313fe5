// Package ingest loads MovieLens-style CSV exports into the stores.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

var titleYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// header maps lowercase column names to positions and fails when a
// required column is absent.
func header(row []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(row))
	for i, name := range row {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadMovies parses movieId,title,genres with optional year and poster_url
// columns. Without a year column the year is taken from a trailing
// "(YYYY)" in the title.
func ReadMovies(r io.Reader) ([]models.MovieDoc, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read movies header: %w", err)
	}
	cols, err := header(first, "movieId", "title", "genres")
	if err != nil {
		return nil, err
	}

	var out []models.MovieDoc
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("movies line %d: %w", line, err)
		}
		id, err := strconv.Atoi(field(row, cols, "movieId"))
		if err != nil {
			return nil, fmt.Errorf("movies line %d: bad movieId: %w", line, err)
		}
		m := models.MovieDoc{
			MovieID:   id,
			Title:     field(row, cols, "title"),
			Genres:    models.ParseGenres(field(row, cols, "genres")),
			PosterURL: field(row, cols, "poster_url"),
		}
		if y, err := strconv.Atoi(field(row, cols, "year")); err == nil && y > 0 {
			m.Year = &y
		} else if mm := titleYear.FindStringSubmatch(m.Title); mm != nil {
			y, _ := strconv.Atoi(mm[1])
			m.Year = &y
		}
		out = append(out, m)
	}
	return out, nil
}

// ReadRatings streams userId,movieId,rating,timestamp rows to fn. Rows with
// an off-scale rating are counted as skipped, not failed.
func ReadRatings(r io.Reader, fn func(models.RatingDoc) error) (skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	first, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read ratings header: %w", err)
	}
	cols, err := header(first, "userId", "movieId", "rating")
	if err != nil {
		return 0, err
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			return skipped, fmt.Errorf("ratings line %d: %w", line, err)
		}
		uid, err1 := strconv.Atoi(field(row, cols, "userId"))
		mid, err2 := strconv.Atoi(field(row, cols, "movieId"))
		score, err3 := strconv.ParseFloat(field(row, cols, "rating"), 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return skipped, fmt.Errorf("ratings line %d: %w", line, err)
		}
		if !models.ValidRating(score) {
			skipped++
			continue
		}
		ts, _ := strconv.ParseInt(field(row, cols, "timestamp"), 10, 64)
		if err := fn(models.RatingDoc{UserID: uid, MovieID: mid, Rating: score, Timestamp: ts}); err != nil {
			return skipped, err
		}
	}
}
