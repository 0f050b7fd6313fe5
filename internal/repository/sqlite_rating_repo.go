package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

type SQLiteRatingRepository struct {
	db *sql.DB
}

func NewSQLiteRatingRepository(db *sql.DB) *SQLiteRatingRepository {
	return &SQLiteRatingRepository{db: db}
}

func (r *SQLiteRatingRepository) query(ctx context.Context, q string, args ...any) ([]models.RatingDoc, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RatingDoc{}
	for rows.Next() {
		var rd models.RatingDoc
		if err := rows.Scan(&rd.UserID, &rd.MovieID, &rd.Rating, &rd.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

func (r *SQLiteRatingRepository) ListAll(ctx context.Context) ([]models.RatingDoc, error) {
	return r.query(ctx, `SELECT user_id, movie_id, rating, timestamp FROM ratings ORDER BY id`)
}

func (r *SQLiteRatingRepository) GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return r.query(ctx, `SELECT user_id, movie_id, rating, timestamp FROM ratings
WHERE user_id = ? ORDER BY timestamp DESC, id DESC`, userID)
}

// Insert checks the movie and writes the rating in one transaction; the
// foreign key on ratings.movie_id backs the check up.
func (r *SQLiteRatingRepository) Insert(ctx context.Context, rd models.RatingDoc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE movie_id = ?`, rd.MovieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrMovieNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, timestamp) VALUES (?, ?, ?, ?)`,
		rd.UserID, rd.MovieID, rd.Rating, rd.Timestamp); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRatingRepository) DeleteByMovie(ctx context.Context, movieID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE movie_id = ?`, movieID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRatingRepository) MaxUserID(ctx context.Context) (int, error) {
	var id sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(user_id) FROM ratings`).Scan(&id); err != nil {
		return 0, err
	}
	return int(id.Int64), nil
}

func (r *SQLiteRatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n)
	return n, err
}
