package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// SQLiteMovieRepository is the catalog on the movies table. Rating stats are
// derived from the ratings table at read time.
type SQLiteMovieRepository struct {
	db *sql.DB
}

func NewSQLiteMovieRepository(db *sql.DB) *SQLiteMovieRepository {
	return &SQLiteMovieRepository{db: db}
}

const movieSelect = `
SELECT m.movie_id, m.title, m.genres, m.year, m.poster_url, m.created_at, m.updated_at,
       COALESCE(s.cnt, 0), COALESCE(s.avg, 0), COALESCE(s.last, 0)
FROM movies m
LEFT JOIN (
    SELECT movie_id, COUNT(*) AS cnt, AVG(rating) AS avg, MAX(timestamp) AS last
    FROM ratings GROUP BY movie_id
) s ON s.movie_id = m.movie_id`

func scanMovies(rows *sql.Rows) ([]models.MovieDoc, error) {
	defer rows.Close()
	out := []models.MovieDoc{}
	for rows.Next() {
		var (
			m      models.MovieDoc
			genres string
			year   sql.NullInt64
			cnt    int
			avg    float64
			last   int64
		)
		if err := rows.Scan(&m.MovieID, &m.Title, &genres, &year, &m.PosterURL, &m.CreatedAt, &m.UpdatedAt, &cnt, &avg, &last); err != nil {
			return nil, err
		}
		m.Genres = models.ParseGenres(genres)
		if year.Valid {
			y := int(year.Int64)
			m.Year = &y
		}
		if cnt > 0 {
			m.RatingStats = &models.RatingStats{Count: cnt, Average: avg, Sum: avg * float64(cnt), LastRatedAt: last}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteMovieRepository) query(ctx context.Context, q string, args ...any) ([]models.MovieDoc, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *SQLiteMovieRepository) ListAll(ctx context.Context) ([]models.MovieDoc, error) {
	return r.query(ctx, movieSelect+` ORDER BY m.movie_id`)
}

func (r *SQLiteMovieRepository) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	out, err := r.query(ctx, movieSelect+` WHERE m.movie_id = ?`, movieID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *SQLiteMovieRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.MovieDoc, error) {
	out := make(map[int]models.MovieDoc, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := movieSelect + ` WHERE m.movie_id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	movies, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		out[m.MovieID] = m
	}
	return out, nil
}

// genreClause matches one whole genre inside the pipe-delimited column.
const genreClause = `('|' || m.genres || '|') LIKE '%|' || ? || '|%'`

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func searchWhere(f models.MovieFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Query != "" {
		conds = append(conds, `m.title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}
	if f.Letter != "" {
		conds = append(conds, `m.title LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(f.Letter)+"%")
	}
	for _, g := range f.Genres {
		conds = append(conds, genreClause)
		args = append(args, g)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *SQLiteMovieRepository) Search(ctx context.Context, f models.MovieFilter) (models.MoviePage, error) {
	where, args := searchWhere(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies m`+where, args...).Scan(&total); err != nil {
		return models.MoviePage{}, err
	}
	q := movieSelect + where + ` ORDER BY m.title COLLATE NOCASE, m.movie_id LIMIT ? OFFSET ?`
	items, err := r.query(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return models.MoviePage{}, err
	}
	return models.MoviePage{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (r *SQLiteMovieRepository) Top(ctx context.Context, metric, genre string, limit int) ([]models.MovieDoc, error) {
	order := ` ORDER BY s.cnt DESC, s.avg DESC, m.movie_id`
	if metric == models.TopByRating {
		order = ` ORDER BY s.avg DESC, s.cnt DESC, m.movie_id`
	}
	where := ` WHERE s.cnt > 0`
	var args []any
	if genre != "" {
		where += ` AND ` + genreClause
		args = append(args, genre)
	}
	return r.query(ctx, movieSelect+where+order+` LIMIT ?`, append(args, limit)...)
}

func (r *SQLiteMovieRepository) Genres(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT genres FROM movies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		for _, g := range models.ParseGenres(s) {
			set[g] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

func (r *SQLiteMovieRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

// ApplyRating only touches updated_at; the stats come from the ratings join.
func (r *SQLiteMovieRepository) ApplyRating(ctx context.Context, movieID int, _ float64, _ int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE movies SET updated_at = ? WHERE movie_id = ?`,
		time.Now().UTC().Format(time.RFC3339), movieID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrMovieNotFound
	}
	return nil
}

func (r *SQLiteMovieRepository) Delete(ctx context.Context, movieID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = ?`, movieID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteMovieRepository) Insert(ctx context.Context, m models.MovieDoc) error {
	var year sql.NullInt64
	if m.Year != nil {
		year = sql.NullInt64{Int64: int64(*m.Year), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO movies (movie_id, title, genres, year, poster_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (movie_id) DO UPDATE SET
    title = excluded.title,
    genres = excluded.genres,
    year = excluded.year,
    poster_url = excluded.poster_url,
    updated_at = excluded.updated_at`,
		m.MovieID, m.Title, models.JoinGenres(m.Genres), year, m.PosterURL, now, now)
	return err
}
