package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// createdLayout has fixed-width fractions so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRecommendationRepository struct {
	db *sql.DB
}

func NewSQLiteRecommendationRepository(db *sql.DB) *SQLiteRecommendationRepository {
	return &SQLiteRecommendationRepository{db: db}
}

func (r *SQLiteRecommendationRepository) Insert(ctx context.Context, rec *models.Recommendation) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO recommendations (id, user_id, strategy, model_version, generation, k, items, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Strategy, rec.ModelVersion, rec.Generation, rec.K, string(items),
		rec.CreatedAt.UTC().Format(createdLayout))
	return err
}

func (r *SQLiteRecommendationRepository) FindByUser(ctx context.Context, userID int, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, strategy, model_version, generation, k, items, created_at
FROM recommendations WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Recommendation{}
	for rows.Next() {
		var (
			rec     models.Recommendation
			items   string
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Strategy, &rec.ModelVersion, &rec.Generation, &rec.K, &items, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(createdLayout, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
