package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan595/Movie-Recommendation-System/internal/db"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// RatingRepository is the Mongo rating store.
type RatingRepository struct {
	col    *mongo.Collection
	movies *mongo.Collection
}

func NewRatingRepository(mdb *mongo.Database) *RatingRepository {
	return &RatingRepository{
		col:    mdb.Collection(db.RatingsCollection),
		movies: mdb.Collection(db.MoviesCollection),
	}
}

// Imported ratings may carry int32, int64 or double values depending on the
// tool that loaded them, so documents are decoded loosely.
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func (r *RatingRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.RatingDoc{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, models.RatingDoc{
			UserID:    asInt(raw["userId"]),
			MovieID:   asInt(raw["movieId"]),
			Rating:    asFloat64(raw["rating"]),
			Timestamp: asInt64(raw["timestamp"]),
		})
	}
	return out, cur.Err()
}

func (r *RatingRepository) ListAll(ctx context.Context) ([]models.RatingDoc, error) {
	return r.find(ctx, bson.M{})
}

func (r *RatingRepository) GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return r.find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
}

func (r *RatingRepository) Insert(ctx context.Context, rd models.RatingDoc) error {
	n, err := r.movies.CountDocuments(ctx, bson.M{"movieId": rd.MovieID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	if n == 0 {
		return models.ErrMovieNotFound
	}
	if _, err := r.col.InsertOne(ctx, rd); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	return nil
}

func (r *RatingRepository) DeleteByMovie(ctx context.Context, movieID int) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *RatingRepository) MaxUserID(ctx context.Context) (int, error) {
	var raw bson.M
	err := r.col.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "userId", Value: -1}}).SetProjection(bson.M{"userId": 1}),
	).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return asInt(raw["userId"]), nil
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
