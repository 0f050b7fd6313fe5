package repository

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan595/Movie-Recommendation-System/internal/db"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// MovieRepository is the Mongo catalog.
type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(mdb *mongo.Database) *MovieRepository {
	return &MovieRepository{col: mdb.Collection(db.MoviesCollection)}
}

func (r *MovieRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.MovieDoc, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.MovieDoc{}
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (r *MovieRepository) ListAll(ctx context.Context) ([]models.MovieDoc, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "movieId", Value: 1}}))
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovieRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.MovieDoc, error) {
	out := make(map[int]models.MovieDoc, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	movies, err := r.find(ctx, bson.M{"movieId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		out[m.MovieID] = m
	}
	return out, nil
}

func searchFilter(f models.MovieFilter) bson.M {
	filter := bson.M{}
	var title []bson.M
	if f.Query != "" {
		title = append(title, bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}})
	}
	if f.Letter != "" {
		title = append(title, bson.M{"title": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Letter), Options: "i"}})
	}
	if len(title) > 0 {
		filter["$and"] = title
	}
	if len(f.Genres) > 0 {
		all := make(bson.A, 0, len(f.Genres))
		for _, g := range f.Genres {
			all = append(all, primitive.Regex{Pattern: "^" + regexp.QuoteMeta(g) + "$", Options: "i"})
		}
		filter["genres"] = bson.M{"$all": all}
	}
	return filter
}

func (r *MovieRepository) Search(ctx context.Context, f models.MovieFilter) (models.MoviePage, error) {
	filter := searchFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return models.MoviePage{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}, {Key: "movieId", Value: 1}}).
		SetLimit(int64(f.Limit)).
		SetSkip(int64(f.Offset))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return models.MoviePage{}, err
	}
	return models.MoviePage{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Top ranks rated movies by popularity (count) or by mean rating.
func (r *MovieRepository) Top(ctx context.Context, metric, genre string, limit int) ([]models.MovieDoc, error) {
	sortSpec := bson.D{
		{Key: "ratingStats.count", Value: -1},
		{Key: "ratingStats.average", Value: -1},
		{Key: "movieId", Value: 1},
	}
	if metric == models.TopByRating {
		sortSpec = bson.D{
			{Key: "ratingStats.average", Value: -1},
			{Key: "ratingStats.count", Value: -1},
			{Key: "movieId", Value: 1},
		}
	}

	filter := bson.M{"ratingStats.count": bson.M{"$gt": 0}}
	if genre != "" {
		filter["genres"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(genre) + "$", Options: "i"}
	}
	return r.find(ctx, filter, options.Find().SetSort(sortSpec).SetLimit(int64(limit)))
}

func (r *MovieRepository) Genres(ctx context.Context) ([]string, error) {
	vals, err := r.col.Distinct(ctx, "genres", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// ApplyRating keeps count and sum in the document and recomputes the average
// in the same pipeline update.
func (r *MovieRepository) ApplyRating(ctx context.Context, movieID int, score float64, ts int64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratingStats.count":       bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$ratingStats.count", 0}}, 1}},
			"ratingStats.sum":         bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$ratingStats.sum", 0}}, score}},
			"ratingStats.lastRatedAt": ts,
			"updatedAt":               time.Now().UTC().Format(time.RFC3339),
		}}},
		{{Key: "$set", Value: bson.M{
			"ratingStats.average": bson.M{"$divide": bson.A{"$ratingStats.sum", "$ratingStats.count"}},
		}}},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"movieId": movieID}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, movieID int) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MovieRepository) Insert(ctx context.Context, m models.MovieDoc) error {
	now := time.Now().UTC().Format(time.RFC3339)
	set := bson.M{
		"title":     m.Title,
		"genres":    m.Genres,
		"posterUrl": m.PosterURL,
		"updatedAt": now,
	}
	if m.Year != nil {
		set["year"] = *m.Year
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"movieId": m.MovieID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": now}},
		options.Update().SetUpsert(true),
	)
	return err
}
