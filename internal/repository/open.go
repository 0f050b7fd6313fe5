package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aryan595/Movie-Recommendation-System/internal/config"
	"github.com/aryan595/Movie-Recommendation-System/internal/db"
)

// Open connects the backend named by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		sqldb, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStores(sqldb), nil
	case "mongo", "":
		mdb, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return NewMongoStores(mdb), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func NewMongoStores(mdb *mongo.Database) *Stores {
	return &Stores{
		Movies:          NewMovieRepository(mdb),
		Ratings:         NewRatingRepository(mdb),
		Recommendations: NewRecommendationRepository(mdb),
		close:           func(ctx context.Context) error { return mdb.Client().Disconnect(ctx) },
	}
}

func NewSQLiteStores(sqldb *sql.DB) *Stores {
	return &Stores{
		Movies:          NewSQLiteMovieRepository(sqldb),
		Ratings:         NewSQLiteRatingRepository(sqldb),
		Recommendations: NewSQLiteRecommendationRepository(sqldb),
		close:           func(context.Context) error { return sqldb.Close() },
	}
}
