package service

import (
	"context"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// UserStore is the credential store as the services use it.
// repository.UserRepository implements it.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.UserDoc, error)
	FindByID(ctx context.Context, userID int) (*models.UserDoc, error)
	List(ctx context.Context) ([]models.UserDoc, error)
	Count(ctx context.Context) (int, error)
	// InsertNext sets u.UserID to the id after max(floor, highest stored
	// id), or first when both are zero, and inserts u atomically.
	InsertNext(ctx context.Context, u *models.UserDoc, floor, first int) error
	Delete(ctx context.Context, username string) error
}

// SimilarCache holds similar-movie neighbour lists. cache.Cache implements
// it.
type SimilarCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
