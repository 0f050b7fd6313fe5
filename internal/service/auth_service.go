package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

// FirstUserID is assigned when neither the ratings nor the credential file
// hold any user id yet.
const FirstUserID = 611

const tokenTTL = 24 * time.Hour

type AuthService struct {
	users     UserStore
	ratings   repository.RatingStore
	jwtSecret []byte
}

type RegisterUserData struct {
	Email    string
	Name     string
	Username string
	Password string
}

func NewAuthService(users UserStore, ratings repository.RatingStore, secret string) *AuthService {
	return &AuthService{users: users, ratings: ratings, jwtSecret: []byte(secret)}
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, data RegisterUserData) (*models.UserDoc, error) {
	existing, err := s.users.FindByUsername(ctx, data.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	// The id continues after every known rater so a new account never
	// collides with a user the model was trained on.
	fromRatings, err := s.ratings.MaxUserID(ctx)
	if err != nil {
		return nil, err
	}

	u := &models.UserDoc{
		Username:     data.Username,
		Email:        data.Email,
		Name:         data.Name,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.InsertNext(ctx, u, fromRatings, FirstUserID); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("username", u.Username).Int("user_id", u.UserID).Msg("user registered")
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.UserDoc, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      u.UserID,
		"role":     u.Role,
		"name":     u.Name,
		"username": u.Username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserDoc, error) {
	return s.users.List(ctx)
}

// DeleteUser removes username from the credential file. Admins cannot
// delete their own account. The user's ratings stay in the store.
func (s *AuthService) DeleteUser(ctx context.Context, actor, username string) error {
	if actor == username {
		return models.ErrCannotDeleteSelf
	}
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	logging.Ctx(ctx).Info().Str("username", username).Str("by", actor).Msg("user deleted")
	return nil
}
