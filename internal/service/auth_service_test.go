package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
)

const testSecret = "test-secret-123"

func TestRegisterAssignsIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty stores start at the first id", func(t *testing.T) {
		svc := NewAuthService(newMemUsers(), &memRatings{}, testSecret)
		u, err := svc.Register(ctx, RegisterUserData{Username: "ana", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, FirstUserID, u.UserID)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.NotEqual(t, "password1", u.PasswordHash)
	})

	t.Run("continues after raters", func(t *testing.T) {
		ratings := &memRatings{rows: []models.RatingDoc{{UserID: 610, MovieID: 1, Rating: 4}}}
		users := newMemUsers()
		svc := NewAuthService(users, ratings, testSecret)

		u, err := svc.Register(ctx, RegisterUserData{Username: "ana", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, 611, u.UserID)

		u, err = svc.Register(ctx, RegisterUserData{Username: "bo", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, 612, u.UserID)
	})
}

func TestRegisterConcurrentGetsDistinctIDs(t *testing.T) {
	users, err := repository.NewUserRepository(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	svc := NewAuthService(users, &memRatings{}, testSecret)
	ctx := context.Background()

	const n = 8
	ids := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := svc.Register(ctx, RegisterUserData{Username: fmt.Sprintf("user%d", i), Password: "password1"})
			errs[i] = err
			if err == nil {
				ids[i] = u.UserID
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(ids)
	want := make([]int, n)
	for i := range want {
		want[i] = FirstUserID + i
	}
	assert.Equal(t, want, ids)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewAuthService(newMemUsers(), &memRatings{}, testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUserData{Username: "ana", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterUserData{Username: "ana", Password: "other-pass"})
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newMemUsers(), &memRatings{}, testSecret)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterUserData{Username: "ana", Name: "Ana", Password: "password1"})
	require.NoError(t, err)

	token, u, err := svc.Login(ctx, "ana", "password1")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(FirstUserID), claims["sub"])
	assert.Equal(t, models.RoleUser, claims["role"])
	assert.Equal(t, "ana", claims["username"])

	_, _, err = svc.Login(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestDeleteUser(t *testing.T) {
	users := newMemUsers()
	svc := NewAuthService(users, &memRatings{}, testSecret)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterUserData{Username: "ana", Password: "password1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin", "admin"), models.ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin", "ghost"), models.ErrUserNotFound)
	require.NoError(t, svc.DeleteUser(ctx, "admin", "ana"))

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
