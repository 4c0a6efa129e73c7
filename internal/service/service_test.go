package service

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/seorap-app/seorap-backend/internal/config"
	"github.com/seorap-app/seorap-backend/internal/repository"
)

// newTestServices builds the full service set over in-memory repositories.
func newTestServices(t *testing.T) *Services {
	t.Helper()
	repos := repository.NewRepositories()
	return NewServices(ServiceDeps{
		Config: config.Load(),
		Repos:  repos,
		Tx:     repository.NewMemoryTxManager(repos),
	})
}

// newTestUser registers a user and returns its id.
func newTestUser(t *testing.T, s *Services, name, email string) string {
	t.Helper()
	is := is.New(t)
	pair, err := s.Auth.Register(context.Background(), name, email, "password123")
	is.NoErr(err)
	return pair.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()

	pair, err := s.Auth.Register(ctx, "Alice", "alice@example.com", "password123")
	is.NoErr(err)
	is.True(pair.AccessToken != "")
	is.True(pair.RefreshToken != "")
	is.Equal(pair.User.Email, "alice@example.com")

	_, err = s.Auth.Register(ctx, "Alice Again", "alice@example.com", "password123")
	is.Equal(err, ErrUserExists)

	logged, err := s.Auth.Login(ctx, "ALICE@example.com", "password123")
	is.NoErr(err)
	is.Equal(logged.User.ID, pair.User.ID)

	_, err = s.Auth.Login(ctx, "alice@example.com", "wrong-password")
	is.Equal(err, ErrInvalidCredentials)
}

func TestTokenValidation(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()

	pair, err := s.Auth.Register(ctx, "Alice", "alice@example.com", "password123")
	is.NoErr(err)

	userID, err := s.Auth.ValidateToken(pair.AccessToken)
	is.NoErr(err)
	is.Equal(userID, pair.User.ID)

	_, err = s.Auth.ValidateToken("not-a-token")
	is.Equal(err, ErrInvalidToken)
}

func TestRefreshRotation(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()

	pair, err := s.Auth.Register(ctx, "Alice", "alice@example.com", "password123")
	is.NoErr(err)

	rotated, err := s.Auth.Refresh(ctx, pair.RefreshToken)
	is.NoErr(err)
	is.True(rotated.RefreshToken != pair.RefreshToken)

	// The old token is revoked by rotation.
	_, err = s.Auth.Refresh(ctx, pair.RefreshToken)
	is.Equal(err, ErrInvalidToken)
}
