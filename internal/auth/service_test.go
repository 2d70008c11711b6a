package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zamato/zamato/internal/models"
	"github.com/zamato/zamato/internal/tokens"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &Service{Repo: &GormRepo{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}}
}

func TestCreateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute).UTC()

	token, err := svc.CreateAccessToken("owner", userID, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.AccessClaimsFromToken(token, svc.Repo.JWTSecret)
	require.NoError(t, err)

	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, userID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestCreateRefreshToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	userID := uuid.NewString()
	exp := time.Now().Add(24 * time.Hour).UTC()

	token, err := svc.CreateRefreshToken(userID, exp)
	require.NoError(t, err)

	claims, err := tokens.RefreshClaimsFromToken(token, svc.Repo.RefreshSecret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "user@example.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, "name")
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "user@example.com", "secret", "Test User")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret", user.PasswordHash)

	_, err = svc.Register(ctx, "user@example.com", "other", "Someone Else")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "user@example.com", "secret", "Test User")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	_, err = svc.Login(ctx, "user@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "secret", "Test User")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old token was revoked during rotation
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogOut(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "secret", "Test User")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, svc.LogOut(ctx, ""))
}
