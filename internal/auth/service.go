package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zamato/zamato/internal/hash"
	"github.com/zamato/zamato/internal/logging"
	"github.com/zamato/zamato/internal/models"
	"github.com/zamato/zamato/internal/tokens"
)

var (
	ErrValidation          = errors.New("validation")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type Service struct {
	Repo *GormRepo
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *Service) CreateAccessToken(role, subject string, exp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Repo.JWTSecret)
}

func (s *Service) CreateRefreshToken(subject string, exp time.Time) (string, error) {
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        tokens.NewJTI(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Repo.RefreshSecret)
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			l.Warn("register_error", "reason", "user already exists")
			return nil, err
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "invalid email or password")
			return nil, err
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Repo.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token: %w", ErrInvalidRefreshToken)
	}

	usable, err := s.Repo.RefreshUsable(ctx, claims.ID)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}
	if !usable {
		l.Warn("refresh_failed", "reason", "token expired, revoked or unknown")
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse refresh subject: %w", ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.Error("refresh_failed", "reason", "cannot revoke old token", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue_tokens")

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.CreateAccessToken(user.Role, user.ID.String(), accessExp)
	if err != nil {
		l.Error("token_error", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := s.CreateRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		l.Error("token_error", "error", err)
		return nil, err
	}

	if err := s.Repo.StoreRefreshToken(ctx, refreshToken); err != nil {
		l.Error("token_error", "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
