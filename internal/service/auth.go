package service

import (
	"context"
	"errors"
	"time"

	"github.com/personachat/personachat-go/internal/crypto"
	"github.com/personachat/personachat-go/internal/model"
	"github.com/personachat/personachat-go/internal/repository"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrPasswordRequired    = errors.New("password is required")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the signup/login/refresh lifecycle. The signing
// secret lives here for the process lifetime, passed in from config at
// startup.
type AuthService struct {
	repo       *repository.UserRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService. refreshTTL <= 0 issues refresh
// tokens without an expiry claim.
func NewAuthService(repo *repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtSecret:  secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Signup hashes the password and persists a new identity record. No token
// is issued; the caller logs in separately. A concurrent signup race on the
// same email resolves to ErrUserExists via the store's unique constraint.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) error {
	if req.Email == "" {
		return ErrEmailRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login verifies the credentials and issues an access/refresh token pair
// with the user's email as the subject claim.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, err
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return TokenPair{}, err
	}
	if !match {
		return TokenPair{}, ErrIncorrectPassword
	}

	access, err := crypto.GenerateAccessToken(user.Email, s.jwtSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := crypto.GenerateRefreshToken(user.Email, s.jwtSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token bound to
// the same subject. The refresh token itself is not rotated.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := crypto.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	return crypto.GenerateAccessToken(claims.Subject, s.jwtSecret, s.accessTTL)
}
