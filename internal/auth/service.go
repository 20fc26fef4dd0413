package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aridharma/sheetdrop/internal/domain"
	"github.com/aridharma/sheetdrop/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for wrong email/password pairs.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("user already exists with this email")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")
)

const bcryptCost = 10

// Service issues and verifies credentials for upload accounts.
type Service struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth service signing tokens with secret.
func NewService(users repository.UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates an account with a bcrypt-hashed password and returns the
// stored user together with a fresh token.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.NewUser(fullName, email, string(hash)))
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// GenerateToken signs an HS256 token for the user.
func (s *Service) GenerateToken(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates a bearer token, returning the user id.
func (s *Service) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
