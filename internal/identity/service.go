package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contactbook/contactbook/internal/apperr"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service handles signup and login.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Signup hashes the password and stores a new user.
func (s *Service) Signup(ctx context.Context, creds Credentials) (User, error) {
	if strings.TrimSpace(creds.Email) == "" {
		return User{}, fmt.Errorf("%w: email is required", apperr.ErrValidation)
	}
	if creds.Password == "" {
		return User{}, fmt.Errorf("%w: password is required", apperr.ErrValidation)
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, User{
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) || errors.Is(err, apperr.ErrPersistence) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both yield apperr.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return LoginResult{}, apperr.ErrInvalidCredentials
		}
		if errors.Is(err, apperr.ErrPersistence) {
			return LoginResult{}, err
		}
		return LoginResult{}, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: user.ID, Token: token}, nil
}
