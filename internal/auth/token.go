package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contactbook/contactbook/internal/apperr"
)

// DefaultTokenTTL is the validity window of an issued bearer token.
const DefaultTokenTTL = 24 * time.Hour

// Verifier resolves a bearer token to the user id it was issued for.
type Verifier interface {
	Verify(token string) (string, error)
}

// Claims is the JWT payload carried by every bearer token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens with a single static secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer for the given secret. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token bound to userID, valid for the issuer's TTL.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the user id claim.
// Every failure, including expiry, is reported as apperr.ErrInvalidToken.
func (i *TokenIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", apperr.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", apperr.ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing userId claim", apperr.ErrInvalidToken)
	}
	return claims.UserID, nil
}
