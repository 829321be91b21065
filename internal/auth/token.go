// ABOUTME: JWT issuance and validation for API bearer tokens
// ABOUTME: HMAC signing with a pinned algorithm and configurable default TTL

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// signingMethods maps configured algorithm names to jwt signing methods.
var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenService issues and validates bearer tokens. The signing algorithm
// is pinned at construction; tokens signed with any other method are
// rejected outright.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
}

// NewTokenService creates a token service for the given secret and
// algorithm name (HS256, HS384, HS512). defaultTTL applies when Issue is
// called with a non-positive lifetime; a non-positive defaultTTL falls
// back to 60 minutes.
func NewTokenService(secret []byte, algorithm string, defaultTTL time.Duration) (*TokenService, error) {
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Minute
	}
	return &TokenService{
		secret:     secret,
		method:     method,
		defaultTTL: defaultTTL,
	}, nil
}

// Issue creates a signed token for the given subject. A non-positive ttl
// uses the service default.
func (s *TokenService) Issue(subjectID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subjectID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// IssueMinutes is Issue with the lifetime given as a minute count.
func (s *TokenService) IssueMinutes(subjectID string, minutes int) (string, error) {
	return s.Issue(subjectID, time.Duration(minutes)*time.Minute)
}

// Validate checks the token signature and expiry and extracts the subject
// from the "sub" claim.
func (s *TokenService) Validate(tokenString string) (subjectID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		// Check if it's specifically an expiration error
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}
