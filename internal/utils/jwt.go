package utils

import (
	"errors" // Error values
	"fmt"    // Error wrapping
	"time"   // Time for token expiration

	"receipt_system/internal/domain" // Identity type

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for any token that must not be trusted
var ErrInvalidToken = errors.New("invalid token")

// JWT Claims
type Claims struct {
	UserID               *uint `json:"id,omitempty"` // Custom claim for user ID, pointer so absence is detectable
	IsAdmin              bool  `json:"is_admin"`     // Custom claim for the admin flag
	jwt.RegisteredClaims       // Standard JWT claims, Subject carries the username
}

// TokenService issues and validates access tokens with a symmetric secret
type TokenService struct {
	secret []byte            // Signing secret
	method jwt.SigningMethod // Signing algorithm
	ttl    time.Duration     // Default token lifetime
}

// NewTokenService creates a token service. The algorithm must be an HMAC algorithm.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required") // Refuse to sign with an empty key
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC) // Look up the algorithm by name
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured default token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the user that expires after ttl
func (s *TokenService) Issue(username string, userID uint, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID:  &userID, // Custom claim for user ID
		IsAdmin: isAdmin, // Custom claim for admin flag
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,                         // Username
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Absolute expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(s.method, claims) // Create token with claims
	return token.SignedString(s.secret)          // Sign the token with the secret
}

// Decode parses and validates a token string and returns the caller identity
func (s *TokenService) Decode(tokenStr string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{s.method.Alg()}), // Reject tokens signed with any other algorithm
		jwt.WithExpirationRequired(),                   // A token without exp is never trusted
	)
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	// Both required claims must be present
	if claims.Subject == "" || claims.UserID == nil {
		return nil, fmt.Errorf("%w: missing sub or id claim", ErrInvalidToken)
	}
	return &domain.Identity{Username: claims.Subject, ID: *claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
