// Package auth validates bearer tokens and extracts the owner identity they
// carry. Issuing tokens to end users is left to an upstream identity provider;
// GenerateToken exists for development and tests.
package auth

import (
	"context"
	"time"
)

// JWTService signs and validates owner tokens.
type JWTService interface {
	// GenerateToken creates a signed token whose subject is ownerID.
	GenerateToken(ctx context.Context, ownerID string) (string, error)

	// ValidateToken checks the signature and time claims of tokenString and
	// returns its claims. The subject must be non-empty.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the validated contents of a token.
type Claims struct {
	// Subject is the opaque owner identity.
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti,omitempty"`
}
