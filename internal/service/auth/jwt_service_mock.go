package auth

import (
	"context"
	"time"
)

// MockJWTService is a JWTService for handler and middleware tests.
type MockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, ownerID string) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	// Token, TokenError, Claims and ValidationError are returned when the
	// corresponding func field is nil.
	Token           string
	TokenError      error
	Claims          *Claims
	ValidationError error
}

// NewMockJWTService returns a mock whose tokens all validate as ownerID.
func NewMockJWTService(ownerID string) *MockJWTService {
	now := time.Now()
	return &MockJWTService{
		Token: "mock-token",
		Claims: &Claims{
			Subject:   ownerID,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		},
	}
}

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, ownerID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, ownerID)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	return m.Claims, m.ValidationError
}
