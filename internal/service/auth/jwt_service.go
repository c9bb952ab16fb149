package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// JWTService defines operations for issuing and verifying the two signed,
// time-bounded token kinds used by the authentication flows. Tokens are
// stateless bearer credentials; the only server-side revocation mechanism
// is the single refresh token stored per user.
type JWTService interface {
	// GenerateAccessToken creates a signed JWT access token carrying the
	// user's id, username and email.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateAccessToken validates an access token string and extracts the
	// claims. Fails with ErrInvalidToken, ErrExpiredToken or
	// ErrWrongTokenType.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token carrying only
	// the user's id. Refresh tokens have a longer lifetime and are exchanged
	// for new token pairs.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts
	// the claims. Fails with ErrInvalidRefreshToken, ErrExpiredRefreshToken
	// or ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Username and Email identify the user on access tokens; both are
	// empty on refresh tokens.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
