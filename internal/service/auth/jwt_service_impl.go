package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

// Token type discriminator values embedded in the claims.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey           []byte
	accessTokenLifetime  time.Duration
	refreshTokenLifetime time.Duration
	timeFunc             func() time.Time // Injectable for testing
	clockSkew            time.Duration    // Leeway for clock drift during validation
}

// jwtCustomClaims defines the structure of JWT claims we sign.
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
// Token lifetimes are configured in minutes.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacJWTService{
		signingKey:           []byte(cfg.JWTSecret),
		accessTokenLifetime:  time.Duration(cfg.AccessTokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		timeFunc:             time.Now,
		clockSkew:            2 * time.Minute,
	}, nil
}

// GenerateAccessToken creates a signed JWT access token with identity claims.
func (s *hmacJWTService) GenerateAccessToken(
	ctx context.Context,
	user *domain.User,
) (string, error) {
	return s.sign(ctx, jwtCustomClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		TokenType: tokenTypeAccess,
	}, user.ID, s.accessTokenLifetime)
}

// GenerateRefreshToken creates a signed JWT refresh token carrying only the
// user ID.
func (s *hmacJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	return s.sign(ctx, jwtCustomClaims{
		UserID:    userID,
		TokenType: tokenTypeRefresh,
	}, userID, s.refreshTokenLifetime)
}

// ValidateAccessToken validates a JWT access token and returns the claims if
// valid. It verifies the token has type "access" and returns
// ErrWrongTokenType if not.
func (s *hmacJWTService) ValidateAccessToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims
// if valid. It verifies the token has type "refresh" and returns
// ErrWrongTokenType if not.
func (s *hmacJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredRefreshToken
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidRefreshToken
		}
	}
	return claims, nil
}

// sign builds and signs a token with the standard registered claims filled in.
func (s *hmacJWTService) sign(
	ctx context.Context,
	claims jwtCustomClaims,
	userID uuid.UUID,
	lifetime time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"user_id", userID,
			"token_type", claims.TokenType)
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}

	return signedToken, nil
}

// parse verifies the signature and time claims of a token and checks its
// type discriminator. Signing method is pinned to HS256.
func (s *hmacJWTService) parse(
	ctx context.Context,
	tokenString, wantType string,
) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		log.Debug("token validation failed",
			"error", err,
			"token_type", wantType)
		return nil, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return &Claims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
