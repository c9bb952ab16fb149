package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		AccessTokenLifetimeMinutes:  60,
		RefreshTokenLifetimeMinutes: 43200,
	}
}

func testUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("alice", "alice@example.com", "hashed-password")
	require.NoError(t, err)
	return user
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"

	_, err := NewJWTService(cfg)

	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	user := testUser(t)

	token, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
}

func TestTokenTypeDiscrimination(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	user := testUser(t)

	accessToken, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateAccessToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokensAreRejected(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	user := testUser(t)

	issuedAt := time.Now()
	impl.timeFunc = func() time.Time { return issuedAt }

	accessToken, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(context.Background(), user.ID)
	require.NoError(t, err)

	// Jump past the access lifetime plus clock skew leeway.
	impl.timeFunc = func() time.Time {
		return issuedAt.Add(impl.accessTokenLifetime + impl.clockSkew + time.Minute)
	}

	_, err = svc.ValidateAccessToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	// The refresh token outlives the access token.
	_, err = svc.ValidateRefreshToken(context.Background(), refreshToken)
	assert.NoError(t, err)

	impl.timeFunc = func() time.Time {
		return issuedAt.Add(impl.refreshTokenLifetime + impl.clockSkew + time.Minute)
	}

	_, err = svc.ValidateRefreshToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestClockSkewLeeway(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	user := testUser(t)

	issuedAt := time.Now()
	impl.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)

	// Just past expiry but within the leeway window.
	impl.timeFunc = func() time.Time {
		return issuedAt.Add(impl.accessTokenLifetime + time.Minute)
	}

	_, err = svc.ValidateAccessToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	user := testUser(t)

	token, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	_, err = svc.ValidateAccessToken(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithDifferentKeyIsRejected(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-that-is-32-chars-or-more"
	otherSvc, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := otherSvc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
