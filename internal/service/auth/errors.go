// Package auth provides the token manager and password hasher used by the
// authentication flows.
package auth

import "errors"

// Token and password errors returned by the auth service.
var (
	// ErrInvalidToken is returned when an access token fails verification
	// for any reason other than expiry (bad signature, malformed, etc.).
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when an access token is past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidRefreshToken is returned when a refresh token fails
	// verification for any reason other than expiry.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken is returned when a refresh token is past its expiry.
	ErrExpiredRefreshToken = errors.New("refresh token expired")

	// ErrWrongTokenType is returned when a token is presented in the wrong
	// context, e.g. a refresh token used as an access token.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrHashingFailed is returned when the underlying password hashing
	// primitive errors.
	ErrHashingFailed = errors.New("password hashing failed")
)
