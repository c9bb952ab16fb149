// Package shared holds the request-scoped plumbing used across handlers:
// context keys, trace IDs and response writers.
package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// ContextKey is the key type for context values set by this package.
type ContextKey string

// Context keys for request-scoped values
const (
	// UserContextKey is the context key under which the auth middleware
	// stores the resolved *domain.User.
	UserContextKey ContextKey = "user"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// traceIDLength is the number of random bytes in a trace ID.
	traceIDLength = 16 // 32 hex characters
)

// ContextWithUser returns a new context carrying the authenticated user.
// The user is attached per request by the auth middleware, never stored in
// any process-global state.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// Returns the user and a boolean indicating if it was found.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// Returns an empty string when none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random hex trace ID for request correlation.
func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
