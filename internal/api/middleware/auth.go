package middleware

import (
	"net/http"
	"strings"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// AuthMiddleware provides JWT authentication for protected routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer access token from the Authorization
// header, resolves the user it belongs to and attaches the user to the
// request context. Every failure mode yields the same 401 "Unauthorized"
// response; the one store lookup is the middleware's only side effect.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(r.Context(), parts[1])
		if err != nil {
			log.Debug("access token rejected", "error", err.Error())
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			log.Debug("token subject could not be resolved",
				"error", err.Error(),
				"user_id", claims.UserID.String())
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithUser(r.Context(), user)))
	})
}
