// Package api contains the HTTP handlers, request/response models and
// request validation for the public API surface.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Auth cookie names and lifetimes. The cookie max-ages are independent of
// the JWT lifetimes: expiry is enforced by token verification, the cookie
// ages only bound how long browsers resend them.
const (
	authTokenCookie    = "authToken"
	refreshTokenCookie = "refreshToken"

	authCookieMaxAge    = 24 * time.Hour
	refreshCookieMaxAge = 30 * 24 * time.Hour
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	userStore     store.UserStore
	jwtService    auth.JWTService
	hasher        auth.PasswordHasher
	validate      *validator.Validate
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// secureCookies should be true in production so auth cookies carry the
// Secure attribute.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	secureCookies bool,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:     userStore,
		jwtService:    jwtService,
		hasher:        hasher,
		validate:      NewValidator(),
		secureCookies: secureCookies,
		logger:        log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, FieldErrors(err, registerMessages))
		return
	}

	// Duplicate probe by email or username; the error message names the
	// colliding field.
	existing, err := h.userStore.GetByEmailOrUsername(r.Context(), req.Email, req.Username)
	if err == nil {
		duplicateField := "username"
		if existing.Email == req.Email {
			duplicateField = "email"
		}
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"User with this "+duplicateField+" already exists")
		return
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	hashedPassword, err := h.hasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, hashedPassword)
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		// The probe above and the insert are not atomic; unique
		// constraints catch the race.
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"User with this email already exists")
		case errors.Is(err, store.ErrUsernameExists):
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"User with this username already exists")
		default:
			shared.RespondWithInternalError(w, r, err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, MessageResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: "User created successfully",
	})
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, FieldErrors(err, loginMessages))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "user not found")
			return
		}
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if err := h.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "email or password is wrong")
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(r, user)
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	h.setAuthCookies(w, accessToken, refreshToken)

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Status:      http.StatusCreated,
		Success:     true,
		Message:     "Login successful",
		AccessToken: accessToken,
	})
}

// RefreshToken handles POST /auth/refresh.
//
// The stored-token equality check is what makes refresh tokens single-use:
// a rotated-away token is rejected even while cryptographically valid.
// Two concurrent refreshes with the same token can both pass the check
// before either write lands; the last writer wins and the other caller's
// new token is immediately invalid. That race is accepted, there is no
// compare-and-swap at the store layer.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No refresh token provided")
		return
	}

	// A decode failure is the same client-correctable condition as a
	// stored-token mismatch, so both get the same 400.
	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid refresh token")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid refresh token")
			return
		}
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if user.RefreshToken != cookie.Value {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid refresh token")
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(r, user)
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	h.setAuthCookies(w, accessToken, refreshToken)

	log.Info("refresh token rotated", slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Status:      http.StatusCreated,
		Success:     true,
		Message:     "Token refreshed successfully",
		AccessToken: accessToken,
	})
}

// issueTokenPair generates a fresh access+refresh pair and persists the
// refresh token onto the user record, rotating away whatever was stored.
func (h *AuthHandler) issueTokenPair(
	r *http.Request,
	user *domain.User,
) (accessToken, refreshToken string, err error) {
	accessToken, err = h.jwtService.GenerateAccessToken(r.Context(), user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		return "", "", err
	}

	if err = h.userStore.UpdateRefreshToken(r.Context(), user.ID, refreshToken); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// setAuthCookies attaches both tokens as http-only cookies.
func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(authCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
	})
}
