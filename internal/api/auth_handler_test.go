package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// mockUserStore is an in-memory UserStore used by the handler tests.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*mockUserStore)(nil)

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *mockUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *mockUserStore) GetByEmailOrUsername(
	_ context.Context,
	email, username string,
) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email || user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *mockUserStore) UpdateRefreshToken(
	_ context.Context,
	id uuid.UUID,
	refreshToken string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.RefreshToken = refreshToken
	return nil
}

// authTestEnv wires an AuthHandler against the in-memory store with real
// bcrypt hashing and real JWT signing.
type authTestEnv struct {
	handler    *api.AuthHandler
	userStore  *mockUserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-chars-long",
		AccessTokenLifetimeMinutes:  60,
		RefreshTokenLifetimeMinutes: 43200,
	})
	require.NoError(t, err)

	userStore := newMockUserStore()
	hasher := auth.NewBcryptHasher()

	return &authTestEnv{
		handler:    api.NewAuthHandler(userStore, jwtService, hasher, false, nil),
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
	}
}

// seedUser registers a user directly in the store with a bcrypt-hashed
// password and returns it.
func (env *authTestEnv) seedUser(t *testing.T, username, email, password string) *domain.User {
	t.Helper()

	hash, err := env.hasher.Hash(password)
	require.NoError(t, err)

	user, err := domain.NewUser(username, email, hash)
	require.NoError(t, err)
	require.NoError(t, env.userStore.Create(context.Background(), user))

	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func validRegisterRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", validRegisterRequest())

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "User created successfully", resp.Message)

		stored, err := env.userStore.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
		assert.NotEqual(t, "Passw0rd!", stored.HashedPassword)
		assert.NoError(t, env.hasher.Compare(stored.HashedPassword, "Passw0rd!"))
	})

	t.Run("missing username", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := validRegisterRequest()
		req.Username = ""
		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Require username", resp.Error["username"])
	})

	t.Run("malformed email", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := validRegisterRequest()
		req.Email = "not-an-email"
		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Incorrect format", resp.Error["email"])
	})

	t.Run("weak password", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := validRegisterRequest()
		req.Password = "passw0rd!" // no uppercase
		req.ConfirmPassword = req.Password
		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t,
			"Password must contain at least one uppercase letter",
			resp.Error["password"])
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := validRegisterRequest()
		req.Password = "Pw0!"
		req.ConfirmPassword = req.Password
		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Password required at least 6 character", resp.Error["password"])
	})

	t.Run("confirm password mismatch", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := validRegisterRequest()
		req.ConfirmPassword = "Different1!"
		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Password and confirm password must be same", resp.Error["confirmPassword"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		env.seedUser(t, "bob", "alice@example.com", "Passw0rd!")

		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", validRegisterRequest())

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "User with this email already exists", resp.Message)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice", "other@example.com", "Passw0rd!")

		rec := postJSON(t, env.handler.Register, "/api/v1/users/register", validRegisterRequest())

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "User with this username already exists", resp.Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register",
			bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		env.handler.Register(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Invalid request format", resp.Message)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success sets cookies and returns access token", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		user := env.seedUser(t, "alice", "alice@example.com", "Passw0rd!")

		rec := postJSON(t, env.handler.Login, "/api/v1/users/login", api.LoginRequest{
			Email:    "alice@example.com",
			Password: "Passw0rd!",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Login successful", resp.Message)
		require.NotEmpty(t, resp.AccessToken)

		claims, err := env.jwtService.ValidateAccessToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)

		authCookie := cookieByName(t, rec, "authToken")
		assert.Equal(t, resp.AccessToken, authCookie.Value)
		assert.True(t, authCookie.HttpOnly)
		assert.False(t, authCookie.Secure)

		refreshCookie := cookieByName(t, rec, "refreshToken")
		assert.True(t, refreshCookie.HttpOnly)

		// The issued refresh token is persisted on the user record.
		stored, err := env.userStore.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, refreshCookie.Value, stored.RefreshToken)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		rec := postJSON(t, env.handler.Login, "/api/v1/users/login", api.LoginRequest{
			Email:    "ghost@example.com",
			Password: "Passw0rd!",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "user not found", resp.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice", "alice@example.com", "Passw0rd!")

		rec := postJSON(t, env.handler.Login, "/api/v1/users/login", api.LoginRequest{
			Email:    "alice@example.com",
			Password: "Wr0ngPass!",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "email or password is wrong", resp.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		rec := postJSON(t, env.handler.Login, "/api/v1/users/login", api.LoginRequest{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Require email", resp.Error["email"])
		assert.Equal(t, "Require password", resp.Error["password"])
	})
}

// loginFor runs a login and returns the refresh cookie issued for the user.
func loginFor(t *testing.T, env *authTestEnv, email, password string) *http.Cookie {
	t.Helper()

	rec := postJSON(t, env.handler.Login, "/api/v1/users/login", api.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return cookieByName(t, rec, "refreshToken")
}

func refreshWith(env *authTestEnv, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.handler.RefreshToken(rec, req)
	return rec
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("rotation issues a new pair and stores the new token", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		user := env.seedUser(t, "alice", "alice@example.com", "Passw0rd!")
		refreshCookie := loginFor(t, env, "alice@example.com", "Passw0rd!")

		rec := refreshWith(env, refreshCookie)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Token refreshed successfully", resp.Message)
		assert.NotEmpty(t, resp.AccessToken)

		newRefreshCookie := cookieByName(t, rec, "refreshToken")
		assert.NotEqual(t, refreshCookie.Value, newRefreshCookie.Value)

		stored, err := env.userStore.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, newRefreshCookie.Value, stored.RefreshToken)
	})

	t.Run("replay of a rotated token is rejected", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice", "alice@example.com", "Passw0rd!")
		oldCookie := loginFor(t, env, "alice@example.com", "Passw0rd!")

		first := refreshWith(env, oldCookie)
		require.Equal(t, http.StatusCreated, first.Code)

		// The old token is still cryptographically valid but no longer
		// matches the stored one.
		second := refreshWith(env, oldCookie)

		require.Equal(t, http.StatusBadRequest, second.Code)
		resp := decodeErrorResponse(t, second)
		assert.Equal(t, "Invalid refresh token", resp.Message)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		rec := refreshWith(env, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "No refresh token provided", resp.Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)

		rec := refreshWith(env, &http.Cookie{Name: "refreshToken", Value: "not.a.jwt"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Invalid refresh token", resp.Message)
	})

	t.Run("access token in the refresh cookie is rejected", func(t *testing.T) {
		t.Parallel()
		env := newAuthTestEnv(t)
		user := env.seedUser(t, "alice", "alice@example.com", "Passw0rd!")

		accessToken, err := env.jwtService.GenerateAccessToken(context.Background(), user)
		require.NoError(t, err)

		rec := refreshWith(env, &http.Cookie{Name: "refreshToken", Value: accessToken})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Invalid refresh token", resp.Message)
	})
}
