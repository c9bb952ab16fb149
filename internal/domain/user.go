package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the application.
// RefreshToken holds the single currently valid refresh token for the
// user; it is overwritten on every login and refresh, which is what makes
// refresh tokens rotate.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	IsAdmin        bool      `json:"isAdmin"`
	RefreshToken   string    `json:"-"` // Bearer credential, never serialized
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with the given username, email and already
// hashed password. It generates a new UUID for the user ID and sets the
// creation/update timestamps. Returns an error if validation fails.
//
// Password policy enforcement happens at the API layer before hashing;
// this constructor only guarantees structural integrity.
func NewUser(username, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
