// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Env selects runtime behavior that differs between environments,
	// e.g. the Secure attribute on auth cookies.
	Env string `mapstructure:"env" validate:"required,oneof=development production test"`
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Token lifetimes are expressed in minutes.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	AccessTokenLifetimeMinutes  int    `mapstructure:"access_token_lifetime_minutes"  validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}
