package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables,
// e.g. TASKDECK_AUTH_JWT_SECRET overrides auth.jwt_secret.
const envPrefix = "TASKDECK"

// Load reads configuration from the environment (optionally seeded from a
// .env file) and returns a validated Config. Environment variables take
// precedence over defaults.
func Load() (*Config, error) {
	// Best-effort .env loading for local development; a missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.env", "development")
	v.SetDefault("auth.access_token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 43200) // 30 days

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal;
	// binding each known key explicitly makes them visible.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"server.env",
		"database.url",
		"auth.jwt_secret",
		"auth.access_token_lifetime_minutes",
		"auth.refresh_token_lifetime_minutes",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
