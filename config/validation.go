package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			add("database", "host and name are required for postgres")
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			add("database.path", "is required for sqlite")
		}
	default:
		add("database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	if cfg.Listing.DefaultPageSize < 1 {
		add("listing.default_page_size", "must be at least 1")
	}

	if cfg.Redis.Enabled && cfg.Redis.URL == "" && cfg.Redis.Host == "" {
		add("redis", "host or url is required when redis is enabled")
	}

	// Sensitive values are mandatory outside local development.
	if env == Production || env == CI {
		if cfg.Auth.JWTSecret == "" {
			add("auth.jwt_secret", "is required")
		}
		if cfg.Database.Driver == "postgres" && cfg.Database.Password == "" {
			add("database.password", "is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
