package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that all required configuration values are present
func ValidateConfig(cfg *Config) error {
	if cfg.MongoURI == "" {
		return ValidationError{Field: "MONGO_URI", Message: "is required"}
	}
	if cfg.MongoDB == "" {
		return ValidationError{Field: "MONGO_DB", Message: "is required"}
	}
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWT_SECRET", Message: "is required"}
	}
	if IsProduction() && len(cfg.JWTSecret) < 32 {
		return ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"}
	}
	if cfg.RateLimitRequests <= 0 {
		return ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must be positive"}
	}
	return nil
}
