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

// requiredField names a config value that must be present
type requiredField struct {
	name  string
	value func(*Config) string
}

var (
	serverRequirements = []requiredField{
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
		{"TABLE_NAME", func(c *Config) string { return c.TableName }},
	}

	// Backend-specific requirements
	backendRequirements = map[string][]requiredField{
		"postgres": {
			{"DB_HOST", func(c *Config) string { return c.DBHost }},
			{"DB_PORT", func(c *Config) string { return c.DBPort }},
			{"DB_USER", func(c *Config) string { return c.DBUser }},
			{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
			{"DB_NAME", func(c *Config) string { return c.DBName }},
		},
		"sqlite": {
			{"SQLITE_PATH", func(c *Config) string { return c.SQLitePath }},
		},
		"dynamodb": {
			{"AWS_REGION", func(c *Config) string { return c.AWSRegion }},
		},
		"redis": {},
	}

	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
)

// ValidateConfig checks every requirement and reports all failures at once
func ValidateConfig(cfg *Config) error {
	var errs []string

	for _, req := range serverRequirements {
		if req.value(cfg) == "" {
			errs = append(errs, ValidationError{Field: req.name, Message: "is required"}.Error())
		}
	}

	reqs, ok := backendRequirements[cfg.StoreBackend]
	if !ok {
		errs = append(errs, ValidationError{
			Field:   "STORE_BACKEND",
			Message: fmt.Sprintf("unknown backend %q (must be postgres, sqlite, dynamodb or redis)", cfg.StoreBackend),
		}.Error())
	}
	for _, req := range reqs {
		if req.value(cfg) == "" {
			errs = append(errs, ValidationError{
				Field:   req.name,
				Message: fmt.Sprintf("is required by the %s backend", cfg.StoreBackend),
			}.Error())
		}
	}

	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_MINUTE", Message: "must not be negative"}.Error())
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{
				Field:   "CORS_ALLOWED_ORIGINS",
				Message: fmt.Sprintf("invalid origin %q (must be * or start with http:// or https://)", origin),
			}.Error())
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "LOG_LEVEL",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn or error)", cfg.LogLevel),
		}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
