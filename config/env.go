package config

import (
	"os"
	"strings"
)

// Environment is the deployment stage the process runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the stage from CI=true or ENV, defaulting to development
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := Environment(strings.ToLower(os.Getenv("ENV"))); env {
	case Production, Test:
		return env
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// JSONLogs reports whether logs are machine-read in this environment
func (e Environment) JSONLogs() bool {
	return e == Production || e == CI
}

// ReadsSecrets reports whether Docker secrets are consulted. CI provides
// every value through the environment.
func (e Environment) ReadsSecrets() bool {
	return e != CI
}
