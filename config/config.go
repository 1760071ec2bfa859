// Package config provides configuration for the orchestrator.
package config

import (
	"os"
	"strconv"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int

	// Database. Empty selects the ephemeral in-memory backend.
	DatabaseURL string

	// Internal token required by the maintenance API.
	InternalToken string

	// Feature flag for the run pipeline.
	RunsEnabled bool

	// Budget defaults
	DefaultBudgetCapUsd float64
	PlannerCostUsd      float64

	// Artifact lifetime for planning output, seconds.
	PlanTTLSeconds int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		InternalPort:        getEnvInt("INTERNAL_PORT", 8081),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		InternalToken:       getEnv("INTERNAL_TOKEN", ""),
		RunsEnabled:         getEnvBool("RUNS_ENABLED", true),
		DefaultBudgetCapUsd: getEnvFloat("DEFAULT_BUDGET_CAP_USD", 1.0),
		PlannerCostUsd:      getEnvFloat("PLANNER_COST_USD", 0.05),
		PlanTTLSeconds:      getEnvInt("PLAN_TTL_SECONDS", 86400),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
