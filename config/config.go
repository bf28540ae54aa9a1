// Package config loads server-shell configuration from the environment.
// A .env file is honored when present; every value has a working default
// so a bare `go run ./cmd/server` starts a usable dev server.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port           int
	DatabasePath   string
	RuleSetPath    string // JSON collective-agreement file; empty = defaults
	AllowedOrigins []string
	LogLevel       logrus.Level
}

// Load reads the environment (and .env if present) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("could not load .env: %v", err)
	}

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DatabasePath:   getEnv("DATABASE_PATH", "careshift.db"),
		RuleSetPath:    getEnv("RULESET_PATH", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080"), ","),
		LogLevel:       logrus.InfoLevel,
	}

	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		cfg.LogLevel = lvl
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}
