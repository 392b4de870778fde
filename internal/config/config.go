// Package config provides client configuration with support for command-line
// overrides, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	Storage StorageConfig
	Items   ItemsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// APIConfig describes the listings API the transport talks to.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration // per-request timeout (default: 15s)

	// Suggestion endpoints are hit on every keystroke, so they are throttled.
	SuggestRPS   float64 // default: 5
	SuggestBurst int     // default: 3
}

// StorageConfig holds local preference storage configuration.
type StorageConfig struct {
	// Path is the badger directory. Empty keeps preferences in memory only.
	Path string
}

// ItemsConfig holds items view configuration.
type ItemsConfig struct {
	// BasePath is the location path query strings are written under ("/" or "/favorites").
	BasePath        string
	DefaultPageSize int
}

// Overrides are values supplied on the command line. Empty fields fall through
// to the environment.
type Overrides struct {
	Environment string
	LogLevel    string
	APIBaseURL  string
	APITimeout  string
	StoragePath string
	BasePath    string
	EnvFile     string
}

// Load builds configuration with precedence:
// 1. Overrides (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env file is fine.
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Environment, "TRIAGE_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(o.LogLevel, "TRIAGE_LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:      strings.TrimRight(getConfigValue(o.APIBaseURL, "TRIAGE_API_URL", "http://localhost:5000"), "/"),
			SuggestRPS:   getFloatConfigValue("", "TRIAGE_SUGGEST_RPS", 5),
			SuggestBurst: getIntConfigValue("", "TRIAGE_SUGGEST_BURST", 3),
		},
		Storage: StorageConfig{
			Path: getConfigValue(o.StoragePath, "TRIAGE_STORAGE_PATH", ""),
		},
		Items: ItemsConfig{
			BasePath:        getConfigValue(o.BasePath, "TRIAGE_BASE_PATH", "/"),
			DefaultPageSize: getIntConfigValue("", "TRIAGE_PAGE_SIZE", 100),
		},
	}

	timeoutStr := getConfigValue(o.APITimeout, "TRIAGE_API_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout %q: %w", timeoutStr, err)
	}
	cfg.API.Timeout = timeout

	if cfg.Storage.Path != "" {
		expanded, err := expandPath(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid storage path: %w", err)
		}
		cfg.Storage.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	if c.API.SuggestRPS <= 0 || c.API.SuggestBurst < 1 {
		return errors.New("suggestion rate limit must be positive")
	}

	if !strings.HasPrefix(c.Items.BasePath, "/") {
		return fmt.Errorf("invalid base path: %q (must start with /)", c.Items.BasePath)
	}
	if c.Items.DefaultPageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.Items.DefaultPageSize)
	}
	return nil
}

// FavoritesOnly reports whether the configured base path is the favorites view.
func (c *Config) FavoritesOnly() bool {
	return strings.TrimRight(c.Items.BasePath, "/") == "/favorites"
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}
	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from override, env var, or default.
func getConfigValue(overrideValue, envKey, defaultValue string) string {
	if overrideValue != "" {
		return overrideValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from override, env var, or default.
func getIntConfigValue(overrideValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(overrideValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return n
}

// getFloatConfigValue returns a float from override, env var, or default.
func getFloatConfigValue(overrideValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(overrideValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments). Variables already set in the
// environment win over the file.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- env file path comes from the command line
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid line %d in %s: %q", lineNum, path, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return scanner.Err()
}
