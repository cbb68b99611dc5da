package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Pipeline
	Tickers     []string      // static universe; empty means use the ticker source adapter
	Adapter     string        // metric source: mock, fmp
	RunInterval time.Duration // delay between scheduled runs in serve mode

	// External APIs
	FMP FMPConfig

	// Persistence (optional; empty DATABASE_URL disables storage)
	DatabaseURL string

	// API server
	Port             string
	BroadcastEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
}

// FMPConfig holds Financial Modeling Prep API configuration.
type FMPConfig struct {
	APIKey  string
	BaseURL string
	// RateLimit is the sustained request rate allowed against the API,
	// in requests per second.
	RateLimit float64
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Tickers:     splitCSV(getEnv("VALD_TICKERS", "")),
		Adapter:     getEnv("VALD_ADAPTER", "mock"),
		RunInterval: getEnvAsDuration("VALD_RUN_INTERVAL", "3m"),

		FMP: FMPConfig{
			APIKey:    getEnv("FMP_API_KEY", ""),
			BaseURL:   getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			RateLimit: getEnvAsFloat("FMP_RATE_LIMIT", 4.0),
		},

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:             getEnv("PORT", "8090"),
		BroadcastEnabled: getEnvAsBool("VALD_BROADCAST", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Adapter != "mock" && c.Adapter != "fmp" {
		return fmt.Errorf("VALD_ADAPTER must be one of: mock, fmp")
	}
	if c.Adapter == "fmp" && c.FMP.APIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required when VALD_ADAPTER=fmp")
	}
	if c.RunInterval < 10*time.Second {
		return fmt.Errorf("VALD_RUN_INTERVAL must be at least 10s")
	}
	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
