// Package common provides shared utilities for Creda
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the Creda advisory engine
type Config struct {
	Environment string         `toml:"environment"`
	Currency    string         `toml:"currency"` // ISO code used in responses ("INR" default)
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Advisory    AdvisoryConfig `toml:"advisory"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the embedded store path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// AdvisoryConfig holds tunables for the decision engine.
// Defaults match the published methodology; override with care since
// tests and documented behaviour assume these values.
type AdvisoryConfig struct {
	RiskFreeRate        float64 `toml:"risk_free_rate"`       // Sharpe denominator baseline
	SimilarityThreshold float64 `toml:"similarity_threshold"` // RAG filter, default 0.7
	ConfidenceThreshold float64 `toml:"confidence_threshold"` // RAG answer gate, default 0.6
	RetrievalK          int     `toml:"retrieval_k"`          // documents fetched per query
	ExplorationRate     float64 `toml:"exploration_rate"`     // bandit epsilon
	LearningRate        float64 `toml:"learning_rate"`        // bandit base-allocation nudge
	RebalanceThreshold  float64 `toml:"rebalance_threshold"`  // drift fraction, default 0.05
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds the optional narrative-polish client configuration.
// Leave APIKey empty to disable; the template answer path is always available.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Currency:    "INR",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8001,
		},
		Storage: StorageConfig{
			Path: "data/creda",
		},
		Advisory: AdvisoryConfig{
			RiskFreeRate:        0.065,
			SimilarityThreshold: 0.7,
			ConfidenceThreshold: 0.6,
			RetrievalK:          5,
			ExplorationRate:     0.1,
			LearningRate:        0.05,
			RebalanceThreshold:  0.05,
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CREDA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CREDA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CREDA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CREDA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CREDA_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
	if key := os.Getenv("CREDA_GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
