// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.jarvis/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider selection, generation model, sampling parameters
//   - RAG: embedder model, top-k policy, generation timeout
//   - Storage: PostgreSQL connection (see storage.go)
//   - HTTP: listen address and rate limiting for serve mode
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTopK indicates the top-k policy values are inconsistent.
	ErrInvalidTopK = errors.New("invalid top-k configuration")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

const (
	// DefaultGeminiEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 supports truncation to 768 dimensions via
	// OutputDimensionality; the pgvector schema uses vector(768).
	DefaultGeminiEmbedderModel = "gemini-embedding-001"

	// DefaultOllamaEmbedderModel is the default Ollama embedder model.
	DefaultOllamaEmbedderModel = "nomic-embed-text"
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`     // "gemini" (default) or "ollama"
	ModelName   string  `mapstructure:"model_name" json:"model_name"` // Generation model (e.g., "gemini-2.5-flash", "llama3")
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// RAG configuration
	EmbedderModel     string `mapstructure:"embedder_model" json:"embedder_model"`
	TopKDefault       int    `mapstructure:"top_k_default" json:"top_k_default"`
	TopKMax           int    `mapstructure:"top_k_max" json:"top_k_max"`
	GenerateTimeoutMs int    `mapstructure:"generate_timeout_ms" json:"generate_timeout_ms"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"` // SENSITIVE: never serialized
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// HTTP serve configuration
	HTTPAddr  string  `mapstructure:"http_addr" json:"http_addr"`
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit"` // tokens per second, per IP
	RateBurst int     `mapstructure:"rate_burst" json:"rate_burst"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".jarvis")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, if set, overrides the individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 512)

	// Ollama defaults
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// RAG defaults
	viper.SetDefault("embedder_model", DefaultGeminiEmbedderModel)
	viper.SetDefault("top_k_default", 5)
	viper.SetDefault("top_k_max", 20)
	viper.SetDefault("generate_timeout_ms", 60000)

	// Storage defaults
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "jarvis")
	viper.SetDefault("postgres_password", "jarvis_dev_password")
	viper.SetDefault("postgres_db_name", "jarvis")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// HTTP defaults
	viper.SetDefault("http_addr", "127.0.0.1:8000")
	viper.SetDefault("rate_limit", 5.0)
	viper.SetDefault("rate_burst", 10)
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// GEMINI_API_KEY is read directly by the Genkit Google AI plugin, not via
// Viper; its presence is checked at startup for the gemini provider.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "JARVIS_PROVIDER")
	mustBind("model_name", "JARVIS_MODEL_NAME")
	mustBind("temperature", "JARVIS_TEMPERATURE")
	mustBind("max_tokens", "JARVIS_MAX_TOKENS")
	mustBind("embedder_model", "JARVIS_EMBEDDER_MODEL")
	mustBind("top_k_default", "JARVIS_TOP_K_DEFAULT")
	mustBind("top_k_max", "JARVIS_TOP_K_MAX")
	mustBind("generate_timeout_ms", "JARVIS_GENERATE_TIMEOUT_MS")
	mustBind("ollama_host", "JARVIS_OLLAMA_HOST")
	mustBind("postgres_host", "JARVIS_POSTGRES_HOST")
	mustBind("postgres_port", "JARVIS_POSTGRES_PORT")
	mustBind("postgres_user", "JARVIS_POSTGRES_USER")
	mustBind("postgres_password", "JARVIS_POSTGRES_PASSWORD")
	mustBind("postgres_db_name", "JARVIS_POSTGRES_DB_NAME")
	mustBind("postgres_ssl_mode", "JARVIS_POSTGRES_SSL_MODE")
	mustBind("http_addr", "JARVIS_HTTP_ADDR")
	mustBind("rate_limit", "JARVIS_RATE_LIMIT")
	mustBind("rate_burst", "JARVIS_RATE_BURST")
}
