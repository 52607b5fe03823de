package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestEnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	setDefaults()
	bindEnvVariables()

	t.Setenv("JARVIS_PROVIDER", ProviderOllama)
	t.Setenv("JARVIS_TEMPERATURE", "0")
	t.Setenv("JARVIS_MAX_TOKENS", "256")
	t.Setenv("JARVIS_TOP_K_DEFAULT", "3")
	t.Setenv("JARVIS_GENERATE_TIMEOUT_MS", "15000")
	t.Setenv("JARVIS_POSTGRES_HOST", "db.internal")
	t.Setenv("JARVIS_POSTGRES_PORT", "6543")
	t.Setenv("JARVIS_POSTGRES_PASSWORD", "env-secret")
	t.Setenv("JARVIS_POSTGRES_SSL_MODE", "require")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOllama)
	}
	if cfg.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", cfg.Temperature)
	}
	if cfg.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", cfg.MaxTokens)
	}
	if cfg.TopKDefault != 3 {
		t.Errorf("TopKDefault = %d, want 3", cfg.TopKDefault)
	}
	if cfg.GenerateTimeoutMs != 15000 {
		t.Errorf("GenerateTimeoutMs = %d, want 15000", cfg.GenerateTimeoutMs)
	}
	if cfg.PostgresHost != "db.internal" {
		t.Errorf("PostgresHost = %q, want %q", cfg.PostgresHost, "db.internal")
	}
	if cfg.PostgresPort != 6543 {
		t.Errorf("PostgresPort = %d, want 6543", cfg.PostgresPort)
	}
	if cfg.PostgresPassword != "env-secret" {
		t.Errorf("PostgresPassword = %q, want %q", cfg.PostgresPassword, "env-secret")
	}
	if cfg.PostgresSSLMode != "require" {
		t.Errorf("PostgresSSLMode = %q, want %q", cfg.PostgresSSLMode, "require")
	}

	// Keys without env overrides keep their defaults.
	if cfg.HTTPAddr != "127.0.0.1:8000" {
		t.Errorf("HTTPAddr = %q, want default", cfg.HTTPAddr)
	}
}

func TestDefaultsWithoutOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.EmbedderModel != DefaultGeminiEmbedderModel {
		t.Errorf("EmbedderModel = %q, want %q", cfg.EmbedderModel, DefaultGeminiEmbedderModel)
	}
	if cfg.TopKDefault != 5 || cfg.TopKMax != 20 {
		t.Errorf("top-k policy = (%d, %d), want (5, 20)", cfg.TopKDefault, cfg.TopKMax)
	}
}
