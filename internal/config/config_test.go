package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "EGP", cfg.Currency)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "https://test.api.amadeus.com", cfg.AmadeusBaseURL)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 2*time.Hour, cfg.ConversationTTL)
	assert.Equal(t, 1.0, cfg.TokenRPS)
	assert.Zero(t, cfg.RedisDB)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("SEARCH_CURRENCY", "usd")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "id", cfg.AmadeusClientID)
	assert.Equal(t, 30*time.Second, cfg.RedisTTL)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"AMADEUS_CLIENT_SECRET"}, cfg.MissingKeys())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "port: \"7000\"\nllm:\n  provider: ollama\n  model: llama3\namadeus:\n  base_url: http://localhost:9999/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, "llama3", cfg.LLMModel)
	assert.Equal(t, "http://localhost:9999", cfg.AmadeusBaseURL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "mystery")

	_, err := Load("")
	assert.Error(t, err)
}

func TestMissingKeys(t *testing.T) {
	cfg := Config{LLMProvider: "openai"}
	assert.Equal(t, []string{"OPENAI_API_KEY", "AMADEUS_CLIENT_ID", "AMADEUS_CLIENT_SECRET"}, cfg.MissingKeys())

	cfg = Config{LLMProvider: "ollama", AmadeusClientID: "a", AmadeusClientSecret: "b"}
	assert.Empty(t, cfg.MissingKeys())
}
