package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:  ServerConfig{Port: 8080, ReadTimeout: 15, WriteTimeout: 60},
		Store:   StoreConfig{Driver: "memory"},
		LLM:     LLMConfig{Provider: "openai", MaxConcurrent: 5},
		Session: SessionConfig{Secret: "0123456789abcdef"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Store.Driver = "postgres"
	cfg.LLM.Provider = "llama"
	cfg.Session.Secret = "short"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "store.postgres_url")
	assert.Contains(t, err.Error(), "llm.provider")
	assert.Contains(t, err.Error(), "session.secret")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ITINERA_STORE_DRIVER", "valkey")
	t.Setenv("ITINERA_STORE_VALKEY_ADDR", "valkey:6379")
	t.Setenv("ITINERA_SESSION_SECRET", "a-very-long-session-secret")
	t.Setenv("ITINERA_LLM_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "valkey", cfg.Store.Driver)
	assert.Equal(t, "valkey:6379", cfg.Store.ValkeyAddr)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.GeminiModel)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}
