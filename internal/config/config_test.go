package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "onboarding@resend.dev", cfg.Notifications.Email.FromEmail)
	assert.Equal(t, "gemini-flash-latest", cfg.AI.Model)
	assert.Equal(t, 15*time.Minute, cfg.Signing.URLTTL)
	assert.Empty(t, cfg.AI.APIKey, "credentials are optional at load time")
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9000"
storage:
  driver: memory
signing:
  url_ttl: 5m
notifications:
  twilio:
    account_sid: AC123
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("TWILIO_AUTH_TOKEN", "tw-token")
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Signing.URLTTL)
	assert.Equal(t, "AC123", cfg.Notifications.Twilio.AccountSID)
	assert.Equal(t, "tw-token", cfg.Notifications.Twilio.AuthToken)
	assert.Equal(t, "gem-key", cfg.AI.APIKey)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestLoadConfigRejectsBadEnvValue(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())

	cfg.Server.PublicURL = "https://tracker.example.com/"
	assert.Equal(t, "https://tracker.example.com", cfg.BaseURL())
}
