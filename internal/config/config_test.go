package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "callback_logs", cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.WaitTimeout())
	assert.Equal(t, 100, cfg.IngestRatePerSecond)
	assert.Equal(t, 3, cfg.Search.MaxCandidates)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
listenAddr: ":9090"
dataDir: /var/lib/search-ai/callbacks
enrichment:
  serviceUrl: https://enrich.example/api/v1/search
  apiKey: secret
  callbackUrl: https://tunnel.example/callbacks
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/search-ai/callbacks", cfg.DataDir)
	assert.Equal(t, 2000, cfg.PollIntervalMillis, "default applied")
	assert.Equal(t, 30, cfg.WaitTimeoutSeconds, "default applied")
	assert.Equal(t, 10, cfg.Enrichment.TimeoutSeconds, "default applied")
	assert.Equal(t, "secret", cfg.Enrichment.APIKey)
}

func TestLoadOverridesTimings(t *testing.T) {
	path := writeConfig(t, `
pollIntervalMillis: 1500
waitTimeoutSeconds: 15
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 15*time.Second, cfg.WaitTimeout())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "listenAdress: \":9090\"\n")
	_, err := Load(path)
	assert.Error(t, err, "typoed keys are configuration bugs, not defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Enrichment.ServiceURL = "https://enrich.example"
	assert.Error(t, cfg.Validate(), "callback URL required with a service URL")

	cfg.Enrichment.CallbackURL = "https://tunnel.example/callbacks"
	assert.NoError(t, cfg.Validate())

	cfg.PollIntervalMillis = 60000
	cfg.WaitTimeoutSeconds = 5
	assert.Error(t, cfg.Validate(), "budget must cover one poll")
}
