package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("TEMPORAL_ADDRESS")
	os.Unsetenv("HTTP_LISTEN_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("VERIFY_POLL_INTERVAL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:7233", cfg.TemporalAddress)
	assert.Equal(t, ":8090", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.VerifyPollInterval)
	assert.Equal(t, 3*time.Minute, cfg.VerifyBudget)
	assert.Equal(t, "launchpad-runs", cfg.ArchiveBucket)
}

func TestLoad_AllEnvVars(t *testing.T) {
	t.Setenv("CORE_DATABASE_URL", "postgres://core:5432/coredb")
	t.Setenv("TEMPORAL_ADDRESS", "temporal.example.com:7233")
	t.Setenv("HTTP_LISTEN_ADDR", ":7071")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_API_URL", "https://db.example.com/api/v2")
	t.Setenv("VERIFY_POLL_INTERVAL", "10s")
	t.Setenv("DEPLOY_BUDGET", "20m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://core:5432/coredb", cfg.CoreDatabaseURL)
	assert.Equal(t, "temporal.example.com:7233", cfg.TemporalAddress)
	assert.Equal(t, ":7071", cfg.HTTPListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://db.example.com/api/v2", cfg.DatabaseAPIURL)
	assert.Equal(t, 10*time.Second, cfg.VerifyPollInterval)
	assert.Equal(t, 20*time.Minute, cfg.DeployBudget)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("VERIFY_BUDGET", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERIFY_BUDGET")
}

func TestValidate_API_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORE_DATABASE_URL")
	assert.Contains(t, err.Error(), "TEMPORAL_ADDRESS")
	assert.Contains(t, err.Error(), "API_KEY_HASH")
}

func TestValidate_Worker_MissingFields(t *testing.T) {
	cfg := &Config{
		TemporalAddress: "localhost:7233",
		CoreDatabaseURL: "postgres://localhost/core",
	}
	err := cfg.Validate("worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_API_URL")
	assert.Contains(t, err.Error(), "REPO_API_TOKEN")
	assert.Contains(t, err.Error(), "HOSTING_API_URL")
}

func TestValidate_UnknownComponent(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("mailroom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown component")
}

func TestValidate_TLS_MismatchedCertKey(t *testing.T) {
	cfg := &Config{
		CoreDatabaseURL: "postgres://localhost/db",
		TemporalAddress: "localhost:7233",
		HTTPListenAddr:  ":8090",
		APIKeyHash:      "abc",
		TemporalTLSCert: "/path/to/cert.pem",
	}
	err := cfg.Validate("api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
}

func TestValidate_AllPresent(t *testing.T) {
	cfg := &Config{
		CoreDatabaseURL: "postgres://localhost/db",
		TemporalAddress: "localhost:7233",
		HTTPListenAddr:  ":8090",
		APIKeyHash:      "abc",
		DatabaseAPIURL:  "https://db.example.com",
		DatabaseAPIKey:  "key",
		RepoAPIURL:      "https://git.example.com",
		RepoAPIToken:    "token",
		HostingAPIURL:   "https://host.example.com",
		HostingAPIToken: "token",
		TemporalTLSCert: "/path/to/cert.pem",
		TemporalTLSKey:  "/path/to/key.pem",
	}

	assert.NoError(t, cfg.Validate("api"))
	assert.NoError(t, cfg.Validate("worker"))
}
