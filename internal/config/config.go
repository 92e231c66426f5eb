package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	// APIKeyHash is the sha256 hex digest of the accepted X-API-Key.
	APIKeyHash string

	CoreDatabaseURL string

	TemporalAddress       string
	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	DatabaseAPIURL string
	DatabaseAPIKey string

	RepoAPIURL   string
	RepoAPIToken string
	RepoTemplate string

	HostingAPIURL   string
	HostingAPIToken string

	VoiceAPIURL string
	VoiceAPIKey string

	NotifierAPIURL string
	NotifierAPIKey string
	NotifierFrom   string

	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string

	VerifyPollInterval time.Duration
	VerifyBudget       time.Duration
	DeployBudget       time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsListenAddr: getEnv("METRICS_LISTEN_ADDR", ":9090"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		APIKeyHash:        getEnv("API_KEY_HASH", ""),

		CoreDatabaseURL: getEnv("CORE_DATABASE_URL", ""),

		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),

		DatabaseAPIURL: getEnv("DATABASE_API_URL", ""),
		DatabaseAPIKey: getEnv("DATABASE_API_KEY", ""),

		RepoAPIURL:   getEnv("REPO_API_URL", ""),
		RepoAPIToken: getEnv("REPO_API_TOKEN", ""),
		RepoTemplate: getEnv("REPO_TEMPLATE", "platform-template"),

		HostingAPIURL:   getEnv("HOSTING_API_URL", ""),
		HostingAPIToken: getEnv("HOSTING_API_TOKEN", ""),

		VoiceAPIURL: getEnv("VOICE_API_URL", ""),
		VoiceAPIKey: getEnv("VOICE_API_KEY", ""),

		NotifierAPIURL: getEnv("NOTIFIER_API_URL", ""),
		NotifierAPIKey: getEnv("NOTIFIER_API_KEY", ""),
		NotifierFrom:   getEnv("NOTIFIER_FROM", "onboarding@launchpad.local"),

		ArchiveEndpoint:  getEnv("ARCHIVE_S3_ENDPOINT", ""),
		ArchiveAccessKey: getEnv("ARCHIVE_S3_ACCESS_KEY", ""),
		ArchiveSecretKey: getEnv("ARCHIVE_S3_SECRET_KEY", ""),
		ArchiveBucket:    getEnv("ARCHIVE_S3_BUCKET", "launchpad-runs"),
	}

	var err error
	if cfg.VerifyPollInterval, err = getDuration("VERIFY_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.VerifyBudget, err = getDuration("VERIFY_BUDGET", 3*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DeployBudget, err = getDuration("DEPLOY_BUDGET", 12*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the fields the given component needs are set.
// Components: "api", "worker".
func (c *Config) Validate(component string) error {
	var missing []string

	need := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	need("TEMPORAL_ADDRESS", c.TemporalAddress)
	need("CORE_DATABASE_URL", c.CoreDatabaseURL)

	switch component {
	case "api":
		need("HTTP_LISTEN_ADDR", c.HTTPListenAddr)
		need("API_KEY_HASH", c.APIKeyHash)
	case "worker":
		need("DATABASE_API_URL", c.DatabaseAPIURL)
		need("DATABASE_API_KEY", c.DatabaseAPIKey)
		need("REPO_API_URL", c.RepoAPIURL)
		need("REPO_API_TOKEN", c.RepoAPIToken)
		need("HOSTING_API_URL", c.HostingAPIURL)
		need("HOSTING_API_TOKEN", c.HostingAPIToken)
	default:
		return fmt.Errorf("unknown component %q", component)
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		return fmt.Errorf("TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set or both be empty")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
