// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// Config is the daemon configuration. Zero values are filled with defaults,
// so a partial (or absent) file is fine.
type Config struct {
	// ListenAddr is the ingress HTTP address, e.g. ":8080".
	ListenAddr string `json:"listenAddr"`

	// DataDir is where raw callback payloads are backed up, one file per
	// delivery. Default "callback_logs".
	DataDir string `json:"dataDir"`

	// ArchivePath is the SQLite database for resolved candidates. Empty
	// disables the archive.
	ArchivePath string `json:"archivePath"`

	// PollIntervalMillis is how often waiters re-check the sink. Default 2000.
	PollIntervalMillis int `json:"pollIntervalMillis"`

	// WaitTimeoutSeconds is the overall wait budget per query. Default 30.
	WaitTimeoutSeconds int `json:"waitTimeoutSeconds"`

	// IngestRatePerSecond bounds callback deliveries per source host.
	// Default 100 (burst 2x).
	IngestRatePerSecond int `json:"ingestRatePerSecond"`

	// Enrichment configures the egress dispatch client.
	Enrichment EnrichmentConfig `json:"enrichment"`

	// Search configures the optional search API client.
	Search SearchConfig `json:"search"`
}

// EnrichmentConfig configures outbound enrichment dispatch.
type EnrichmentConfig struct {
	// ServiceURL is the enrichment service endpoint. Empty disables the
	// /resolve and /dispatch endpoints (ingest-only mode).
	ServiceURL string `json:"serviceUrl"`

	// APIKey is sent as the X-Api-Key header.
	APIKey string `json:"apiKey"`

	// CallbackURL is the publicly reachable URL of this daemon's
	// POST /callbacks endpoint. Required when ServiceURL is set.
	CallbackURL string `json:"callbackUrl"`

	// TimeoutSeconds bounds each dispatch attempt. Default 10.
	TimeoutSeconds int `json:"timeoutSeconds"`

	// MaxRetries bounds retries of transient dispatch transport failures.
	// Default 2.
	MaxRetries int `json:"maxRetries"`
}

// SearchConfig configures the search API client.
type SearchConfig struct {
	// BaseURL is the SerpAPI-shaped endpoint. Empty disables search.
	BaseURL string `json:"baseUrl"`

	// APIKey is passed as the api_key query parameter.
	APIKey string `json:"apiKey"`

	// MaxCandidates caps distinct sites per query. Default 3.
	MaxCandidates int `json:"maxCandidates"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{}.withDefaults()
}

// Load reads and parses the YAML file at path, filling defaults and
// validating the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "callback_logs"
	}
	if c.PollIntervalMillis <= 0 {
		c.PollIntervalMillis = 2000
	}
	if c.WaitTimeoutSeconds <= 0 {
		c.WaitTimeoutSeconds = 30
	}
	if c.IngestRatePerSecond <= 0 {
		c.IngestRatePerSecond = 100
	}
	if c.Enrichment.TimeoutSeconds <= 0 {
		c.Enrichment.TimeoutSeconds = 10
	}
	if c.Enrichment.MaxRetries < 0 {
		c.Enrichment.MaxRetries = 2
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 3
	}
	return c
}

// Validate rejects configurations that cannot work.
func (c Config) Validate() error {
	if c.Enrichment.ServiceURL != "" && c.Enrichment.CallbackURL == "" {
		return fmt.Errorf("enrichment.callbackUrl is required when enrichment.serviceUrl is set")
	}
	if c.WaitTimeoutSeconds*1000 < c.PollIntervalMillis {
		return fmt.Errorf("waitTimeoutSeconds must cover at least one poll interval")
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

// WaitTimeout returns the wait budget as a duration.
func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSeconds) * time.Second
}
