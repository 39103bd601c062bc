package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/safelaw/observe"
)

// Sentinel errors for configuration validation.
var (
	ErrMissingServiceKey = errors.New("config: upstream service key is required")
	ErrInvalidBaseURL    = errors.New("config: upstream base URL must be absolute http(s)")
	ErrInvalidAddr       = errors.New("config: server listen address is required")
)

// Config is the daemon configuration, loaded from YAML with ${VAR}
// environment expansion.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Resilience    ResilienceConfig    `yaml:"resilience"`
	Cache         CacheConfig         `yaml:"cache"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string `yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig configures the search API client.
type UpstreamConfig struct {
	// BaseURL is the search endpoint.
	BaseURL string `yaml:"base_url"`

	// ServiceKey authenticates against the upstream. Use ${VAR} to pull
	// it from the environment; it never belongs in the file itself.
	ServiceKey string `yaml:"service_key"`
}

// ResilienceConfig configures the upstream call policy. Zero values take
// the package defaults.
type ResilienceConfig struct {
	RetryMaxAttempts  int      `yaml:"retry_max_attempts"`
	RetryInitialDelay Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay     Duration `yaml:"retry_max_delay"`

	BreakerFailureThreshold int      `yaml:"breaker_failure_threshold"`
	BreakerCooldown         Duration `yaml:"breaker_cooldown"`

	AttemptTimeout Duration `yaml:"attempt_timeout"`

	// DailyQuota enables the client-side quota guard when positive.
	DailyQuota int `yaml:"daily_quota"`
}

// CacheConfig configures the query cache. Zero values take the package
// defaults.
type CacheConfig struct {
	TTL        Duration `yaml:"ttl"`
	MaxEntries int      `yaml:"max_entries"`
}

// AuthConfig configures caller authentication. Empty means anonymous.
type AuthConfig struct {
	// APIKeys maps SHA-256 key hashes (hex) to principal names.
	APIKeys map[string]string `yaml:"api_keys"`

	// BearerSecret enables bearer token auth when non-empty. Use ${VAR}.
	BearerSecret string `yaml:"bearer_secret"`
	BearerIssuer string `yaml:"bearer_issuer"`
}

// ObservabilityConfig mirrors observe.Config in YAML form.
type ObservabilityConfig struct {
	Tracing struct {
		Enabled   bool    `yaml:"enabled"`
		Exporter  string  `yaml:"exporter"`
		SamplePct float64 `yaml:"sample_pct"`
	} `yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"metrics"`
	Logging struct {
		Enabled bool   `yaml:"enabled"`
		Level   string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the configuration defaults applied before the file is
// merged in.
func Default() Config {
	cfg := Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://apis.data.go.kr/B552468/srch/smartSearch",
		},
	}
	cfg.Observability.Logging.Enabled = true
	cfg.Observability.Logging.Level = "info"
	return cfg
}

// Load reads, expands, parses, and validates the configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses configuration bytes. ${VAR} references are expanded
// strictly before YAML decoding.
func Parse(raw []byte) (Config, error) {
	expanded, err := expandEnvStrict(string(raw))
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for operability.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrInvalidAddr
	}
	if c.Upstream.ServiceKey == "" {
		return ErrMissingServiceKey
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Upstream.BaseURL)
	}
	oc := c.Observe()
	return oc.Validate()
}

// Observe converts the observability section into an observe.Config.
func (c *Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: "safelaw",
		Tracing: observe.TracingConfig{
			Enabled:   c.Observability.Tracing.Enabled,
			Exporter:  c.Observability.Tracing.Exporter,
			SamplePct: c.Observability.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observability.Metrics.Enabled,
			Exporter: c.Observability.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observability.Logging.Enabled,
			Level:   c.Observability.Logging.Level,
		},
	}
}
