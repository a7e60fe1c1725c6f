package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Push       PushConfig       `yaml:"push"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Database   DatabaseConfig   `yaml:"database"`
	WebPush    WebPushConfig    `yaml:"web_push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the local HTTP surface configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
}

// BackendConfig points at the events backend the agent talks to.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushConfig holds the notification push-channel configuration.
type PushConfig struct {
	URL       string          `yaml:"url"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig enables reconnect-with-backoff on channel drop. The upstream
// frontend never reconnects, so this defaults to disabled.
type ReconnectConfig struct {
	Enabled             bool `yaml:"enabled"`
	InitialDelaySeconds int  `yaml:"initial_delay_seconds"`
	MaxDelaySeconds     int  `yaml:"max_delay_seconds"`
}

// LedgerConfig bounds the in-memory notification ledger. A negative capacity
// disables the bound entirely.
type LedgerConfig struct {
	Capacity int `yaml:"capacity"`
}

// DatabaseConfig holds the session/subscription database configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// WebPushConfig holds the VAPID keys for forwarding notifications as browser
// push. Forwarding stays off while the keys are empty.
type WebPushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the web-push worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second

	if cfg.Push.Reconnect.InitialDelaySeconds <= 0 {
		cfg.Push.Reconnect.InitialDelaySeconds = 1
	}
	if cfg.Push.Reconnect.MaxDelaySeconds <= 0 {
		cfg.Push.Reconnect.MaxDelaySeconds = 60
	}

	if cfg.Ledger.Capacity == 0 {
		cfg.Ledger.Capacity = 200
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "eventfeed.db"
	}

	if cfg.WebPush.TTL <= 0 {
		cfg.WebPush.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
