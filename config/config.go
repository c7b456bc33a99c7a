// Package config loads the avc-audit configuration file. Every field has a
// default matching the tool's built-in behavior, so running without a
// config file is the common case.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level avc-audit configuration.
type Config struct {
	// PollTimeout bounds each perf-buffer poll.
	PollTimeout time.Duration `yaml:"poll_timeout"`
	// PidScanInterval is how often the context's process list is rescanned.
	PidScanInterval time.Duration `yaml:"pid_scan_interval"`
	// PendingMaxAge evicts unresolved avc_has_perm entries older than this.
	// Zero keeps them for the whole session.
	PendingMaxAge time.Duration `yaml:"pending_max_age"`
	// DataDir is where the session database is written.
	DataDir string `yaml:"data_dir"`
	// DebugLog is the JSON-lines debug log path.
	DebugLog string `yaml:"debug_log"`
	// StatusAddr serves /metrics and /status when set, e.g. ":9090".
	StatusAddr string `yaml:"status_addr"`
	// DecodeCacheSize bounds the bitmask decode cache.
	DecodeCacheSize int `yaml:"decode_cache_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollTimeout:     100 * time.Millisecond,
		PidScanInterval: 5 * time.Second,
		PendingMaxAge:   0,
		DataDir:         "data",
		DebugLog:        "/tmp/avc_audit_debug.log",
		StatusAddr:      "",
		DecodeCacheSize: 512,
	}
}

// Load reads and parses a configuration file, filling unset fields with
// defaults. Environment variables expand in string values via ${VAR}.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.PollTimeout == 0 {
		c.PollTimeout = def.PollTimeout
	}
	if c.PidScanInterval == 0 {
		c.PidScanInterval = def.PidScanInterval
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.DebugLog == "" {
		c.DebugLog = def.DebugLog
	}
	if c.DecodeCacheSize == 0 {
		c.DecodeCacheSize = def.DecodeCacheSize
	}
}

// Validate rejects values the session driver cannot run with.
func (c *Config) Validate() error {
	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll_timeout must be positive, got %v", c.PollTimeout)
	}
	if c.PidScanInterval <= 0 {
		return fmt.Errorf("pid_scan_interval must be positive, got %v", c.PidScanInterval)
	}
	if c.PendingMaxAge < 0 {
		return fmt.Errorf("pending_max_age must not be negative, got %v", c.PendingMaxAge)
	}
	if c.DecodeCacheSize <= 0 {
		return fmt.Errorf("decode_cache_size must be positive, got %d", c.DecodeCacheSize)
	}
	return nil
}
