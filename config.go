package reactor

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config is the CLI-and-environment-driven configuration for a reactor
// server process. Construction of the listener/worker pool from Config
// lives in cmd/reactord; this type only carries the resolved values so
// it can be unit-tested without touching the network.
type Config struct {
	Listen        string
	Backlog       int
	Workers       int
	IdleCeilingMs int
	LogLevel      string
}

// DefaultConfig returns the baseline configuration values: a listen
// backlog sized for a large fd table and a worker count derived from
// the host's core count.
func DefaultConfig() Config {
	workers := (runtime.NumCPU() - 1)
	if workers < 0 {
		workers = 0
	}
	return Config{
		Listen:        "0.0.0.0:888",
		Backlog:       1024 * 1024,
		Workers:       workers,
		IdleCeilingMs: idleCeilingMs,
		LogLevel:      "info",
	}
}

// LoadConfig layers a viper instance over DefaultConfig: REACTOR_*
// environment variables override the defaults. CLI flags are bound by
// the caller (cmd/reactord) before calling LoadConfig, so
// flag > env > default.
func LoadConfig(v *viper.Viper) Config {
	cfg := DefaultConfig()

	v.SetEnvPrefix("REACTOR")
	v.AutomaticEnv()

	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("backlog", cfg.Backlog)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("idle_ceiling_ms", cfg.IdleCeilingMs)
	v.SetDefault("log_level", cfg.LogLevel)

	cfg.Listen = v.GetString("listen")
	cfg.Backlog = v.GetInt("backlog")
	cfg.Workers = v.GetInt("workers")
	cfg.IdleCeilingMs = v.GetInt("idle_ceiling_ms")
	cfg.LogLevel = v.GetString("log_level")
	return cfg
}
