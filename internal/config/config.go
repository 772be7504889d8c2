// Package config holds the runtime settings of the bias-channel tooling.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/bityangke/deeplab-public/internal/parallel"
)

// Backend names accepted by Config.Backend.
const (
	BackendReference = "reference"
	BackendCPU       = "cpu"
	BackendWebGPU    = "webgpu"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel     = "BIASCHANNEL_LOG_LEVEL"
	EnvLogFormat    = "BIASCHANNEL_LOG_FORMAT"
	EnvBackend      = "BIASCHANNEL_BACKEND"
	EnvWorkers      = "BIASCHANNEL_WORKERS"
	EnvMinChunkSize = "BIASCHANNEL_MIN_CHUNK"
	EnvMetricsAddr  = "BIASCHANNEL_METRICS_ADDR"
)

// Config is the runtime configuration of the bias-channel CLI and library
// helpers. The zero value is not valid; start from Default or FromEnv.
type Config struct {
	LogLevel  string
	LogFormat string

	Backend      string
	Workers      int
	MinChunkSize int

	// MetricsAddr is the listen address of the Prometheus endpoint; empty disables it.
	MetricsAddr string
}

// Validate reports the first setting outside its accepted range.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q (must be debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format: %q (must be console or json)", c.LogFormat)
	}
	switch c.GetBackend() {
	case BackendReference, BackendCPU, BackendWebGPU:
	default:
		return fmt.Errorf("invalid backend: %q (must be reference, cpu or webgpu)", c.Backend)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid workers: %d (must be positive)", c.Workers)
	}
	if c.MinChunkSize <= 0 {
		return fmt.Errorf("invalid min_chunk_size: %d (must be positive)", c.MinChunkSize)
	}
	return nil
}

// GetBackend returns the backend name in lower case.
func (c *Config) GetBackend() string {
	return strings.ToLower(c.Backend)
}

// Parallel returns the CPU worker settings.
func (c *Config) Parallel() parallel.Config {
	p := parallel.DefaultConfig().WithWorkers(c.Workers)
	if c.MinChunkSize > 0 {
		p.MinChunkSize = c.MinChunkSize
	}
	return p
}

// MetricsEnabled reports whether a metrics listen address is set.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsAddr != ""
}

// Default returns info-level console logging on the CPU backend with one
// worker per CPU.
func Default() Config {
	return Config{
		LogLevel:     "info",
		LogFormat:    "console",
		Backend:      BackendCPU,
		Workers:      runtime.NumCPU(),
		MinChunkSize: 4,
	}
}

// FromEnv returns Default() overridden by any BIASCHANNEL_* variables that are set.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvBackend); ok {
		c.Backend = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("parse %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvMinChunkSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("parse %s: %w", EnvMinChunkSize, err)
		}
		c.MinChunkSize = n
	}
	return c, nil
}
