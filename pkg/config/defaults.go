package config

import (
	"strings"
	"time"

	"github.com/relayfs/relayfs/pkg/dispatch"
	"github.com/relayfs/relayfs/pkg/topology"
)

// ApplyDefaults fills in any unspecified configuration fields.
//
// Zero values are replaced; explicit values are preserved. Driver-specific
// defaults are handled by the driver constructors.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyTopologyDefaults(&cfg.Topology)
	applyLimitsDefaults(&cfg.Limits)
	applyDriversDefaults(&cfg.Drivers)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = topology.DefaultServiceAddress()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyTopologyDefaults(cfg *TopologyConfig) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = dispatch.DefaultDialTimeout
	}
}

func applyLimitsDefaults(cfg *LimitsConfig) {
	if cfg.MaxPathLength == 0 {
		cfg.MaxPathLength = dispatch.DefaultMaxPathLength
	}
}

func applyDriversDefaults(cfg *DriversConfig) {
	if len(cfg.Enabled) == 0 {
		cfg.Enabled = []string{"posix"}
	}
	for i, name := range cfg.Enabled {
		cfg.Enabled[i] = strings.ToLower(name)
	}
}
