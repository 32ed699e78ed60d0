package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete RelayFS server configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (RELAYFS_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
//
// The topology section is the authoritative list of server identities this
// process knows: its own identity plus configured peers. The limits section
// carries cluster-wide bounds; every server in the cluster must agree on
// them or cross-version behavior is undefined.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains server-wide settings
	Server ServerConfig `mapstructure:"server"`

	// Topology lists the local identity and known peers
	Topology TopologyConfig `mapstructure:"topology"`

	// Limits carries cluster-wide operation bounds
	Limits LimitsConfig `mapstructure:"limits"`

	// Drivers selects and configures the storage drivers to register
	Drivers DriversConfig `mapstructure:"drivers"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format: text or json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains server-wide settings.
type ServerConfig struct {
	// ListenAddress is the host:port the resource server binds
	ListenAddress string `mapstructure:"listen_address" validate:"required"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// TopologyConfig lists the server identities known to this process.
type TopologyConfig struct {
	// Local is this server's own identity (host[:port]); how peers
	// address it in descriptors
	Local string `mapstructure:"local" validate:"required"`

	// Peers lists the remote servers this process may redirect to
	Peers []PeerConfig `mapstructure:"peers" validate:"dive"`

	// DialTimeout bounds connection establishment during redirection
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"gte=0"`
}

// PeerConfig describes one remote server.
type PeerConfig struct {
	// Name is a label for logs
	Name string `mapstructure:"name"`

	// Address is the peer's host[:port]
	Address string `mapstructure:"address" validate:"required"`
}

// LimitsConfig carries cluster-wide operation bounds.
type LimitsConfig struct {
	// MaxPathLength is the maximum accepted path length in bytes.
	// Must be identical on every server in the cluster.
	MaxPathLength int `mapstructure:"max_path_length" validate:"required,gt=0"`
}

// DriversConfig selects which drivers are registered and configures them.
// Only the sections matching enabled driver types are used.
type DriversConfig struct {
	// Enabled lists the driver types to register
	Enabled []string `mapstructure:"enabled" validate:"required,min=1,dive,oneof=posix memory badger s3"`

	// Posix contains posix-specific configuration
	Posix map[string]any `mapstructure:"posix"`

	// Badger contains BadgerDB-specific configuration
	Badger map[string]any `mapstructure:"badger"`

	// S3 contains S3-specific configuration
	S3 map[string]any `mapstructure:"s3"`
}

// Load reads, defaults, and validates the configuration.
//
// configPath may be empty, in which case the standard search paths are used
// and a missing file means defaults-only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the RELAYFS_ prefix and underscores.
	// Example: RELAYFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("RELAYFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/relayfs")
	}
	v.AddConfigPath("/etc/relayfs")
}

// readConfigFile reads the config file if present. A missing file is not an
// error; malformed content is.
func readConfigFile(v *viper.Viper, configPath string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
		return nil
	}
	if configPath != "" && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to read config file: %w", err)
}
