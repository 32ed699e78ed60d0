package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/relayfs/relayfs/pkg/topology"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags plus custom rules
// that cannot be expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The local identity and every peer address must canonicalize; this is
	// the same reduction the host resolver applies at dispatch time.
	if _, err := topology.Canonicalize(cfg.Topology.Local); err != nil {
		return fmt.Errorf("topology.local: %w", err)
	}

	seen := make(map[string]bool)
	for i, peer := range cfg.Topology.Peers {
		canonical, err := topology.Canonicalize(peer.Address)
		if err != nil {
			return fmt.Errorf("topology.peers[%d]: %w", i, err)
		}
		if seen[canonical] {
			return fmt.Errorf("topology.peers[%d]: duplicate peer address %q", i, peer.Address)
		}
		seen[canonical] = true
	}

	enabled := make(map[string]bool)
	for i, name := range cfg.Drivers.Enabled {
		if enabled[name] {
			return fmt.Errorf("drivers.enabled[%d]: duplicate driver %q", i, name)
		}
		enabled[name] = true
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
