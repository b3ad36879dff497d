package config

import (
	"fmt"
	"strings"
)

// validate validates the configuration
func validate(cfg *Config) error {
	if err := validateNetwork(cfg); err != nil {
		return err
	}
	if err := validateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if err := validateClipboard(cfg.Clipboard); err != nil {
		return err
	}
	if err := validateChain(cfg.Chain); err != nil {
		return err
	}
	return nil
}

// validateNetwork checks the selected network exists and is usable
func validateNetwork(cfg *Config) error {
	net, ok := cfg.Networks[cfg.Network]
	if !ok {
		names := make([]string, 0, len(cfg.Networks))
		for name := range cfg.Networks {
			names = append(names, name)
		}
		return fmt.Errorf("unknown network '%s': must be one of: %s", cfg.Network, strings.Join(names, ", "))
	}
	if net.RPCURL == "" {
		return fmt.Errorf("network '%s' has no rpc_url", cfg.Network)
	}
	if net.ChainID <= 0 {
		return fmt.Errorf("network '%s' has invalid chain_id %d", cfg.Network, net.ChainID)
	}
	return nil
}

// validateLogLevel validates the log level setting
func validateLogLevel(level string) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level '%s': must be one of: trace, debug, info, warn, error, fatal", level)
	}
	return nil
}

// validateClipboard validates clipboard settings
func validateClipboard(cb ClipboardConfig) error {
	if cb.Capacity < 1 {
		return fmt.Errorf("invalid clipboard capacity %d: must be at least 1", cb.Capacity)
	}
	return nil
}

// validateChain validates confirmation settings
func validateChain(ch ChainConfig) error {
	if ch.ConfirmTimeout <= 0 {
		return fmt.Errorf("invalid chain confirm_timeout %v: must be positive", ch.ConfirmTimeout)
	}
	if ch.PollInterval <= 0 {
		return fmt.Errorf("invalid chain poll_interval %v: must be positive", ch.PollInterval)
	}
	if ch.PollInterval >= ch.ConfirmTimeout {
		return fmt.Errorf("chain poll_interval %v must be shorter than confirm_timeout %v", ch.PollInterval, ch.ConfirmTimeout)
	}
	return nil
}
