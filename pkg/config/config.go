package config

import (
	"time"
)

// Config represents the complete Pagecast configuration
type Config struct {
	Network   string                   `mapstructure:"network"`
	Networks  map[string]NetworkConfig `mapstructure:"networks"`
	Content   ContentConfig            `mapstructure:"content"`
	Chain     ChainConfig              `mapstructure:"chain"`
	Clipboard ClipboardConfig          `mapstructure:"clipboard"`
	Logging   LoggingConfig            `mapstructure:"logging"`
}

// NetworkConfig contains the per-chain endpoints and registry deployment
type NetworkConfig struct {
	ChainID         int64          `mapstructure:"chain_id"`
	RPCURL          string         `mapstructure:"rpc_url"`
	RegistryAddress string         `mapstructure:"registry_address"`
	Explorer        ExplorerConfig `mapstructure:"explorer"`
}

// ExplorerConfig contains the block explorer ABI endpoint settings
type ExplorerConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
}

// ContentConfig contains the pinning service settings
type ContentConfig struct {
	APIURL     string `mapstructure:"api_url"`
	GatewayURL string `mapstructure:"gateway_url"`
	JWT        string `mapstructure:"jwt"`
}

// ChainConfig contains transaction confirmation settings
type ChainConfig struct {
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// ClipboardConfig contains value clipboard settings
type ClipboardConfig struct {
	Capacity  int    `mapstructure:"capacity"`
	Directory string `mapstructure:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level           string        `mapstructure:"level"`
	TimestampFormat string        `mapstructure:"timestamp_format"`
	Color           bool          `mapstructure:"color"`
	File            LogFileConfig `mapstructure:"file"`
}

// LogFileConfig contains file logging settings
type LogFileConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ActiveNetwork resolves the selected network entry.
func (c *Config) ActiveNetwork() NetworkConfig {
	return c.Networks[c.Network]
}
