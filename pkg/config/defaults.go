package config

import "time"

// DefaultConfig returns a Config with sensible defaults. Public RPC and
// gateway endpoints only; API keys and the pin-service JWT come from the
// config file or environment.
func DefaultConfig() *Config {
	return &Config{
		Network: "base",
		Networks: map[string]NetworkConfig{
			"base": {
				ChainID:         8453,
				RPCURL:          "https://mainnet.base.org",
				RegistryAddress: "",
				Explorer: ExplorerConfig{
					APIURL: "https://api.basescan.org/api",
				},
			},
			"sepolia": {
				ChainID:         11155111,
				RPCURL:          "https://rpc.sepolia.org",
				RegistryAddress: "",
				Explorer: ExplorerConfig{
					APIURL: "https://api-sepolia.etherscan.io/api",
				},
			},
			"local": {
				ChainID:         31337,
				RPCURL:          "http://localhost:8545",
				RegistryAddress: "",
			},
		},
		Content: ContentConfig{
			APIURL:     "https://api.pinata.cloud",
			GatewayURL: "https://gateway.pinata.cloud",
			JWT:        "",
		},
		Chain: ChainConfig{
			ConfirmTimeout: 2 * time.Minute,
			PollInterval:   2 * time.Second,
		},
		Clipboard: ClipboardConfig{
			Capacity:  10,
			Directory: "", // empty means in-memory only
		},
		Logging: LoggingConfig{
			Level:           "info",
			TimestampFormat: "15:04:05",
			Color:           true,
			File: LogFileConfig{
				Enabled: false,
				Path:    "",
			},
		},
	}
}
