package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Load loads configuration from file with the following priority:
// 1. Explicit path via configPath parameter
// 2. ./pagecast.yaml (current directory)
// 3. ./config/pagecast.yaml
// 4. ~/.pagecast/config.yaml (user home)
// 5. /etc/pagecast/config.yaml (system-wide)
// Falls back to defaults if no config file is found
func Load(configPath string, logger zerolog.Logger) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pagecast")
	v.SetConfigType("yaml")

	if configPath != "" {
		// Explicit path provided
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pagecast"))
		}
		v.AddConfigPath("/etc/pagecast")
	}

	// Environment variables use PAGECAST_ prefix and underscore separators
	// Example: PAGECAST_NETWORK=sepolia, PAGECAST_LOGGING_LEVEL=debug
	v.SetEnvPrefix("PAGECAST")
	v.AutomaticEnv()

	configFileUsed := ""
	foundConfigFile := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not an error; the defaults cover everything but secrets
			logger.Debug().
				Str("searchPaths", "., ./config, ~/.pagecast, /etc/pagecast").
				Msg("No config file found in search paths, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
		foundConfigFile = true
		logger.Debug().
			Str("configFile", configFileUsed).
			Msg("Config file found and loaded by viper")
	}

	// Unmarshal the file on top of defaults
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Secrets are env-only overrides when no file carries them
	if jwt := v.GetString("content_jwt"); jwt != "" {
		cfg.Content.JWT = jwt
	}

	logger.Info().
		Bool("configFileFound", foundConfigFile).
		Str("configFile", configFileUsed).
		Str("network", cfg.Network).
		Interface("chain", cfg.Chain).
		Interface("clipboard", cfg.Clipboard).
		Interface("logging", cfg.Logging).
		Msg("Complete effective configuration")

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
