package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const DefaultConfigDir = "swayfader"

// configNames are searched in order under the XDG config dirs
var configNames = []string{"config.yaml", "config.yml", "config.json", "config.toml"}

// DefaultConfig returns the built-in tunables
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			Tick: Ms(10),
			Opacity: Opacity{
				Tiled:    Pair{Active: 1.0, Inactive: 0.88},
				Floating: Pair{Active: 1.0, Inactive: 0.88},
				Bottom:   BottomOpacity{Inactive: 0.88},
			},
			Durations: Durations{
				ConIn:        Ms(150),
				ConOut:       Ms(200),
				FloatIn:      Ms(120),
				FloatOut:     Ms(120),
				BotIn:        Ms(120),
				BotOut:       Ms(120),
				BotSwitchIn:  Ms(200),
				BotSwitchOut: Ms(200),
				FloatBotOut:  Ms(200),
			},
		},
	}
}

// FindConfigPath returns the first config file found in the XDG config dirs,
// or an empty string if there is none
func FindConfigPath() string {
	for _, name := range configNames {
		if path, err := xdg.SearchConfigFile(filepath.Join(DefaultConfigDir, name)); err == nil {
			return path
		}
	}
	return ""
}

// DefaultConfigPath is where a new config file is expected
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, DefaultConfigDir, configNames[0])
}

// LoadConfig loads configuration from the specified path or default location.
// If path is empty, the XDG config dirs are searched and a missing file
// yields the defaults. Values in the file overlay the defaults.
// Supports .yaml, .json and .toml extensions.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = FindConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes loads configuration from raw bytes
// format should be "yaml", "json" or "toml"
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := DefaultConfig()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
