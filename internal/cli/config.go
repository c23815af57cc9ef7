package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backends selectable in the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config is the optional TOML configuration file. Every field has a
// working default; the file only needs to exist to change them.
type Config struct {
	// Render defaults, overridable per command with flags.
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Font   string `toml:"font"`

	Label LabelConfig  `toml:"label"`
	Cache CacheConfig  `toml:"cache"`
	Serve ServerConfig `toml:"server"`
}

// LabelConfig styles object labels.
type LabelConfig struct {
	Size       float64 `toml:"size"`
	Color      string  `toml:"color"`
	Corner     string  `toml:"corner"`
	Background bool    `toml:"background"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Width:  1200,
		Height: 800,
		Label: LabelConfig{
			Size:   12,
			Color:  "#e8ecf4",
			Corner: "top-right",
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Serve: ServerConfig{
			Addr:       ":8080",
			TTLMinutes: 60,
		},
	}
}

// LoadConfig reads a TOML config file and fills unset fields with
// defaults. Unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.Width <= 0 {
		cfg.Width = 1200
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Label.Size <= 0 {
		cfg.Label.Size = 12
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the config file from its XDG location,
// falling back to defaults when the file is absent or unreadable.
func LoadConfigOrDefault() Config {
	path, err := configPath()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// configPath returns the config file location (~/.config/orrery/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
