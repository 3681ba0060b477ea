package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents Iridium's on-disk configuration.
type Config struct {
	// VM settings
	VM struct {
		MaxCycles      uint64 `toml:"max_cycles"`
		MaxHeapBytes   uint64 `toml:"max_heap_bytes"`
		InitialHeapCap uint   `toml:"initial_heap_cap"`
	} `toml:"vm"`

	// DataRoot names a directory that main creates on startup. The
	// process does not change into it, and nothing writes files there.
	DataRoot struct {
		Path string `toml:"path"`
	} `toml:"data_root"`

	// Remote settings govern the optional TCP server/client front end.
	Remote struct {
		Host           string `toml:"host"`
		Port           int    `toml:"port"`
		MaxConnections int    `toml:"max_connections"`
	} `toml:"remote"`

	// Scheduler settings govern the background VM runner.
	Scheduler struct {
		MaxConcurrent int `toml:"max_concurrent"`
	} `toml:"scheduler"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.VM.MaxCycles = 10_000_000
	cfg.VM.MaxHeapBytes = 64 << 20 // 64MB
	cfg.VM.InitialHeapCap = 0

	cfg.DataRoot.Path = "iridium-data"

	cfg.Remote.Host = "127.0.0.1"
	cfg.Remote.Port = 2244
	cfg.Remote.MaxConnections = 16

	cfg.Scheduler.MaxConcurrent = 4

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "iridium")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "iridium.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "iridium")

	default:
		return "iridium.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "iridium.toml"
	}

	return filepath.Join(configDir, "iridium.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "iridium", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "iridium", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing
// file is not an error: it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
