package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.VM.MaxCycles != 10_000_000 {
		t.Errorf("Expected MaxCycles=10000000, got %d", cfg.VM.MaxCycles)
	}
	if cfg.VM.MaxHeapBytes != 64<<20 {
		t.Errorf("Expected MaxHeapBytes=64MB, got %d", cfg.VM.MaxHeapBytes)
	}
	if cfg.DataRoot.Path != "iridium-data" {
		t.Errorf("Expected DataRoot.Path=iridium-data, got %s", cfg.DataRoot.Path)
	}
	if cfg.Remote.Port != 2244 {
		t.Errorf("Expected Remote.Port=2244, got %d", cfg.Remote.Port)
	}
	if cfg.Scheduler.MaxConcurrent != 4 {
		t.Errorf("Expected Scheduler.MaxConcurrent=4, got %d", cfg.Scheduler.MaxConcurrent)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "iridium.toml" {
		t.Errorf("Expected path to end with iridium.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "iridium" && path != "iridium.toml" {
			t.Errorf("Expected path in iridium directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()
	if path == "" {
		t.Error("GetLogPath returned empty string")
	}
	if filepath.Base(path) != "logs" {
		t.Errorf("Expected path to end with logs, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.VM.MaxCycles = 5_000_000
	cfg.DataRoot.Path = "custom-data"
	cfg.Remote.Port = 9999

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.VM.MaxCycles != 5_000_000 {
		t.Errorf("Expected MaxCycles=5000000, got %d", loaded.VM.MaxCycles)
	}
	if loaded.DataRoot.Path != "custom-data" {
		t.Errorf("Expected DataRoot.Path=custom-data, got %s", loaded.DataRoot.Path)
	}
	if loaded.Remote.Port != 9999 {
		t.Errorf("Expected Remote.Port=9999, got %d", loaded.Remote.Port)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.VM.MaxCycles != 10_000_000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[vm]
max_cycles = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
