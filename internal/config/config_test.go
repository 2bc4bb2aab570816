package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ServerAddr)
	}
	if cfg.Settings == nil {
		t.Fatal("expected default settings")
	}
	if cfg.Settings.SessionPoolSize != 100 {
		t.Errorf("expected pool size 100, got %d", cfg.Settings.SessionPoolSize)
	}
	if cfg.Settings.FallbackMaxTokens != 1024 {
		t.Errorf("expected 1024 max tokens, got %d", cfg.Settings.FallbackMaxTokens)
	}
	if cfg.Settings.FallbackTimeoutSeconds != 30 {
		t.Errorf("expected 30s timeout, got %d", cfg.Settings.FallbackTimeoutSeconds)
	}
	if cfg.Settings.LogLevel != "info" {
		t.Errorf("expected info log level, got %s", cfg.Settings.LogLevel)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.CatalogPath = "/data/catalog.json"
	cfg.CatalogURL = "https://example.com/catalog.json"
	cfg.ServerAddr = ":9090"
	cfg.Settings.LogLevel = "debug"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.CatalogPath != cfg.CatalogPath {
		t.Errorf("expected %s, got %s", cfg.CatalogPath, loaded.CatalogPath)
	}
	if loaded.CatalogURL != cfg.CatalogURL {
		t.Errorf("expected %s, got %s", cfg.CatalogURL, loaded.CatalogURL)
	}
	if loaded.ServerAddr != ":9090" {
		t.Errorf("expected :9090, got %s", loaded.ServerAddr)
	}
	if loaded.Settings.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", loaded.Settings.LogLevel)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestLoadFromBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"catalogPath":"/data/catalog.json"}`), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.ServerAddr != ":8080" {
		t.Errorf("expected default addr backfilled, got %s", cfg.ServerAddr)
	}
	if cfg.Settings == nil || cfg.Settings.SessionPoolSize != 100 {
		t.Error("expected default settings backfilled")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

	if err := Save(NewConfig(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config written, got %v", err)
	}
}
