package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ergocli.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network != "mainnet" || cfg.SpeculosAddr != "127.0.0.1:9999" || cfg.TimeoutSeconds != 90 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesAndFillsGaps(t *testing.T) {
	path := writeConfig(t, `
network = "testnet"
sign_path = "m/44'/429'/1'"
use_auth_token = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network != "testnet" || !cfg.UseAuthToken {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SpeculosAddr != "127.0.0.1:9999" {
		t.Fatalf("gap not filled: %+v", cfg)
	}
}

func TestLoadRejectsBadNetwork(t *testing.T) {
	path := writeConfig(t, `network = "devnet"`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsBadPath(t *testing.T) {
	path := writeConfig(t, `sign_path = "m/oops"`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}
