// Package config loads the ergocli configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the TOML file shape for ergocli.
type Config struct {
	// Network selects "mainnet" or "testnet".
	Network string `toml:"network"`
	// SpeculosAddr is the emulator APDU port to connect to.
	SpeculosAddr string `toml:"speculos_addr"`
	// SignPath is the default derivation path used for signing.
	SignPath string `toml:"sign_path"`
	// UseAuthToken enables a per-process session auth token so the device
	// skips repeated confirmations.
	UseAuthToken bool `toml:"use_auth_token"`
	// TimeoutSeconds bounds one device exchange.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

func Default() Config {
	return Config{
		Network:        "mainnet",
		SpeculosAddr:   "127.0.0.1:9999",
		SignPath:       "m/44'/429'/0'",
		TimeoutSeconds: 90,
	}
}

// Load reads path and fills unset fields with defaults. A missing file is
// not an error; the defaults stand alone.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if cfg.Network == "" {
		cfg.Network = "mainnet"
	}
	if cfg.SpeculosAddr == "" {
		cfg.SpeculosAddr = "127.0.0.1:9999"
	}
	if cfg.SignPath == "" {
		cfg.SignPath = "m/44'/429'/0'"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 90
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := ergo.ParseNetwork(c.Network); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ergo.ParsePath(c.SignPath); err != nil {
		return fmt.Errorf("%w: sign_path: %v", ErrInvalidConfig, err)
	}
	return nil
}
