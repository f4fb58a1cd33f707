// Package cmd wires the ergocli subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anon-br/ergo-ledger-go/internal/app"
	"github.com/anon-br/ergo-ledger-go/internal/config"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
	"github.com/anon-br/ergo-ledger-go/internal/logging"
	"github.com/anon-br/ergo-ledger-go/internal/transport"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "ergocli",
	Short:         "Command-line client for the Ergo hardware wallet application",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ergocli: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the TOML configuration file")
}

// session bundles everything a subcommand needs to talk to the device.
type session struct {
	cfg     config.Config
	network ergo.Network
	app     *app.App
	channel *transport.Speculos
	log     zerolog.Logger
	timeout time.Duration
}

func openSession() (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	network, err := ergo.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	log := logging.New("ergocli")
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	dialCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	channel, err := transport.DialSpeculos(dialCtx, cfg.SpeculosAddr, &log)
	if err != nil {
		return nil, err
	}

	var authToken uint32
	if cfg.UseAuthToken {
		authToken, err = app.NewTokenSource().Next()
		if err != nil {
			_ = channel.Close()
			return nil, err
		}
	}
	client, err := app.New(app.Config{Channel: channel, Logger: &log, AuthToken: authToken})
	if err != nil {
		_ = channel.Close()
		return nil, err
	}
	return &session{
		cfg:     cfg,
		network: network,
		app:     client,
		channel: channel,
		log:     log,
		timeout: timeout,
	}, nil
}

func (s *session) close() {
	_ = s.channel.Close()
}

func (s *session) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *session) signPath(override string) (ergo.Path, error) {
	if override != "" {
		return ergo.ParsePath(override)
	}
	return ergo.ParsePath(s.cfg.SignPath)
}
