// Package app implements the client for the Ergo device application.
//
// Ownership boundary:
// - read-only queries (version, name, extended key, address)
// - input attestation sessions
// - transaction signing sessions
//
// One App drives one device channel. The channel is a strict
// request/response rendezvous, so only one session may run at a time;
// callers serialize access.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
)

var ErrNoChannel = errors.New("app: device channel required")

// Config configures an App.
type Config struct {
	Channel apdu.Channel
	// Logger, when nil, disables logging.
	Logger *zerolog.Logger
	// AuthToken, when non-zero, is presented at session start so the
	// device can skip repeated on-screen confirmations. It spans every
	// session this App opens.
	AuthToken uint32
}

// App is a client for the Ergo application running on the device.
type App struct {
	ch        apdu.Channel
	log       zerolog.Logger
	authToken uint32
}

func New(cfg Config) (*App, error) {
	if cfg.Channel == nil {
		return nil, ErrNoChannel
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &App{
		ch:        cfg.Channel,
		log:       logger,
		authToken: cfg.AuthToken,
	}, nil
}

// exchange issues one command and maps failures: a transport error becomes
// a wrapped channel failure, a non-success status becomes a *DeviceError
// naming the step. Either aborts the session at the caller.
func (a *App) exchange(ctx context.Context, step string, cmd apdu.Command) (apdu.Response, error) {
	resp, err := a.ch.Exchange(ctx, cmd)
	if err != nil {
		return apdu.Response{}, fmt.Errorf("app: %s: %w", step, err)
	}
	if resp.SW != apdu.SwOK {
		return apdu.Response{}, &DeviceError{Step: step, SW: resp.SW}
	}
	a.log.Debug().Str("step", step).Int("resp_bytes", len(resp.Data)).Msg("device ack")
	return resp, nil
}

// exchangeData is exchange for payloads that may exceed one command; it
// splits via apdu.SendData and applies the same failure mapping.
func (a *App) exchangeData(ctx context.Context, step string, ins apdu.Instruction, p1, p2 byte, data []byte) (apdu.Response, error) {
	resp, err := apdu.SendData(ctx, a.ch, ins, p1, p2, data)
	if err != nil {
		return apdu.Response{}, fmt.Errorf("app: %s: %w", step, err)
	}
	if resp.SW != apdu.SwOK {
		return apdu.Response{}, &DeviceError{Step: step, SW: resp.SW}
	}
	a.log.Debug().Str("step", step).Int("sent_bytes", len(data)).Msg("device ack")
	return resp, nil
}
