// Package transport provides concrete device channels.
//
// The only in-tree transport speaks the Speculos emulator's TCP framing; a
// physical HID transport satisfies the same apdu.Channel contract and can
// be plugged in from outside.
package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
)

// maxReplyBytes caps a single reply read; anything larger is a framing
// error, not a legitimate device response.
const maxReplyBytes = 64 * 1024

var (
	ErrReplyTooLarge = errors.New("transport: reply exceeds frame limit")
	ErrClosed        = errors.New("transport: channel closed")
)

// Speculos is an apdu.Channel over the Speculos emulator's TCP port.
// Requests and replies are length-prefixed with a big-endian uint32; the
// reply length covers the data only, with the two status bytes following.
//
// Exchange is serialized internally: the wire protocol is a strict
// request/response rendezvous with no pipelining.
type Speculos struct {
	mu   sync.Mutex
	conn net.Conn
	log  zerolog.Logger
}

// DialSpeculos connects to a Speculos APDU port, e.g. "127.0.0.1:9999".
func DialSpeculos(ctx context.Context, addr string, logger *zerolog.Logger) (*Speculos, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	log.Debug().Str("addr", addr).Msg("speculos connected")
	return &Speculos{conn: conn, log: log}, nil
}

// NewSpeculos wraps an existing connection, mainly for tests.
func NewSpeculos(conn net.Conn) *Speculos {
	return &Speculos{conn: conn, log: zerolog.Nop()}
}

func (s *Speculos) Exchange(ctx context.Context, cmd apdu.Command) (apdu.Response, error) {
	wire, err := cmd.Serialize()
	if err != nil {
		return apdu.Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return apdu.Response{}, ErrClosed
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if err := s.conn.SetDeadline(deadline); err != nil {
			return apdu.Response{}, fmt.Errorf("transport: set deadline: %w", err)
		}
		defer s.conn.SetDeadline(time.Time{})
	}

	frame := make([]byte, 4+len(wire))
	binary.BigEndian.PutUint32(frame, uint32(len(wire)))
	copy(frame[4:], wire)
	if _, err := s.conn.Write(frame); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: write: %w", err)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(s.conn, lenBuf[:]); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: read length: %w", err)
	}
	dataLen := binary.BigEndian.Uint32(lenBuf[:])
	if dataLen > maxReplyBytes {
		return apdu.Response{}, fmt.Errorf("%w: %d bytes", ErrReplyTooLarge, dataLen)
	}
	raw := make([]byte, dataLen+2)
	if _, err := io.ReadFull(s.conn, raw); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: read reply: %w", err)
	}

	resp, err := apdu.ParseResponse(raw)
	if err != nil {
		return apdu.Response{}, err
	}
	s.log.Debug().
		Uint8("ins", byte(cmd.Ins)).
		Int("data_bytes", len(resp.Data)).
		Str("sw", fmt.Sprintf("0x%04X", resp.SW)).
		Msg("exchange")
	return resp, nil
}

func (s *Speculos) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
