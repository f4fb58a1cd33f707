// Package apdu owns the command framing contract for the device channel.
//
// Ownership boundary:
// - command serialization (CLA INS P1 P2 Lc DATA)
// - response parsing and status words
// - the Channel contract consumed by every higher layer
// - SendData, the byte-bounded multi-chunk send
package apdu

import (
	"context"
	"errors"
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/packet"
)

// CLA is the instruction class of the Ergo application.
const CLA byte = 0xE0

// MaxDataSize is the largest data field a single command may carry.
const MaxDataSize = 255

// Instruction is a device command code.
type Instruction byte

const (
	InsGetAppVersion Instruction = 0x01
	InsGetAppName    Instruction = 0x02
	InsGetExtPubKey  Instruction = 0x10
	InsDeriveAddress Instruction = 0x11
	InsAttestInput   Instruction = 0x20
	InsSignTx        Instruction = 0x21
)

var (
	ErrDataTooLong   = errors.New("apdu: command data exceeds max size")
	ErrShortResponse = errors.New("apdu: response shorter than status word")
	ErrNoData        = errors.New("apdu: no data to send")
)

// Command is one request to the device.
type Command struct {
	Ins  Instruction
	P1   byte
	P2   byte
	Data []byte
}

// Serialize renders the command in wire form.
func (c Command) Serialize() ([]byte, error) {
	if len(c.Data) > MaxDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLong, len(c.Data))
	}
	buf := make([]byte, 0, 5+len(c.Data))
	buf = append(buf, CLA, byte(c.Ins), c.P1, c.P2, byte(len(c.Data)))
	return append(buf, c.Data...), nil
}

// Response is one reply from the device.
type Response struct {
	Data []byte
	SW   uint16
}

// ParseResponse splits raw reply bytes into data and trailing status word.
func ParseResponse(raw []byte) (Response, error) {
	if len(raw) < 2 {
		return Response{}, ErrShortResponse
	}
	return Response{
		Data: raw[:len(raw)-2],
		SW:   uint16(raw[len(raw)-2])<<8 | uint16(raw[len(raw)-1]),
	}, nil
}

// Err returns nil for a success status and a *StatusError otherwise.
func (r Response) Err() error {
	if r.SW == SwOK {
		return nil
	}
	return &StatusError{SW: r.SW}
}

// Channel is the single-outstanding-request pipe to the device. Exchange is
// a strict rendezvous; implementations must not pipeline, and callers must
// serialize sessions on one channel.
type Channel interface {
	Exchange(ctx context.Context, cmd Command) (Response, error)
}

// SendData splits data into MaxDataSize chunks and issues one Exchange per
// chunk with the same instruction and parameters. It stops at the first
// transport error or non-success status and otherwise returns the final
// chunk's response. Data must be non-empty; callers skip the command
// entirely when there is nothing to send.
func SendData(ctx context.Context, ch Channel, ins Instruction, p1, p2 byte, data []byte) (Response, error) {
	if len(data) == 0 {
		return Response{}, ErrNoData
	}
	var resp Response
	for _, chunk := range packet.SplitBuffer(data, MaxDataSize) {
		var err error
		resp, err = ch.Exchange(ctx, Command{Ins: ins, P1: p1, P2: p2, Data: chunk})
		if err != nil {
			return Response{}, err
		}
		if resp.SW != SwOK {
			return resp, nil
		}
	}
	return resp, nil
}
