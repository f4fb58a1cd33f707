package app

import (
	"context"
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
	"github.com/anon-br/ergo-ledger-go/internal/packet"
)

// ATTEST_INPUT sub-commands, carried in P1.
const (
	p1AttestStart     byte = 0x01
	p1AttestTreeChunk byte = 0x02
	p1AttestTokens    byte = 0x03
	p1AttestRegisters byte = 0x04
	p1AttestGetFrame  byte = 0x05
)

// attestTokensPerPacket bounds (32-byte id, u64 amount) pairs per packet.
const attestTokensPerPacket = 6

// AttestBox streams a full input box description to the device and fetches
// back the attested frames it produces. The frames carry device-side
// authentication tags and are consumed opaquely by SignTransaction; the
// host never needs to parse them.
func (a *App) AttestBox(ctx context.Context, box ergo.Box) (*ergo.AttestedBox, error) {
	if len(box.ErgoTree) == 0 {
		return nil, fmt.Errorf("app: attest box: %w", ergo.ErrEmptyTree)
	}
	if len(box.Tokens) > maxOutputTokens {
		return nil, fmt.Errorf("%w: box has %d tokens", ErrTooManyEntries, len(box.Tokens))
	}

	session, err := a.startAttest(ctx, box)
	if err != nil {
		return nil, err
	}

	// The device answers the final streamed section with a one-byte frame
	// count; which section is final depends on the box shape it was told
	// about at session start.
	last, err := a.exchangeData(ctx, "attest-tree-chunk", apdu.InsAttestInput, p1AttestTreeChunk, session, box.ErgoTree)
	if err != nil {
		return nil, err
	}
	for _, pkt := range packet.ChunkItems(box.Tokens, attestTokensPerPacket, encodeBoxToken) {
		last, err = a.exchange(ctx, "attest-tokens", apdu.Command{
			Ins: apdu.InsAttestInput, P1: p1AttestTokens, P2: session, Data: pkt,
		})
		if err != nil {
			return nil, err
		}
	}
	if len(box.Registers) > 0 {
		last, err = a.exchangeData(ctx, "attest-registers", apdu.InsAttestInput, p1AttestRegisters, session, box.Registers)
		if err != nil {
			return nil, err
		}
	}

	if len(last.Data) < 1 {
		return nil, fmt.Errorf("%w: attestation returned no frame count", ErrBadDeviceReply)
	}
	count := int(last.Data[0])
	frames := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		resp, err := a.exchange(ctx, "attest-get-frame", apdu.Command{
			Ins: apdu.InsAttestInput, P1: p1AttestGetFrame, P2: session, Data: []byte{byte(i)},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("%w: empty attestation frame %d", ErrBadDeviceReply, i)
		}
		frames = append(frames, append([]byte(nil), resp.Data...))
	}

	return &ergo.AttestedBox{Frames: frames}, nil
}

func (a *App) startAttest(ctx context.Context, box ergo.Box) (byte, error) {
	p2 := p2NoAuthToken
	data := make([]byte, 0, 51)
	data = append(data, box.TxID[:]...)
	data = append(data, codec.Uint16(box.Index)...)
	data = append(data, codec.Uint64(box.Value)...)
	data = append(data, codec.Uint32(uint32(len(box.ErgoTree)))...)
	data = append(data, codec.Uint32(box.CreationHeight)...)
	data = append(data, codec.Uint8(uint8(len(box.Tokens)))...)
	data = append(data, codec.Uint32(uint32(len(box.Registers)))...)
	if a.authToken != 0 {
		p2 = p2WithAuthToken
		data = append(data, codec.Uint32(a.authToken)...)
	}
	resp, err := a.exchange(ctx, "attest-start", apdu.Command{
		Ins: apdu.InsAttestInput, P1: p1AttestStart, P2: p2, Data: data,
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Data) < 1 {
		return 0, fmt.Errorf("%w: attest-start returned no session id", ErrBadDeviceReply)
	}
	return resp.Data[0], nil
}

func encodeBoxToken(tok ergo.Token) []byte {
	buf := make([]byte, 0, 40)
	buf = append(buf, tok.ID[:]...)
	return append(buf, codec.Uint64(tok.Amount)...)
}
