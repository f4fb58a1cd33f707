package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
	"github.com/anon-br/ergo-ledger-go/internal/testutil/apdutest"
)

func testBox() ergo.Box {
	box := ergo.Box{Index: 2}
	box.Value = 5_000_000
	box.ErgoTree = p2pkTestTree()
	box.CreationHeight = 900
	box.TxID[0] = 0xAB
	return box
}

func TestAttestBoxFetchesFramesInOrder(t *testing.T) {
	const sid byte = 0x07
	frame0 := []byte{0xAA, 0x01}
	frame1 := []byte{0xBB, 0x02}
	a, ch := newTestApp(t, 0,
		apdutest.OK(sid),
		apdutest.OK(2), // tree chunk reply carries frame count
		apdutest.OK(frame0...),
		apdutest.OK(frame1...),
	)

	got, err := a.AttestBox(context.Background(), testBox())
	if err != nil {
		t.Fatalf("attest: %v", err)
	}
	if len(got.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got.Frames))
	}
	if !bytes.Equal(got.Frames[0], frame0) || !bytes.Equal(got.Frames[1], frame1) {
		t.Fatal("frames reordered or corrupted")
	}
	if got.Extension != nil {
		t.Fatal("attestation invented a context extension")
	}

	fetches := ch.ByP1(apdu.InsAttestInput, p1AttestGetFrame)
	if len(fetches) != 2 {
		t.Fatalf("expected 2 frame fetches, got %d", len(fetches))
	}
	for i, cmd := range fetches {
		if cmd.P2 != sid {
			t.Fatalf("fetch %d carries P2 0x%02X, want session 0x%02X", i, cmd.P2, sid)
		}
		if !bytes.Equal(cmd.Data, []byte{byte(i)}) {
			t.Fatalf("fetch %d requested index %v", i, cmd.Data)
		}
	}
}

func TestAttestBoxFrameCountFromFinalSection(t *testing.T) {
	box := testBox()
	box.Tokens = []ergo.Token{{ID: tid(1), Amount: 3}}
	box.Registers = []byte{0x04, 0x05}
	a, ch := newTestApp(t, 0,
		apdutest.OK(0x07),
		apdutest.OK(),     // tree chunk: not final, no count yet
		apdutest.OK(),     // tokens: not final
		apdutest.OK(1),    // registers: final section carries count
		apdutest.OK(0xFF), // frame 0
	)
	got, err := a.AttestBox(context.Background(), box)
	if err != nil {
		t.Fatalf("attest: %v", err)
	}
	if len(got.Frames) != 1 || !bytes.Equal(got.Frames[0], []byte{0xFF}) {
		t.Fatalf("unexpected frames: %v", got.Frames)
	}
	if n := ch.Count(apdu.InsAttestInput, p1AttestTokens); n != 1 {
		t.Fatalf("expected 1 token packet, got %d", n)
	}
	if n := ch.Count(apdu.InsAttestInput, p1AttestRegisters); n != 1 {
		t.Fatalf("expected 1 register chunk, got %d", n)
	}
}

func TestAttestBoxRejectionStopsFlow(t *testing.T) {
	a, ch := newTestApp(t, 0,
		apdutest.OK(0x07),
		apdutest.Status(apdu.SwBufferOverflow),
	)
	_, err := a.AttestBox(context.Background(), testBox())
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("expected DeviceError, got %v", err)
	}
	if devErr.Step != "attest-tree-chunk" || devErr.SW != apdu.SwBufferOverflow {
		t.Fatalf("rejection detail wrong: %+v", devErr)
	}
	if len(ch.Commands) != 2 {
		t.Fatalf("flow continued after rejection: %d commands", len(ch.Commands))
	}
}

func TestAttestBoxRequiresTree(t *testing.T) {
	box := testBox()
	box.ErgoTree = nil
	a, ch := newTestApp(t, 0)
	if _, err := a.AttestBox(context.Background(), box); !errors.Is(err, ergo.ErrEmptyTree) {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
	if len(ch.Commands) != 0 {
		t.Fatal("malformed box reached the wire")
	}
}

func TestAttestBoxStartPayloadShape(t *testing.T) {
	a, ch := newTestApp(t, 0,
		apdutest.OK(0x07),
		apdutest.OK(0),
	)
	box := testBox()
	if _, err := a.AttestBox(context.Background(), box); err != nil {
		t.Fatalf("attest: %v", err)
	}
	start := ch.Commands[0]
	if start.Ins != apdu.InsAttestInput || start.P1 != p1AttestStart {
		t.Fatalf("wrong start command: %+v", start)
	}
	// tx id (32) + index (2) + value (8) + tree len (4) + height (4) +
	// token count (1) + register len (4)
	if len(start.Data) != 55 {
		t.Fatalf("start payload %d bytes, want 55", len(start.Data))
	}
	if !bytes.Equal(start.Data[:32], box.TxID[:]) {
		t.Fatal("tx id not first in start payload")
	}
	if !bytes.Equal(start.Data[32:34], []byte{0, 2}) {
		t.Fatalf("box index field wrong: %x", start.Data[32:34])
	}
}
