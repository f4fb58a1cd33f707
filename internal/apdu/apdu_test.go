package apdu

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type recordingChannel struct {
	commands []Command
	replies  []Response
	err      error
}

func (c *recordingChannel) Exchange(_ context.Context, cmd Command) (Response, error) {
	c.commands = append(c.commands, cmd)
	if c.err != nil {
		return Response{}, c.err
	}
	if len(c.replies) == 0 {
		return Response{SW: SwOK}, nil
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func TestCommandSerialize(t *testing.T) {
	cmd := Command{Ins: InsSignTx, P1: 0x01, P2: 0x02, Data: []byte{0xAA, 0xBB}}
	got, err := cmd.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := []byte{0xE0, 0x21, 0x01, 0x02, 0x02, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Fatalf("wire form mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestCommandSerializeRejectsOversizedData(t *testing.T) {
	cmd := Command{Ins: InsSignTx, Data: make([]byte, MaxDataSize+1)}
	if _, err := cmd.Serialize(); !errors.Is(err, ErrDataTooLong) {
		t.Fatalf("expected ErrDataTooLong, got %v", err)
	}
}

func TestParseResponseSplitsStatusWord(t *testing.T) {
	resp, err := ParseResponse([]byte{0x01, 0x02, 0x90, 0x00})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.SW != SwOK || !bytes.Equal(resp.Data, []byte{1, 2}) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Err() != nil {
		t.Fatalf("success status produced error: %v", resp.Err())
	}
}

func TestParseResponseTooShort(t *testing.T) {
	if _, err := ParseResponse([]byte{0x90}); !errors.Is(err, ErrShortResponse) {
		t.Fatalf("expected ErrShortResponse, got %v", err)
	}
}

func TestResponseErrPreservesStatus(t *testing.T) {
	err := Response{SW: SwDeniedByUser}.Err()
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.SW != SwDeniedByUser || !se.UserRejected() {
		t.Fatalf("status not preserved: %+v", se)
	}
}

func TestSendDataChunksAndReturnsFinalResponse(t *testing.T) {
	ch := &recordingChannel{replies: []Response{
		{SW: SwOK},
		{SW: SwOK},
		{Data: []byte{0x42}, SW: SwOK},
	}}
	data := make([]byte, 2*MaxDataSize+10)
	resp, err := SendData(context.Background(), ch, InsSignTx, 0x14, 0x07, data)
	if err != nil {
		t.Fatalf("send data: %v", err)
	}
	if len(ch.commands) != 3 {
		t.Fatalf("expected 3 exchanges, got %d", len(ch.commands))
	}
	var total int
	for _, cmd := range ch.commands {
		if cmd.Ins != InsSignTx || cmd.P1 != 0x14 || cmd.P2 != 0x07 {
			t.Fatalf("chunk command fields mutated: %+v", cmd)
		}
		if len(cmd.Data) > MaxDataSize {
			t.Fatalf("chunk exceeds max data size: %d", len(cmd.Data))
		}
		total += len(cmd.Data)
	}
	if total != len(data) {
		t.Fatalf("chunks carry %d bytes, want %d", total, len(data))
	}
	if !bytes.Equal(resp.Data, []byte{0x42}) {
		t.Fatalf("final response not returned: %+v", resp)
	}
}

func TestSendDataStopsOnRejection(t *testing.T) {
	ch := &recordingChannel{replies: []Response{
		{SW: SwOK},
		{SW: SwBufferOverflow},
	}}
	resp, err := SendData(context.Background(), ch, InsSignTx, 0, 0, make([]byte, 3*MaxDataSize))
	if err != nil {
		t.Fatalf("send data: %v", err)
	}
	if resp.SW != SwBufferOverflow {
		t.Fatalf("expected rejection status, got 0x%04X", resp.SW)
	}
	if len(ch.commands) != 2 {
		t.Fatalf("expected stop after rejection, got %d exchanges", len(ch.commands))
	}
}

func TestSendDataRejectsEmptyBuffer(t *testing.T) {
	ch := &recordingChannel{}
	if _, err := SendData(context.Background(), ch, InsSignTx, 0, 0, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if len(ch.commands) != 0 {
		t.Fatalf("empty buffer produced %d exchanges", len(ch.commands))
	}
}
