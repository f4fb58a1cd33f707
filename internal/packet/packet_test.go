package packet

import (
	"bytes"
	"testing"
)

func ident(b []byte) []byte { return b }

func TestChunkItemsPreservesOrderAndBounds(t *testing.T) {
	items := [][]byte{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}}
	packets := ChunkItems(items, 4, ident)
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(packets))
	}
	if !bytes.Equal(packets[0], []byte{1, 2, 3, 4}) {
		t.Fatalf("packet 0 mismatch: %v", packets[0])
	}
	if !bytes.Equal(packets[1], []byte{5, 6, 7, 8}) {
		t.Fatalf("packet 1 mismatch: %v", packets[1])
	}
	if !bytes.Equal(packets[2], []byte{9}) {
		t.Fatalf("packet 2 mismatch: %v", packets[2])
	}
}

func TestChunkItemsNeverSplitsAnItem(t *testing.T) {
	items := [][]byte{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	packets := ChunkItems(items, 2, ident)
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}
	if len(packets[0]) != 6 || len(packets[1]) != 3 {
		t.Fatalf("item split across packets: %v", packets)
	}
}

func TestChunkItemsEmptyInputYieldsZeroPackets(t *testing.T) {
	if got := ChunkItems(nil, 7, ident); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := ChunkItems([][]byte{}, 7, ident); got != nil {
		t.Fatalf("expected nil for empty slice, got %v", got)
	}
}

func TestChunkItemsRoundTrip(t *testing.T) {
	items := [][]byte{{0xA}, {0xB}, {0xC}, {0xD}, {0xE}}
	var joined []byte
	for _, p := range ChunkItems(items, 2, ident) {
		joined = append(joined, p...)
	}
	want := []byte{0xA, 0xB, 0xC, 0xD, 0xE}
	if !bytes.Equal(joined, want) {
		t.Fatalf("concatenated packets != original items: %x", joined)
	}
}

func TestSplitBufferRoundTrip(t *testing.T) {
	buf := make([]byte, 1000)
	for i := range buf {
		buf[i] = byte(i)
	}
	chunks := SplitBuffer(buf, 255)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:3] {
		if len(c) != 255 {
			t.Fatalf("chunk %d has %d bytes, want 255", i, len(c))
		}
	}
	if len(chunks[3]) != 235 {
		t.Fatalf("last chunk has %d bytes, want 235", len(chunks[3]))
	}
	var joined []byte
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, buf) {
		t.Fatal("concatenated chunks != original buffer")
	}
}

func TestSplitBufferExactMultiple(t *testing.T) {
	chunks := SplitBuffer(make([]byte, 510), 255)
	if len(chunks) != 2 || len(chunks[0]) != 255 || len(chunks[1]) != 255 {
		t.Fatalf("unexpected shape: %d chunks", len(chunks))
	}
}

func TestSplitBufferEmptyYieldsZeroChunks(t *testing.T) {
	if got := SplitBuffer(nil, 255); got != nil {
		t.Fatalf("expected nil for empty buffer, got %v", got)
	}
}
