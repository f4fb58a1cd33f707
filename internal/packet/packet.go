// Package packet implements the two chunking regimes of the device protocol.
//
// Ownership boundary:
// - count-bounded chunking of homogeneous item lists
// - byte-bounded splitting of a single long buffer
//
// The two are deliberately separate primitives: their termination and sizing
// rules differ (item count vs. byte count) and no call site ever needs both.
package packet

// ChunkItems groups items into packets of at most maxItems, encoding each
// item with encode and concatenating the encodings within a packet. Order is
// preserved across and within packets, and a packet boundary never splits an
// item. An empty input yields zero packets. maxItems must be positive.
func ChunkItems[T any](items []T, maxItems int, encode func(T) []byte) [][]byte {
	if maxItems <= 0 || len(items) == 0 {
		return nil
	}
	packets := make([][]byte, 0, (len(items)+maxItems-1)/maxItems)
	for start := 0; start < len(items); start += maxItems {
		end := start + maxItems
		if end > len(items) {
			end = len(items)
		}
		var pkt []byte
		for _, item := range items[start:end] {
			pkt = append(pkt, encode(item)...)
		}
		packets = append(packets, pkt)
	}
	return packets
}

// SplitBuffer slices buf into sequential chunks of at most maxBytes,
// preserving byte order. The last chunk may be shorter. An empty buffer
// yields zero chunks. maxBytes must be positive.
//
// Chunks alias buf; callers that mutate them must copy first.
func SplitBuffer(buf []byte, maxBytes int) [][]byte {
	if maxBytes <= 0 || len(buf) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(buf)+maxBytes-1)/maxBytes)
	for start := 0; start < len(buf); start += maxBytes {
		end := start + maxBytes
		if end > len(buf) {
			end = len(buf)
		}
		chunks = append(chunks, buf[start:end])
	}
	return chunks
}
