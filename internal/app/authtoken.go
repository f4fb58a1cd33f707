package app

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// TokenSource generates session auth tokens: uniformly random, non-zero,
// and never equal to the immediately preceding token. Collisions with the
// previous value are retried, not treated as fatal.
type TokenSource struct {
	mu   sync.Mutex
	prev uint32
	rng  io.Reader
}

func NewTokenSource() *TokenSource {
	return &TokenSource{rng: rand.Reader}
}

func (s *TokenSource) Next() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf [4]byte
	for {
		if _, err := io.ReadFull(s.rng, buf[:]); err != nil {
			return 0, fmt.Errorf("app: auth token: %w", err)
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v == 0 || v == s.prev {
			continue
		}
		s.prev = v
		return v, nil
	}
}
