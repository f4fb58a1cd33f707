package ergo

import (
	"errors"
	"fmt"
)

var ErrTokenNotFound = errors.New("ergo: token id not in table")

// TokenTable is the session-scoped, order-preserving, de-duplicated list of
// every token id referenced by a transaction's outputs. On the wire, token
// references are indices into this table, so it must be established before
// any output is sent and an omitted id makes the transaction
// unrepresentable.
type TokenTable struct {
	ids   []TokenID
	index map[TokenID]int
}

// NewTokenTable collects the distinct token ids of outputs in first-seen
// order.
func NewTokenTable(outputs []BoxCandidate) *TokenTable {
	t := &TokenTable{index: make(map[TokenID]int)}
	for _, out := range outputs {
		for _, tok := range out.Tokens {
			if _, ok := t.index[tok.ID]; !ok {
				t.index[tok.ID] = len(t.ids)
				t.ids = append(t.ids, tok.ID)
			}
		}
	}
	return t
}

// Index resolves a token id to its table position.
func (t *TokenTable) Index(id TokenID) (int, error) {
	i, ok := t.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	return i, nil
}

// IDs returns the distinct ids in table order.
func (t *TokenTable) IDs() []TokenID {
	return t.ids
}

func (t *TokenTable) Len() int {
	return len(t.ids)
}
