package app

import (
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

// treeKind is the wire representation chosen for one output's script.
type treeKind int

const (
	// treeExternal transmits the full script bytes, chunked.
	treeExternal treeKind = iota
	// treeFee transmits nothing: the device recognizes the miner-fee
	// contract natively.
	treeFee
	// treeChange transmits only the change derivation path. The device
	// re-derives the address from its own keys and self-verifies the
	// output is device-owned instead of trusting host-declared bytes.
	treeChange
)

// classifiedTree carries only the data its kind needs to transmit.
type classifiedTree struct {
	kind   treeKind
	script []byte    // treeExternal
	path   ergo.Path // treeChange
}

// classifyTree picks the wire representation for an output script. The
// checks are mutually exclusive and order-sensitive: the miner-fee check
// always wins, so a fee script is never reinterpreted as change even when
// it also matches the change address.
func classifyTree(tree []byte, network ergo.Network, change *ergo.ChangeAddress) (classifiedTree, error) {
	if ergo.IsMinerFeeTree(tree) {
		return classifiedTree{kind: treeFee}, nil
	}
	if change != nil {
		addr, err := ergo.TreeAddress(tree, network)
		if err != nil {
			return classifiedTree{}, fmt.Errorf("app: classify output: %w", err)
		}
		if addr == change.Address {
			if len(change.Path) == 0 {
				return classifiedTree{}, ErrMissingChangePath
			}
			return classifiedTree{kind: treeChange, path: change.Path}, nil
		}
	}
	if len(tree) == 0 {
		return classifiedTree{}, fmt.Errorf("app: classify output: %w", ergo.ErrEmptyTree)
	}
	return classifiedTree{kind: treeExternal, script: tree}, nil
}
