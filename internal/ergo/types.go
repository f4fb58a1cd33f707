// Package ergo holds the chain-side data model the device protocol speaks:
// networks, derivation paths, boxes, tokens, and address derivation.
package ergo

import (
	"errors"
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/codec"
)

// Network selects the address prefix and the tag announced to the device.
type Network byte

const (
	Mainnet Network = 0x00
	Testnet Network = 0x10
)

var ErrUnknownNetwork = errors.New("ergo: unknown network")

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(0x%02X)", byte(n))
	}
}

// ParseNetwork maps a config-file name to a Network.
func ParseNetwork(name string) (Network, error) {
	switch name {
	case "mainnet", "":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}

// TokenID is a 32-byte token identifier.
type TokenID [32]byte

// BoxID is a 32-byte box identifier, used for data input references.
type BoxID [32]byte

var ErrBadIDLength = errors.New("ergo: id must be 32 bytes")

func TokenIDFromHex(s string) (TokenID, error) {
	var id TokenID
	b, err := codec.HexDecode(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("%w: got %d", ErrBadIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id TokenID) String() string { return codec.HexEncode(id[:]) }

func BoxIDFromHex(s string) (BoxID, error) {
	var id BoxID
	b, err := codec.HexDecode(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("%w: got %d", ErrBadIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id BoxID) String() string { return codec.HexEncode(id[:]) }

// Token is one (id, amount) pair attached to a box.
type Token struct {
	ID     TokenID
	Amount uint64
}

// BoxCandidate is one transaction output as the host describes it to the
// device.
type BoxCandidate struct {
	Value          uint64
	ErgoTree       []byte
	CreationHeight uint32
	Tokens         []Token
	Registers      []byte
}

// Box is a full input box description, as fed to input attestation.
type Box struct {
	BoxCandidate
	TxID  BoxID
	Index uint16
}

// AttestedBox is an input pre-processed by the attestation step: an ordered
// list of opaque device-verifiable frames, plus the spending context
// extension if the input carries one. The signing driver forwards both
// without interpretation.
type AttestedBox struct {
	Frames    [][]byte
	Extension []byte
}

// UnsignedTransaction is the complete description of one signing run. It is
// treated as immutable for the duration of the session.
type UnsignedTransaction struct {
	Inputs     []AttestedBox
	DataInputs []BoxID
	Outputs    []BoxCandidate
}

/// ChangeAddress names the output destination owned by the device itself:
// the address string used for matching and the derivation path that
// produced it. Only the path ever goes on the wire.
type ChangeAddress struct {
	Address string
	Path    Path
}
