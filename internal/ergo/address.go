package ergo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

// Address type tags, added to the network prefix in the head byte.
const (
	addrP2PK byte = 1
	addrP2S  byte = 3
)

const checksumLen = 4

// p2pkTreePrefix is the ErgoTree template for a pay-to-public-key script:
// header, SigmaPropConstant, ProveDlog, then the 33-byte compressed key.
var p2pkTreePrefix = []byte{0x00, 0x08, 0xCD}

const p2pkTreeLen = 3 + 33

var (
	ErrEmptyTree      = errors.New("ergo: empty ergo tree")
	ErrBadAddress     = errors.New("ergo: malformed address")
	ErrWrongChecksum  = errors.New("ergo: address checksum mismatch")
	ErrBadPublicKey   = errors.New("ergo: public key must be 33 bytes")
)

// TreeAddress derives the canonical address string for an ErgoTree.
// Pay-to-public-key trees map to P2PK addresses; every other tree maps to a
// P2S address carrying the full script.
func TreeAddress(tree []byte, network Network) (string, error) {
	if len(tree) == 0 {
		return "", ErrEmptyTree
	}
	if len(tree) == p2pkTreeLen && bytes.HasPrefix(tree, p2pkTreePrefix) {
		return encodeAddress(byte(network)+addrP2PK, tree[len(p2pkTreePrefix):]), nil
	}
	return encodeAddress(byte(network)+addrP2S, tree), nil
}

// P2PKAddress derives the P2PK address for a 33-byte compressed public key.
func P2PKAddress(pubKey []byte, network Network) (string, error) {
	if len(pubKey) != 33 {
		return "", fmt.Errorf("%w: got %d", ErrBadPublicKey, len(pubKey))
	}
	return encodeAddress(byte(network)+addrP2PK, pubKey), nil
}

func encodeAddress(head byte, content []byte) string {
	body := make([]byte, 0, 1+len(content)+checksumLen)
	body = append(body, head)
	body = append(body, content...)
	sum := blake2b.Sum256(body)
	return base58.Encode(append(body, sum[:checksumLen]...))
}

// AddressFromBytes converts a raw device-returned address (head byte,
// content, checksum) to its base58 string form, verifying the checksum.
func AddressFromBytes(raw []byte) (string, error) {
	if len(raw) < 1+checksumLen {
		return "", ErrBadAddress
	}
	addr := base58.Encode(raw)
	if _, _, err := DecodeAddress(addr); err != nil {
		return "", err
	}
	return addr, nil
}

// DecodeAddress validates an address checksum and returns the head byte and
// content bytes.
func DecodeAddress(addr string) (byte, []byte, error) {
	raw := base58.Decode(addr)
	if len(raw) < 1+checksumLen {
		return 0, nil, ErrBadAddress
	}
	body := raw[:len(raw)-checksumLen]
	sum := blake2b.Sum256(body)
	if !bytes.Equal(sum[:checksumLen], raw[len(raw)-checksumLen:]) {
		return 0, nil, ErrWrongChecksum
	}
	return body[0], body[1:], nil
}
