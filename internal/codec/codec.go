// Package codec owns the fixed-width integer, derivation path, and hex
// primitives shared by every protocol layer.
//
// All multi-byte integers are big-endian. The device firmware parses
// big-endian exclusively; a mixed-endianness call site corrupts payloads
// without any runtime signal, so no little-endian variants are exported.
package codec

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MaxPathComponents is the deepest derivation path the device accepts.
const MaxPathComponents = 10

var (
	ErrInvalidLength = errors.New("codec: invalid length")
	ErrInvalidHex    = errors.New("codec: invalid hex")
	ErrPathTooLong   = errors.New("codec: path too long")
)

func Uint8(v uint8) []byte {
	return []byte{v}
}

func Uint16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

func Uint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func Uint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func Uint16FromBytes(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("%w: u16 needs 2 bytes, got %d", ErrInvalidLength, len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

func Uint32FromBytes(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: u32 needs 4 bytes, got %d", ErrInvalidLength, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

func Uint64FromBytes(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: u64 needs 8 bytes, got %d", ErrInvalidLength, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// SerializePath encodes a derivation path as a component-count byte followed
// by each component as a big-endian uint32. Hardening is already applied to
// component values by the caller.
func SerializePath(path []uint32) ([]byte, error) {
	if len(path) > MaxPathComponents {
		return nil, fmt.Errorf("%w: %d components", ErrPathTooLong, len(path))
	}
	buf := make([]byte, 1, 1+4*len(path))
	buf[0] = byte(len(path))
	for _, c := range path {
		buf = binary.BigEndian.AppendUint32(buf, c)
	}
	return buf, nil
}

// HexEncode returns the lowercase hex form of b.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode parses s case-insensitively. Odd length or non-hex input is a
// caller error.
func HexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return b, nil
}
