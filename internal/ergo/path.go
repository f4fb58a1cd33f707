package ergo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Hardened is the BIP-32 hardening offset.
const Hardened uint32 = 0x80000000

// Path is a BIP-32 derivation path with hardening already applied to
// component values.
type Path []uint32

var (
	ErrEmptyPath  = errors.New("ergo: empty derivation path")
	ErrBadPathSeg = errors.New("ergo: invalid path segment")
)

// ParsePath parses "m/44'/429'/0'/0/0" style paths. Both the apostrophe and
// the "h" suffix mark a hardened component; the leading "m/" is optional.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "m/")
	if s == "" || s == "m" {
		return nil, ErrEmptyPath
	}

	segments := strings.Split(s, "/")
	path := make(Path, 0, len(segments))
	for _, seg := range segments {
		hardened := false
		if strings.HasSuffix(seg, "'") || strings.HasSuffix(seg, "h") {
			hardened = true
			seg = seg[:len(seg)-1]
		}
		v, err := strconv.ParseUint(seg, 10, 32)
		if err != nil || uint32(v) >= Hardened {
			return nil, fmt.Errorf("%w: %q", ErrBadPathSeg, seg)
		}
		c := uint32(v)
		if hardened {
			c += Hardened
		}
		path = append(path, c)
	}
	return path, nil
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, c := range p {
		b.WriteString("/")
		if c >= Hardened {
			b.WriteString(strconv.FormatUint(uint64(c-Hardened), 10))
			b.WriteString("'")
		} else {
			b.WriteString(strconv.FormatUint(uint64(c), 10))
		}
	}
	return b.String()
}
