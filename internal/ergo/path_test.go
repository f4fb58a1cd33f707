package ergo

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"m/44'/429'/0'/0/0", Path{Hardened + 44, Hardened + 429, Hardened, 0, 0}},
		{"44h/429h/0h/0/1", Path{Hardened + 44, Hardened + 429, Hardened, 0, 1}},
		{"m/0", Path{0}},
	}
	for _, tc := range tests {
		got, err := ParsePath(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("parse %q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "m/", "m/x", "m/44''", "m/2147483648", "m/-1"} {
		if _, err := ParsePath(in); err == nil {
			t.Fatalf("parse %q: expected error", in)
		}
	}
	if _, err := ParsePath(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
	if _, err := ParsePath("m/44'/oops"); !errors.Is(err, ErrBadPathSeg) {
		t.Fatalf("expected ErrBadPathSeg, got %v", err)
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	in := "m/44'/429'/0'/0/3"
	p, err := ParsePath(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.String() != in {
		t.Fatalf("String() = %q, want %q", p.String(), in)
	}
}
