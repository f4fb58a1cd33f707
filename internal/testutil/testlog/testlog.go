// Package testlog routes structured log output through the test harness so
// failures show the log lines that led up to them.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

type writer struct {
	t *testing.T
}

func (w writer) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// New returns a logger whose output lands in t.Log. The log level follows
// -v: quiet runs only surface warnings and above.
func New(t *testing.T) zerolog.Logger {
	t.Helper()
	level := zerolog.WarnLevel
	if testing.Verbose() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(writer{t: t}).Level(level).With().Timestamp().Logger()
}
