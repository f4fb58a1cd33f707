package app

import (
	"errors"
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
)

// Malformed-input errors. All of these are raised before any device
// traffic and are recoverable by the caller correcting its input.
var (
	ErrNoTransaction     = errors.New("app: transaction required")
	ErrPathTooShort      = errors.New("app: derivation path too short")
	ErrBadChangePath     = errors.New("app: disallowed change path component")
	ErrMissingChangePath = errors.New("app: change output detected but change path missing")
	ErrTooManyEntries    = errors.New("app: transaction section exceeds device limit")
	ErrBadDeviceReply    = errors.New("app: malformed device reply")
)

// DeviceError is a non-success status returned mid-session. The session is
// abandoned at the point of failure; there is no partial retry.
type DeviceError struct {
	// Step names the protocol step that was rejected.
	Step string
	// SW is the raw status word for diagnostics.
	SW uint16
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("app: device rejected %s: status 0x%04X (%s)", e.Step, e.SW, apdu.StatusMessage(e.SW))
}

// UserRejected distinguishes an on-screen decline from protocol and
// programming errors.
func (e *DeviceError) UserRejected() bool {
	return e.SW == apdu.SwDeniedByUser
}
