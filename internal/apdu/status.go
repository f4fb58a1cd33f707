package apdu

import "fmt"

// Status words returned by the device. SwOK is the single success value;
// everything else is a rejection of some kind.
const (
	SwOK              uint16 = 0x9000
	SwDeniedByUser    uint16 = 0x6985
	SwWrongLength     uint16 = 0x6700
	SwInsNotSupported uint16 = 0x6D00
	SwClaNotSupported uint16 = 0x6E00
	SwDeviceLocked    uint16 = 0x5515
	SwBadSessionID    uint16 = 0xB001
	SwBadState        uint16 = 0xB002
	SwBadTokenIndex   uint16 = 0xB003
	SwBufferOverflow  uint16 = 0xB004
)

// StatusMessage describes a status word for diagnostics. Unknown words get
// a generic description; the raw code is always preserved alongside.
func StatusMessage(sw uint16) string {
	switch sw {
	case SwOK:
		return "ok"
	case SwDeniedByUser:
		return "denied by user"
	case SwWrongLength:
		return "wrong data length"
	case SwInsNotSupported:
		return "instruction not supported"
	case SwClaNotSupported:
		return "instruction class not supported"
	case SwDeviceLocked:
		return "device locked"
	case SwBadSessionID:
		return "unknown session id"
	case SwBadState:
		return "command out of order"
	case SwBadTokenIndex:
		return "token index out of range"
	case SwBufferOverflow:
		return "device buffer overflow"
	default:
		return "unexpected status"
	}
}

// StatusError is a non-success reply from the device with the raw status
// word preserved.
type StatusError struct {
	SW uint16
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apdu: status 0x%04X (%s)", e.SW, StatusMessage(e.SW))
}

// UserRejected reports whether the status means the user declined the
// operation on-screen, as opposed to a protocol or programming error.
func (e *StatusError) UserRejected() bool {
	return e.SW == SwDeniedByUser
}
