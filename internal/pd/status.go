// internal/pd/status.go
package pd

// Status flag bits of byte 0 of the status register.
// Bit 3 is reserved and never interpreted.
const (
	statusReady   = 1 << 0
	statusSuccess = 1 << 1
	statusNewPDO  = 1 << 2
	statusOVP     = 1 << 4
	statusOCP     = 1 << 5
	statusOTP     = 1 << 6
	statusDR      = 1 << 7

	statusMask = statusReady | statusSuccess | statusNewPDO |
		statusOVP | statusOCP | statusOTP | statusDR
)

// StatusWord is the decoded flag byte of the status register.
type StatusWord struct {
	Ready           bool
	Success         bool
	NewCapabilities bool
	OVP             bool
	OCP             bool
	OTP             bool
	DataRole        bool
}

// Status is the full status register: flags plus the last measurement.
type Status struct {
	StatusWord
	VoltageMV    uint32
	CurrentMA    uint32
	TemperatureC uint32
}

// DecodeStatus decodes the 4-byte status register (0x1D).
func DecodeStatus(b [4]byte) Status {
	return Status{
		StatusWord:   DecodeStatusWord(b[0]),
		VoltageMV:    DecodeVoltage(b[1]),
		CurrentMA:    DecodeCurrent(b[2]),
		TemperatureC: DecodeTemperature(b[3]),
	}
}

// DecodeStatusWord decodes byte 0 of the status register.
func DecodeStatusWord(b byte) StatusWord {
	return StatusWord{
		Ready:           b&statusReady != 0,
		Success:         b&statusSuccess != 0,
		NewCapabilities: b&statusNewPDO != 0,
		OVP:             b&statusOVP != 0,
		OCP:             b&statusOCP != 0,
		OTP:             b&statusOTP != 0,
		DataRole:        b&statusDR != 0,
	}
}

// Byte packs the flags back into register order with the reserved bit clear.
// The device never accepts a status write; this is used for publishing.
func (s StatusWord) Byte() byte {
	var b byte
	if s.Ready {
		b |= statusReady
	}
	if s.Success {
		b |= statusSuccess
	}
	if s.NewCapabilities {
		b |= statusNewPDO
	}
	if s.OVP {
		b |= statusOVP
	}
	if s.OCP {
		b |= statusOCP
	}
	if s.OTP {
		b |= statusOTP
	}
	if s.DataRole {
		b |= statusDR
	}
	return b & statusMask
}

// Protected reports whether any protection flag is raised.
func (s StatusWord) Protected() bool {
	return s.OVP || s.OCP || s.OTP
}

// ---- SINGLE BYTE MEASUREMENT REGISTERS ----

// DecodeVoltage decodes register 0x20 (or status byte 1) into millivolts.
func DecodeVoltage(b byte) uint32 { return StatusVoltage.Decode(uint32(b)) }

// DecodeCurrent decodes register 0x21 (or status byte 2) into milliamps.
func DecodeCurrent(b byte) uint32 { return StatusCurrent.Decode(uint32(b)) }

// DecodeTemperature decodes register 0x22 (or status byte 3) into °C.
func DecodeTemperature(b byte) uint32 { return StatusTemperature.Decode(uint32(b)) }

// DecodeCapabilityCount decodes register 0x1C.
func DecodeCapabilityCount(b byte) (int, error) {
	n := int(b)
	if n > MaxCapabilities {
		return 0, newError(KindValueOutOfRange, "capability count", "%d exceeds hardware limit %d", n, MaxCapabilities)
	}
	return n, nil
}
