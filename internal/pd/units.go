// internal/pd/units.go
package pd

// Scale maps one register field to a physical unit.
// Decode is an exact multiply. Encode is an exact divide and refuses values
// that are not a multiple of Step or do not fit in Bits.
type Scale struct {
	Name string
	Step uint32
	Bits uint
}

// ---- STATUS / MEASUREMENT REGISTERS ----

var (
	StatusVoltage     = Scale{Name: "voltage", Step: 80, Bits: 8}     // mV
	StatusCurrent     = Scale{Name: "current", Step: 24, Bits: 8}     // mA
	StatusTemperature = Scale{Name: "temperature", Step: 1, Bits: 8} // °C
)

// ---- SOURCE CAPABILITIES ----

var (
	FixedPDOCurrent = Scale{Name: "fixed max current", Step: 10, Bits: 10}
	FixedPDOVoltage = Scale{Name: "fixed voltage", Step: 50, Bits: 10}

	PPSPDOCurrent    = Scale{Name: "pps max current", Step: 50, Bits: 7}
	PPSPDOMinVoltage = Scale{Name: "pps min voltage", Step: 100, Bits: 8}
	PPSPDOMaxVoltage = Scale{Name: "pps max voltage", Step: 100, Bits: 8}
)

// ---- REQUEST ----

var (
	FixedRDOMaxCurrent = Scale{Name: "fixed request max current", Step: 10, Bits: 10}
	FixedRDOOpCurrent  = Scale{Name: "fixed request operating current", Step: 10, Bits: 10}

	PPSRDOOpCurrent = Scale{Name: "pps request operating current", Step: 50, Bits: 7}
	PPSRDOVoltage   = Scale{Name: "pps request voltage", Step: 20, Bits: 11}
)

// Max is the largest raw value the field can hold.
func (s Scale) Max() uint32 {
	return 1<<s.Bits - 1
}

// Decode converts a raw field value into the physical unit.
// Bits above the field width are masked away.
func (s Scale) Decode(raw uint32) uint32 {
	return (raw & s.Max()) * s.Step
}

// Encode converts a physical value into the raw field value.
func (s Scale) Encode(v uint32) (uint32, error) {
	if v%s.Step != 0 {
		return 0, newError(KindNotExactStep, s.Name, "%d is not a multiple of %d", v, s.Step)
	}
	raw := v / s.Step
	if raw > s.Max() {
		return 0, newError(KindValueOutOfRange, s.Name, "%d exceeds field maximum %d", v, s.Max()*s.Step)
	}
	return raw, nil
}

// field extracts width bits starting at shift.
func field(w uint32, shift, width uint) uint32 {
	return (w >> shift) & (1<<width - 1)
}

// put places raw into a width-bit field at shift. raw must already fit.
func put(raw uint32, shift, width uint) uint32 {
	return (raw & (1<<width - 1)) << shift
}
