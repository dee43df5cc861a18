// internal/status/encode.go
package status

import "github.com/tamzrod/pd-replicator/internal/pd"

// Encode converts a Snapshot into a full device status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError

	// Slots 3..10 are RESERVED -> left as zero

	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], EncodeDeviceName(deviceName))

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = printable(b[i])
		}
		if i+1 < len(b) {
			lo = printable(b[i+1])
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

func printable(c byte) byte {
	if c < 0x20 || c > 0x7E {
		return '?'
	}
	return c
}

// EncodeTelemetry converts decoded chip state into the telemetry block.
// Values above 65535 saturate; none of the register scales can reach that
// except a fixed PDO voltage field, which tops out at 51150 mV.
func EncodeTelemetry(t Telemetry) []uint16 {
	regs := make([]uint16, TelemetrySlots)

	regs[SlotStatusFlags] = uint16(t.Status.Byte())
	regs[SlotVoltage] = u16(t.Status.VoltageMV)
	regs[SlotCurrent] = u16(t.Status.CurrentMA)
	regs[SlotTemperature] = u16(t.Status.TemperatureC)
	regs[SlotCapabilityCount] = uint16(len(t.Capabilities))

	switch r := t.Request.(type) {
	case pd.FixedRequest:
		regs[SlotRequestPosition] = uint16(r.Position)
		regs[SlotRequestCurrent] = u16(r.OperatingCurrentMA)
		if c, err := t.Capabilities.At(r.Position); err == nil {
			if fc, ok := c.(pd.FixedCapability); ok {
				regs[SlotRequestVoltage] = u16(fc.VoltageMV)
			}
		}
	case pd.PPSRequest:
		regs[SlotRequestPosition] = uint16(r.Position)
		regs[SlotRequestCurrent] = u16(r.OperatingCurrentMA)
		regs[SlotRequestVoltage] = u16(r.VoltageMV)
	}

	for i, c := range t.Capabilities {
		if i >= CapabilityEntries {
			break
		}
		base := SlotCapabilityStart + i*CapabilitySlots

		switch c := c.(type) {
		case pd.FixedCapability:
			regs[base+capSupplyOffset] = uint16(pd.SupplyFixed)
			regs[base+capMinVoltOffset] = u16(c.VoltageMV)
			regs[base+capMaxVoltOffset] = u16(c.VoltageMV)
			regs[base+capMaxCurrentOffset] = u16(c.MaxCurrentMA)
		case pd.PPSCapability:
			regs[base+capSupplyOffset] = uint16(pd.SupplyPPS)
			regs[base+capMinVoltOffset] = u16(c.MinVoltageMV)
			regs[base+capMaxVoltOffset] = u16(c.MaxVoltageMV)
			regs[base+capMaxCurrentOffset] = u16(c.MaxCurrentMA)
		}
	}

	return regs
}

// EncodeFlags returns the coil image: status byte bits then mask bits.
func EncodeFlags(t Telemetry) []bool {
	bits := make([]bool, FlagBits)

	sb := t.Status.Byte()
	for i := 0; i < 8; i++ {
		bits[FlagStatusStart+i] = sb&(1<<i) != 0
	}
	copy(bits[FlagMaskStart:], t.Mask.Bits())

	return bits
}

func u16(v uint32) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
