// internal/pd/pdo.go
package pd

import (
	"encoding/binary"
	"fmt"
)

// Supply is the variant of a capability or request.
type Supply uint8

const (
	SupplyFixed Supply = iota + 1
	SupplyPPS
)

func (s Supply) String() string {
	switch s {
	case SupplyFixed:
		return "fixed"
	case SupplyPPS:
		return "pps"
	default:
		return fmt.Sprintf("supply(%d)", uint8(s))
	}
}

// ---- PDO LAYOUT ----
//
// Words are little-endian on the wire: byte 0 carries bits 0-7.
//
// Fixed:  [31:30]=00 [29:20] reserved [19:10] voltage 50mV [9:0] max current 10mA
// PPS:    [31:30]=11 [29:28]=00 APDO  [27:25] reserved [24:17] max voltage 100mV
//         [16] reserved [15:8] min voltage 100mV [7] reserved [6:0] max current 50mA

const (
	pdoTypeShift = 30
	pdoTypeWidth = 2
	apdoShift    = 28
	apdoWidth    = 2

	pdoTypeFixed     = 0b00
	pdoTypeAugmented = 0b11
	apdoPPS          = 0b00

	fixedCurrentShift = 0
	fixedVoltageShift = 10

	ppsCurrentShift = 0
	ppsMinVoltShift = 8
	ppsMaxVoltShift = 17
)

// CapabilityEntry is one advertised source capability.
// It is either FixedCapability or PPSCapability.
type CapabilityEntry interface {
	Supply() Supply
	capability()
}

// FixedCapability is a fixed-voltage source capability.
type FixedCapability struct {
	MaxCurrentMA uint32
	VoltageMV    uint32
}

// PPSCapability is a programmable power supply (APDO) capability.
type PPSCapability struct {
	MaxCurrentMA uint32
	MinVoltageMV uint32
	MaxVoltageMV uint32
}

func (FixedCapability) Supply() Supply { return SupplyFixed }
func (PPSCapability) Supply() Supply   { return SupplyPPS }

func (FixedCapability) capability() {}
func (PPSCapability) capability()   {}

func (c FixedCapability) String() string {
	return fmt.Sprintf("fixed %dmV %dmA", c.VoltageMV, c.MaxCurrentMA)
}

func (c PPSCapability) String() string {
	return fmt.Sprintf("pps %d-%dmV %dmA", c.MinVoltageMV, c.MaxVoltageMV, c.MaxCurrentMA)
}

// DecodeCapability decodes one 4-byte PDO.
func DecodeCapability(b [4]byte) (CapabilityEntry, error) {
	w := binary.LittleEndian.Uint32(b[:])

	switch field(w, pdoTypeShift, pdoTypeWidth) {
	case pdoTypeFixed:
		return FixedCapability{
			MaxCurrentMA: FixedPDOCurrent.Decode(field(w, fixedCurrentShift, FixedPDOCurrent.Bits)),
			VoltageMV:    FixedPDOVoltage.Decode(field(w, fixedVoltageShift, FixedPDOVoltage.Bits)),
		}, nil

	case pdoTypeAugmented:
		if apdo := field(w, apdoShift, apdoWidth); apdo != apdoPPS {
			return nil, newError(KindUnrecognizedVariant, "apdo type", "0b%02b", apdo)
		}
		return PPSCapability{
			MaxCurrentMA: PPSPDOCurrent.Decode(field(w, ppsCurrentShift, PPSPDOCurrent.Bits)),
			MinVoltageMV: PPSPDOMinVoltage.Decode(field(w, ppsMinVoltShift, PPSPDOMinVoltage.Bits)),
			MaxVoltageMV: PPSPDOMaxVoltage.Decode(field(w, ppsMaxVoltShift, PPSPDOMaxVoltage.Bits)),
		}, nil

	default:
		return nil, newError(KindUnrecognizedVariant, "pdo type", "0b%02b", field(w, pdoTypeShift, pdoTypeWidth))
	}
}

// EncodeCapability is the inverse of DecodeCapability.
func EncodeCapability(c CapabilityEntry) ([4]byte, error) {
	var w uint32

	switch c := c.(type) {
	case FixedCapability:
		cur, err := FixedPDOCurrent.Encode(c.MaxCurrentMA)
		if err != nil {
			return [4]byte{}, err
		}
		volt, err := FixedPDOVoltage.Encode(c.VoltageMV)
		if err != nil {
			return [4]byte{}, err
		}
		w = put(pdoTypeFixed, pdoTypeShift, pdoTypeWidth) |
			put(volt, fixedVoltageShift, FixedPDOVoltage.Bits) |
			put(cur, fixedCurrentShift, FixedPDOCurrent.Bits)

	case PPSCapability:
		cur, err := PPSPDOCurrent.Encode(c.MaxCurrentMA)
		if err != nil {
			return [4]byte{}, err
		}
		minV, err := PPSPDOMinVoltage.Encode(c.MinVoltageMV)
		if err != nil {
			return [4]byte{}, err
		}
		maxV, err := PPSPDOMaxVoltage.Encode(c.MaxVoltageMV)
		if err != nil {
			return [4]byte{}, err
		}
		w = put(pdoTypeAugmented, pdoTypeShift, pdoTypeWidth) |
			put(apdoPPS, apdoShift, apdoWidth) |
			put(maxV, ppsMaxVoltShift, PPSPDOMaxVoltage.Bits) |
			put(minV, ppsMinVoltShift, PPSPDOMinVoltage.Bits) |
			put(cur, ppsCurrentShift, PPSPDOCurrent.Bits)

	default:
		return [4]byte{}, newError(KindUnrecognizedVariant, "capability", "%T", c)
	}

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], w)
	return b, nil
}

// ---- CAPABILITY LIST ----

// CapabilityList is the source capability list in device order.
// Position p (1-based) is entry p-1.
type CapabilityList []CapabilityEntry

// DecodeCapabilities decodes the SRCPDO register contents.
// count is the decoded PDONUM register. Words past count are not decoded.
// Any failing entry fails the whole list.
func DecodeCapabilities(raw []byte, count int) (CapabilityList, error) {
	if count < 0 || count > MaxCapabilities {
		return nil, newError(KindValueOutOfRange, "capability count", "%d not in 0..%d", count, MaxCapabilities)
	}
	if len(raw) < count*WordSize {
		return nil, newError(KindShortBuffer, "source capabilities", "need %d bytes, got %d", count*WordSize, len(raw))
	}

	list := make(CapabilityList, 0, count)
	for i := 0; i < count; i++ {
		var w [4]byte
		copy(w[:], raw[i*WordSize:(i+1)*WordSize])

		c, err := DecodeCapability(w)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+1, err)
		}
		list = append(list, c)
	}
	return list, nil
}

// At returns the entry at a 1-based position.
func (l CapabilityList) At(position int) (CapabilityEntry, error) {
	if position < 1 || position > len(l) {
		return nil, newError(KindPositionOutOfBounds, "object position", "%d not in 1..%d", position, len(l))
	}
	return l[position-1], nil
}
