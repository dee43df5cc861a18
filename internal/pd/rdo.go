// internal/pd/rdo.go
package pd

import (
	"encoding/binary"
	"fmt"
)

// ---- RDO LAYOUT ----
//
// Fixed:  [31] reserved [30:28] object position [27:20] reserved
//         [19:10] operating current 10mA [9:0] max current 10mA
// PPS:    [31] reserved [30:28] object position [27:20] reserved
//         [19:9] voltage 20mV [8:7] reserved [6:0] operating current 50mA
//
// The RDO carries no type tag. The variant follows the capability the object
// position refers to.

const (
	rdoPositionShift = 28
	rdoPositionWidth = 3

	fixedRDOMaxCurrentShift = 0
	fixedRDOOpCurrentShift  = 10

	ppsRDOOpCurrentShift = 0
	ppsRDOVoltageShift   = 9
)

// RequestEntry is a decoded request data object.
// It is either FixedRequest or PPSRequest.
type RequestEntry interface {
	Supply() Supply
	ObjectPosition() int
	request()
}

// FixedRequest requests a fixed capability.
type FixedRequest struct {
	Position           int
	MaxCurrentMA       uint32
	OperatingCurrentMA uint32
}

// PPSRequest requests a PPS capability at a programmed voltage.
type PPSRequest struct {
	Position           int
	OperatingCurrentMA uint32
	VoltageMV          uint32
}

func (FixedRequest) Supply() Supply { return SupplyFixed }
func (PPSRequest) Supply() Supply   { return SupplyPPS }

func (r FixedRequest) ObjectPosition() int { return r.Position }
func (r PPSRequest) ObjectPosition() int   { return r.Position }

func (FixedRequest) request() {}
func (PPSRequest) request()   {}

func (r FixedRequest) String() string {
	return fmt.Sprintf("fixed #%d op=%dmA max=%dmA", r.Position, r.OperatingCurrentMA, r.MaxCurrentMA)
}

func (r PPSRequest) String() string {
	return fmt.Sprintf("pps #%d %dmV op=%dmA", r.Position, r.VoltageMV, r.OperatingCurrentMA)
}

// OperatingPoint is what the sink asks for.
// For fixed capabilities VoltageMV is optional and must match the capability
// when set. MaxCurrentMA defaults to CurrentMA.
// For PPS capabilities VoltageMV is required and MaxCurrentMA must be zero;
// the PPS request layout has no max current field.
type OperatingPoint struct {
	CurrentMA    uint32
	MaxCurrentMA uint32
	VoltageMV    uint32
}

// EncodeRequest builds the RDO for entry at the given 1-based position.
// Out of range or off-step values fail; nothing is clamped or rounded.
func EncodeRequest(entry CapabilityEntry, position int, op OperatingPoint) ([4]byte, error) {
	if err := checkPosition(position); err != nil {
		return [4]byte{}, err
	}

	switch c := entry.(type) {
	case FixedCapability:
		if op.VoltageMV != 0 && op.VoltageMV != c.VoltageMV {
			return [4]byte{}, newError(KindValueOutOfRange, "voltage", "%dmV requested, capability is %dmV", op.VoltageMV, c.VoltageMV)
		}
		maxCur := op.MaxCurrentMA
		if maxCur == 0 {
			maxCur = op.CurrentMA
		}
		if op.CurrentMA > maxCur {
			return [4]byte{}, newError(KindValueOutOfRange, "operating current", "%dmA above requested max %dmA", op.CurrentMA, maxCur)
		}
		if maxCur > c.MaxCurrentMA {
			return [4]byte{}, newError(KindValueOutOfRange, "operating current", "%dmA above capability max %dmA", maxCur, c.MaxCurrentMA)
		}
		return EncodeRequestEntry(FixedRequest{
			Position:           position,
			MaxCurrentMA:       maxCur,
			OperatingCurrentMA: op.CurrentMA,
		})

	case PPSCapability:
		if op.MaxCurrentMA != 0 {
			return [4]byte{}, newError(KindValueOutOfRange, "max current", "%dmA given, pps requests carry no max current", op.MaxCurrentMA)
		}
		if op.CurrentMA > c.MaxCurrentMA {
			return [4]byte{}, newError(KindValueOutOfRange, "operating current", "%dmA above capability max %dmA", op.CurrentMA, c.MaxCurrentMA)
		}
		if op.VoltageMV < c.MinVoltageMV || op.VoltageMV > c.MaxVoltageMV {
			return [4]byte{}, newError(KindValueOutOfRange, "voltage", "%dmV outside %d-%dmV", op.VoltageMV, c.MinVoltageMV, c.MaxVoltageMV)
		}
		return EncodeRequestEntry(PPSRequest{
			Position:           position,
			OperatingCurrentMA: op.CurrentMA,
			VoltageMV:          op.VoltageMV,
		})

	default:
		return [4]byte{}, newError(KindUnrecognizedVariant, "capability", "%T", entry)
	}
}

// EncodeRequestEntry packs a request as-is. It checks field widths and steps
// but not the referenced capability; use EncodeRequest for that.
func EncodeRequestEntry(r RequestEntry) ([4]byte, error) {
	if r == nil {
		return [4]byte{}, newError(KindUnrecognizedVariant, "request", "nil")
	}
	if err := checkPosition(r.ObjectPosition()); err != nil {
		return [4]byte{}, err
	}

	w := put(uint32(r.ObjectPosition()), rdoPositionShift, rdoPositionWidth)

	switch r := r.(type) {
	case FixedRequest:
		maxCur, err := FixedRDOMaxCurrent.Encode(r.MaxCurrentMA)
		if err != nil {
			return [4]byte{}, err
		}
		opCur, err := FixedRDOOpCurrent.Encode(r.OperatingCurrentMA)
		if err != nil {
			return [4]byte{}, err
		}
		w |= put(opCur, fixedRDOOpCurrentShift, FixedRDOOpCurrent.Bits) |
			put(maxCur, fixedRDOMaxCurrentShift, FixedRDOMaxCurrent.Bits)

	case PPSRequest:
		opCur, err := PPSRDOOpCurrent.Encode(r.OperatingCurrentMA)
		if err != nil {
			return [4]byte{}, err
		}
		volt, err := PPSRDOVoltage.Encode(r.VoltageMV)
		if err != nil {
			return [4]byte{}, err
		}
		w |= put(volt, ppsRDOVoltageShift, PPSRDOVoltage.Bits) |
			put(opCur, ppsRDOOpCurrentShift, PPSRDOOpCurrent.Bits)

	default:
		return [4]byte{}, newError(KindUnrecognizedVariant, "request", "%T", r)
	}

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], w)
	return b, nil
}

// DecodeRequest decodes an RDO using the variant of the capability it refers to.
func DecodeRequest(b [4]byte, supply Supply) (RequestEntry, error) {
	w := binary.LittleEndian.Uint32(b[:])

	pos := int(field(w, rdoPositionShift, rdoPositionWidth))
	if err := checkPosition(pos); err != nil {
		return nil, err
	}

	switch supply {
	case SupplyFixed:
		return FixedRequest{
			Position:           pos,
			MaxCurrentMA:       FixedRDOMaxCurrent.Decode(field(w, fixedRDOMaxCurrentShift, FixedRDOMaxCurrent.Bits)),
			OperatingCurrentMA: FixedRDOOpCurrent.Decode(field(w, fixedRDOOpCurrentShift, FixedRDOOpCurrent.Bits)),
		}, nil
	case SupplyPPS:
		return PPSRequest{
			Position:           pos,
			OperatingCurrentMA: PPSRDOOpCurrent.Decode(field(w, ppsRDOOpCurrentShift, PPSRDOOpCurrent.Bits)),
			VoltageMV:          PPSRDOVoltage.Decode(field(w, ppsRDOVoltageShift, PPSRDOVoltage.Bits)),
		}, nil
	default:
		return nil, newError(KindUnrecognizedVariant, "request", "%s", supply)
	}
}

// RequestPosition extracts the object position without decoding the rest.
func RequestPosition(b [4]byte) int {
	return int(field(binary.LittleEndian.Uint32(b[:]), rdoPositionShift, rdoPositionWidth))
}

// Request builds the RDO for the capability at position.
func (l CapabilityList) Request(position int, op OperatingPoint) ([4]byte, error) {
	c, err := l.At(position)
	if err != nil {
		return [4]byte{}, err
	}
	return EncodeRequest(c, position, op)
}

// DecodeRequest decodes an RDO against this list.
func (l CapabilityList) DecodeRequest(b [4]byte) (RequestEntry, error) {
	c, err := l.At(RequestPosition(b))
	if err != nil {
		return nil, err
	}
	return DecodeRequest(b, c.Supply())
}

func checkPosition(pos int) error {
	if pos < 1 || pos > MaxCapabilities {
		return newError(KindPositionOutOfBounds, "object position", "%d not in 1..%d", pos, MaxCapabilities)
	}
	return nil
}
