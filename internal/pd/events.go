// internal/pd/events.go
package pd

// Negotiation event bits, byte 0 of the mask register.
const (
	eventNewNegoSuccess = 1 << 0
	eventNewNegoFail    = 1 << 1
	eventNegoSuccess    = 1 << 2
	eventNegoFail       = 1 << 3

	negotiationMask = eventNewNegoSuccess | eventNewNegoFail | eventNegoSuccess | eventNegoFail
)

// Protection event bits, byte 1 of the mask register.
const (
	eventOVP = 1 << 0
	eventOCP = 1 << 1
	eventOTP = 1 << 2
	eventDR  = 1 << 3

	protectionMask = eventOVP | eventOCP | eventOTP | eventDR
)

// NegotiationEvents selects or reports negotiation outcomes.
type NegotiationEvents struct {
	NewSuccess bool
	NewFail    bool
	Success    bool
	Fail       bool
}

// ProtectionEvents selects or reports protection trips.
type ProtectionEvents struct {
	OVP            bool
	OCP            bool
	OTP            bool
	DataRoleChange bool
}

// EventFlags is the 2-byte event/mask register (0x1E).
type EventFlags struct {
	Negotiation NegotiationEvents
	Protection  ProtectionEvents
}

// DecodeEventFlags decodes the mask register. Reserved bits are ignored.
func DecodeEventFlags(b [2]byte) EventFlags {
	n, p := b[0], b[1]
	return EventFlags{
		Negotiation: NegotiationEvents{
			NewSuccess: n&eventNewNegoSuccess != 0,
			NewFail:    n&eventNewNegoFail != 0,
			Success:    n&eventNegoSuccess != 0,
			Fail:       n&eventNegoFail != 0,
		},
		Protection: ProtectionEvents{
			OVP:            p&eventOVP != 0,
			OCP:            p&eventOCP != 0,
			OTP:            p&eventOTP != 0,
			DataRoleChange: p&eventDR != 0,
		},
	}
}

// EncodeEventFlags packs the mask register. Reserved bits are always zero.
func EncodeEventFlags(f EventFlags) [2]byte {
	var n, p byte

	if f.Negotiation.NewSuccess {
		n |= eventNewNegoSuccess
	}
	if f.Negotiation.NewFail {
		n |= eventNewNegoFail
	}
	if f.Negotiation.Success {
		n |= eventNegoSuccess
	}
	if f.Negotiation.Fail {
		n |= eventNegoFail
	}

	if f.Protection.OVP {
		p |= eventOVP
	}
	if f.Protection.OCP {
		p |= eventOCP
	}
	if f.Protection.OTP {
		p |= eventOTP
	}
	if f.Protection.DataRoleChange {
		p |= eventDR
	}

	return [2]byte{n & negotiationMask, p & protectionMask}
}

// Bits flattens the flags in register order (negotiation bits 0-3, then
// protection bits 0-3) for coil publication.
func (f EventFlags) Bits() []bool {
	return []bool{
		f.Negotiation.NewSuccess,
		f.Negotiation.NewFail,
		f.Negotiation.Success,
		f.Negotiation.Fail,
		f.Protection.OVP,
		f.Protection.OCP,
		f.Protection.OTP,
		f.Protection.DataRoleChange,
	}
}
