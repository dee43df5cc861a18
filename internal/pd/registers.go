// internal/pd/registers.go
package pd

// Register command bytes of the AP33772 sink controller.
// These values are fixed by the device and MUST NOT be configurable.
const (
	RegSourcePDO   uint8 = 0x00
	RegPDOCount    uint8 = 0x1C
	RegStatus      uint8 = 0x1D
	RegMask        uint8 = 0x1E
	RegVoltage     uint8 = 0x20
	RegCurrent     uint8 = 0x21
	RegTemperature uint8 = 0x22
	RegRequest     uint8 = 0x30
)

// ---- SIZES ----

// WordSize is the size of one PDO or RDO.
const WordSize = 4

// MaxCapabilities is the hardware limit of the source capability list.
// It also bounds the 3-bit RDO object position.
const MaxCapabilities = 7

// DefaultAddress is the 7-bit I2C address of the chip.
const DefaultAddress = 0x51

// Access describes the transfer direction a register supports.
type Access uint8

const (
	ReadOnly Access = iota + 1
	WriteOnly
	ReadWrite
)

// Register is one entry of the register map.
type Register struct {
	Name    string
	Address uint8
	Size    int // bytes; for RegSourcePDO this is the per-entry size
	Access  Access
}

var registers = map[uint8]Register{
	RegSourcePDO:   {Name: "SRCPDO", Address: RegSourcePDO, Size: WordSize, Access: ReadOnly},
	RegPDOCount:    {Name: "PDONUM", Address: RegPDOCount, Size: 1, Access: ReadOnly},
	RegStatus:      {Name: "STATUS", Address: RegStatus, Size: 4, Access: ReadOnly},
	RegMask:        {Name: "MASK", Address: RegMask, Size: 2, Access: ReadWrite},
	RegVoltage:     {Name: "VOLTAGE", Address: RegVoltage, Size: 1, Access: ReadOnly},
	RegCurrent:     {Name: "CURRENT", Address: RegCurrent, Size: 1, Access: ReadOnly},
	RegTemperature: {Name: "TEMP", Address: RegTemperature, Size: 1, Access: ReadOnly},
	RegRequest:     {Name: "RDO", Address: RegRequest, Size: WordSize, Access: WriteOnly},
}

// Lookup returns the register described by addr.
func Lookup(addr uint8) (Register, bool) {
	r, ok := registers[addr]
	return r, ok
}

// RegisterName is a log helper; unknown addresses are rendered as hex.
func RegisterName(addr uint8) string {
	if r, ok := registers[addr]; ok {
		return r.Name
	}
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[addr>>4], hex[addr&0x0f]})
}
