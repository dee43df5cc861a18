// internal/config/config.go
package config

type Config struct {
	Replicator ReplicatorConfig `yaml:"replicator"`
}

type ReplicatorConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Units   []UnitConfig  `yaml:"units"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ---- UNIT ----

type UnitConfig struct {
	ID      string         `yaml:"id"`
	Source  SourceConfig   `yaml:"source"`
	Poll    PollConfig     `yaml:"poll"`
	Mask    *MaskConfig    `yaml:"mask"`
	Request *RequestConfig `yaml:"request"`
	Targets []TargetConfig `yaml:"targets"`
}

// ---- SOURCE (sink controller on I2C) ----

type SourceConfig struct {
	Bus       int   `yaml:"bus"`     // /dev/i2c-N
	Address   uint8 `yaml:"address"` // 7-bit, default 0x51
	TimeoutMs int   `yaml:"timeout_ms"`

	// Device status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

// ---- EVENT MASK ----

// MaskConfig selects which events the chip reports. Written once at start.
type MaskConfig struct {
	NewNegotiationSuccess bool `yaml:"new_negotiation_success"`
	NewNegotiationFail    bool `yaml:"new_negotiation_fail"`
	NegotiationSuccess    bool `yaml:"negotiation_success"`
	NegotiationFail       bool `yaml:"negotiation_fail"`
	OVP                   bool `yaml:"ovp"`
	OCP                   bool `yaml:"ocp"`
	OTP                   bool `yaml:"otp"`
	DataRole              bool `yaml:"data_role"`
}

// ---- REQUEST ----

// RequestConfig is the operating point written to the RDO register whenever
// the source advertises new capabilities. Position is 1-based.
type RequestConfig struct {
	Position     int    `yaml:"position"`
	CurrentMA    uint32 `yaml:"current_ma"`
	MaxCurrentMA uint32 `yaml:"max_current_ma"`
	VoltageMV    uint32 `yaml:"voltage_mv"`
}

// ---- TARGET ----

const (
	ProtocolModbus = "modbus" // Modbus TCP
	ProtocolRTU    = "rtu"    // Modbus RTU, endpoint is a serial device
	ProtocolIngest = "ingest" // Raw Ingest v1
)

type TargetConfig struct {
	ID           uint32 `yaml:"id"`
	Endpoint     string `yaml:"endpoint"`
	Protocol     string `yaml:"protocol"`
	UnitID       uint8  `yaml:"unit_id"`        // telemetry memory
	StatusUnitID *uint8 `yaml:"status_unit_id"` // per-target status memory (optional)

	TelemetryAddress uint16 `yaml:"telemetry_address"`
	FlagsAddress     uint16 `yaml:"flags_address"`

	// RTU only
	BaudRate int `yaml:"baud_rate"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}
