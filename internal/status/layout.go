// internal/status/layout.go
package status

import "github.com/tamzrod/pd-replicator/internal/pd"

// Register layouts published to targets.
// These values define the protocol and MUST NOT be configurable.

// ---- DEVICE STATUS BLOCK ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
)

// Slots 3-10 are reserved and always written as zero.
const (
	SlotReservedStart = 3
	SlotReservedEnd   = 10
)

// Device name lives at the END of the status block.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
)

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 2 * SlotDeviceNameSlots

// ---- HEALTH CODES ----

const (
	HealthUnknown  uint16 = 0
	HealthOK       uint16 = 1
	HealthError    uint16 = 2
	HealthStale    uint16 = 3
	HealthDisabled uint16 = 4

	// HealthProtection means the bus is fine but the chip reports OVP/OCP/OTP.
	HealthProtection uint16 = 5
)

// ---- TELEMETRY BLOCK (holding registers, relative to telemetry_address) ----

const (
	SlotStatusFlags     = 0 // status byte, reserved bit clear
	SlotVoltage         = 1 // mV
	SlotCurrent         = 2 // mA
	SlotTemperature     = 3 // °C
	SlotCapabilityCount = 4
	SlotRequestPosition = 5 // 0 = nothing requested yet
	SlotRequestCurrent  = 6 // mA
	SlotRequestVoltage  = 7 // mV

	SlotCapabilityStart = 8
)

// Each capability occupies CapabilitySlots registers:
// supply (1 fixed, 2 pps), min voltage mV, max voltage mV, max current mA.
// Fixed capabilities report their voltage as both min and max.
const (
	CapabilitySlots   = 4
	CapabilityEntries = pd.MaxCapabilities

	capSupplyOffset     = 0
	capMinVoltOffset    = 1
	capMaxVoltOffset    = 2
	capMaxCurrentOffset = 3
)

// TelemetrySlots is the size of the telemetry block.
const TelemetrySlots = SlotCapabilityStart + CapabilitySlots*CapabilityEntries

// ---- FLAG BITS (coils, relative to flags_address) ----

// Bits 0-7 mirror the status byte, bits 8-15 the event mask register.
const (
	FlagStatusStart = 0
	FlagMaskStart   = 8
	FlagBits        = 16
)
