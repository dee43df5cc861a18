// internal/writer/types.go
package writer

import "github.com/tamzrod/pd-replicator/internal/poller"

// Modbus areas as used on the wire by every endpoint client.
const (
	areaCoils            byte = 1
	areaHoldingRegisters byte = 3
)

// TargetEndpoint is one target endpoint with its telemetry geometry.
type TargetEndpoint struct {
	TargetID         uint32
	Endpoint         string
	UnitID           uint8
	TelemetryAddress uint16
	FlagsAddress     uint16
}

// StatusPlan locates one device status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one unit.
type Plan struct {
	UnitID  string
	Targets []TargetEndpoint

	// Status is empty when the unit did not opt in.
	Status []StatusPlan
}

// Writer writes poll snapshots into targets.
type Writer interface {
	Write(res poller.PollResult) error
}
