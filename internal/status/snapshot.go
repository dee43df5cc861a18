// internal/status/snapshot.go
package status

import "github.com/tamzrod/pd-replicator/internal/pd"

// Snapshot represents exactly what the status writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Telemetry is one decoded view of the sink controller.
type Telemetry struct {
	Status       pd.Status
	Mask         pd.EventFlags
	Capabilities pd.CapabilityList
	Request      pd.RequestEntry // nil until a request was written
}
