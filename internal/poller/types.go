// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/pd-replicator/internal/status"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	// Telemetry is only meaningful when Err is nil.
	Telemetry status.Telemetry

	// RequestWritten is set on the cycle that wrote the RDO register.
	RequestWritten bool

	Err error // non-nil means the poll cycle failed
}
