// cmd/pdreplicator/orchestrator.go
package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/pd-replicator/internal/poller"
	"github.com/tamzrod/pd-replicator/internal/status"
	"github.com/tamzrod/pd-replicator/internal/writer"
)

// orchestrator owns the device status snapshot of one unit.
// It forwards poll results to the data writer and derives health from them.
type orchestrator struct {
	unitID string
	data   writer.Writer
	status writer.StatusWriter // nil when status is disabled
	log    *zap.Logger

	snap status.Snapshot
}

func newOrchestrator(unitID string, data writer.Writer, sw writer.StatusWriter, log *zap.Logger) *orchestrator {
	return &orchestrator{
		unitID: unitID,
		data:   data,
		status: sw,
		log:    log.With(zap.String("unit", unitID)),
		snap:   status.Snapshot{Health: status.HealthUnknown},
	}
}

// run consumes poll results until ctx is done. A 1 Hz ticker counts
// seconds spent outside HealthOK.
func (o *orchestrator) run(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert).
	o.publish()

	for {
		select {
		case <-ctx.Done():
			return
		case res := <-in:
			o.handle(res)
		case <-secTicker.C:
			o.tick()
		}
	}
}

func (o *orchestrator) handle(res poller.PollResult) {
	if err := o.data.Write(res); err != nil {
		o.log.Warn("writer error", zap.Error(err))
	}

	next := o.snap

	switch {
	case res.Err != nil:
		next.Health = status.HealthError
		next.LastErrorCode = errorCode(res.Err)
	case res.Telemetry.Status.Protected():
		next.Health = status.HealthProtection
		next.LastErrorCode = 0
	default:
		next.Health = status.HealthOK
		next.LastErrorCode = 0
		next.SecondsInError = 0
	}

	if next.Health != o.snap.Health {
		o.log.Info("health changed",
			zap.Uint16("from", o.snap.Health),
			zap.Uint16("to", next.Health),
			zap.NamedError("cause", res.Err),
		)
	}

	if next != o.snap {
		o.snap = next
		o.publish()
	}
}

// tick increments seconds_in_error while not OK. Saturates at 65535.
func (o *orchestrator) tick() {
	if o.snap.Health == status.HealthOK || o.snap.SecondsInError == 0xFFFF {
		return
	}
	o.snap.SecondsInError++
	o.publish()
}

func (o *orchestrator) publish() {
	if o.status == nil {
		return
	}
	if err := o.status.WriteStatus(o.snap); err != nil {
		o.log.Warn("status write failed", zap.Error(err))
	}
}

// errorCode extracts a best-effort uint16 code from an error.
// Codec errors carry their own code; anything else is 1 (generic error).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var c interface{ Code() uint16 }
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}
