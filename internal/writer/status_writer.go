// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/pd-replicator/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter writes one status block on one endpoint.
type deviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// statusFanout delivers the same snapshot to every status block of a unit.
type statusFanout []*deviceStatusWriter

// NewDeviceStatusWriter builds a status writer if status is enabled for the unit.
// If plan.Status is empty, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (StatusWriter, bool) {
	if len(plan.Status) == 0 {
		return nil, false
	}

	out := make(statusFanout, 0, len(plan.Status))
	for _, sp := range plan.Status {
		out = append(out, &deviceStatusWriter{
			plan:     sp,
			cli:      clients[sp.Endpoint],
			needFull: true, // full re-assert on first successful write
			last:     status.Snapshot{Health: status.HealthUnknown},
		})
	}
	return out, true
}

func (f statusFanout) WriteStatus(s status.Snapshot) error {
	var errs []string
	for _, sw := range f {
		if err := sw.WriteStatus(s); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(areaHoldingRegisters, unitID, baseAddr, regs); err != nil {
			return fmt.Errorf("status writer: ep=%s full block write failed: %w", sw.plan.Endpoint, err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: only slots that changed
	// ------------------------------------------------------------
	slots := []struct {
		name string
		slot uint16
		prev *uint16
		next uint16
	}{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
	}

	var errs []string

	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if err := sw.cli.WriteRegisters(
			areaHoldingRegisters,
			unitID,
			baseAddr+sl.slot,
			[]uint16{sl.next},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.prev = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt, re-assert on next call.
		sw.needFull = true
		return fmt.Errorf("status writer: ep=%s %s", sw.plan.Endpoint, strings.Join(errs, " | "))
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
