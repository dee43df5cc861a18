// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/pd-replicator/internal/poller"
	"github.com/tamzrod/pd-replicator/internal/status"
)

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteBits(area byte, unitID uint8, addr uint16, bits []bool) error
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

type telemetryWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New returns the telemetry writer for one unit.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &telemetryWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write publishes decoded telemetry and flags to every target.
// Failed polls write nothing here; health is the status writer's job.
func (w *telemetryWriter) Write(res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}

	regs := status.EncodeTelemetry(res.Telemetry)
	bits := status.EncodeFlags(res.Telemetry)

	var errs []string

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if err := cli.WriteRegisters(areaHoldingRegisters, tgt.UnitID, tgt.TelemetryAddress, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d telemetry addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, tgt.TelemetryAddress, err,
			))
		}

		if err := cli.WriteBits(areaCoils, tgt.UnitID, tgt.FlagsAddress, bits); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d flags addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, tgt.FlagsAddress, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}
