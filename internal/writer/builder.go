// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/pd-replicator/internal/config"
	"github.com/tamzrod/pd-replicator/internal/writer/ingest"
	wmodbus "github.com/tamzrod/pd-replicator/internal/writer/modbus"
)

// BuildPlan converts one unit config into a Writer Plan.
// Assumes config has already passed validation.
func BuildPlan(u cfg.UnitConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{UnitID: u.ID}

	for _, t := range u.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			TargetID:         t.ID,
			Endpoint:         t.Endpoint,
			UnitID:           t.UnitID,
			TelemetryAddress: t.TelemetryAddress,
			FlagsAddress:     t.FlagsAddress,
		})

		if u.Source.StatusSlot != nil && t.StatusUnitID != nil {
			plan.Status = append(plan.Status, StatusPlan{
				Endpoint:   t.Endpoint,
				UnitID:     *t.StatusUnitID,
				BaseSlot:   *u.Source.StatusSlot,
				DeviceName: u.Source.DeviceName,
			})
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one client per unique endpoint.
// The first target naming an endpoint decides its protocol.
func BuildEndpointClients(u cfg.UnitConfig) (map[string]endpointClient, func() error, error) {
	timeout := time.Duration(u.Source.TimeoutMs) * time.Millisecond

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for _, t := range u.Targets {
		if _, ok := clients[t.Endpoint]; ok {
			continue
		}

		var (
			c     endpointClient
			closer func() error
			err   error
		)

		switch t.Protocol {
		case cfg.ProtocolIngest:
			var ic *ingest.EndpointClient
			ic, err = ingest.NewEndpointClient(ingest.Config{Endpoint: t.Endpoint, Timeout: timeout})
			if err == nil {
				c, closer = ic, ic.Close
			}
		case cfg.ProtocolRTU:
			var mc *wmodbus.EndpointClient
			mc, err = wmodbus.NewRTUEndpointClient(wmodbus.RTUConfig{Device: t.Endpoint, BaudRate: t.BaudRate, Timeout: timeout})
			if err == nil {
				c, closer = mc, mc.Close
			}
		default:
			var mc *wmodbus.EndpointClient
			mc, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: t.Endpoint, Timeout: timeout})
			if err == nil {
				c, closer = mc, mc.Close
			}
		}

		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}

		clients[t.Endpoint] = c
		closers = append(closers, closer)
	}

	return clients, closeAll, nil
}
