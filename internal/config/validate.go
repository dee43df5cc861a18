// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/pd-replicator/internal/pd"
	"github.com/tamzrod/pd-replicator/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	type span struct {
		start uint32
		end   uint32
		unit  string
		name  string
	}

	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	if len(cfg.Replicator.Units) == 0 {
		return fmt.Errorf("config: at least one unit required")
	}

	// ------------------------------------------------------------
	// UNIT / SOURCE VALIDATION
	// ------------------------------------------------------------

	seenUnit := make(map[string]struct{})
	seenSource := make(map[string]string)

	for _, u := range cfg.Replicator.Units {
		if u.ID == "" {
			return fmt.Errorf("unit id required")
		}
		if _, dup := seenUnit[u.ID]; dup {
			return fmt.Errorf("unit %q: duplicate id", u.ID)
		}
		seenUnit[u.ID] = struct{}{}

		if u.Source.Bus < 0 {
			return fmt.Errorf("unit %q: bus %d invalid", u.ID, u.Source.Bus)
		}
		// 0 means default address (applied by Normalize)
		if a := u.Source.Address; a != 0 && (a < 0x03 || a > 0x77) {
			return fmt.Errorf("unit %q: i2c address 0x%02x outside 0x03-0x77", u.ID, a)
		}

		addr := u.Source.Address
		if addr == 0 {
			addr = pd.DefaultAddress
		}
		srcKey := fmt.Sprintf("%d|%d", u.Source.Bus, addr)
		if prev, exists := seenSource[srcKey]; exists {
			return fmt.Errorf("unit %q: bus %d address 0x%02x already used by unit %q", u.ID, u.Source.Bus, addr, prev)
		}
		seenSource[srcKey] = u.ID

		if u.Poll.IntervalMs <= 0 {
			return fmt.Errorf("unit %q: poll.interval_ms must be > 0", u.ID)
		}
		if u.Source.TimeoutMs < 0 {
			return fmt.Errorf("unit %q: timeout_ms must be >= 0", u.ID)
		}

		if r := u.Request; r != nil {
			if r.Position < 1 || r.Position > pd.MaxCapabilities {
				return fmt.Errorf("unit %q: request.position %d not in 1..%d", u.ID, r.Position, pd.MaxCapabilities)
			}
			// Step checks against the capability happen in the codec at request time;
			// this only rejects values no request layout can carry.
			if r.CurrentMA%pd.FixedRDOOpCurrent.Step != 0 {
				return fmt.Errorf("unit %q: request.current_ma %d not a multiple of %d", u.ID, r.CurrentMA, pd.FixedRDOOpCurrent.Step)
			}
			if r.MaxCurrentMA != 0 && r.MaxCurrentMA < r.CurrentMA {
				return fmt.Errorf("unit %q: request.max_current_ma below current_ma", u.ID)
			}
		}

		if len(u.Targets) == 0 {
			return fmt.Errorf("unit %q: at least one target required", u.ID)
		}
		for _, t := range u.Targets {
			if t.Endpoint == "" {
				return fmt.Errorf("unit %q: target %d endpoint required", u.ID, t.ID)
			}
			switch t.Protocol {
			case "", ProtocolModbus, ProtocolIngest:
			case ProtocolRTU:
				if t.BaudRate < 0 {
					return fmt.Errorf("unit %q: target %q baud_rate invalid", u.ID, t.Endpoint)
				}
			default:
				return fmt.Errorf("unit %q: target %q unknown protocol %q", u.ID, t.Endpoint, t.Protocol)
			}
		}
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK VALIDATION (PER-TARGET, OPT-IN)
	// ------------------------------------------------------------

	// key = endpoint | status_unit_id | status_slot
	statusOwner := make(map[string]string)

	for _, u := range cfg.Replicator.Units {
		// device_name sanity (ASCII only)
		if u.Source.DeviceName != "" {
			for i := 0; i < len(u.Source.DeviceName); i++ {
				if u.Source.DeviceName[i] > 0x7F {
					return fmt.Errorf(
						"unit %q: device_name must contain ASCII characters only",
						u.ID,
					)
				}
			}
		}

		// status is opt-in
		if u.Source.StatusSlot == nil {
			continue
		}

		slot := *u.Source.StatusSlot

		for _, t := range u.Targets {
			// each target must declare status_unit_id
			if t.StatusUnitID == nil {
				return fmt.Errorf(
					"unit %q: status_slot is set but target %q has no status_unit_id",
					u.ID,
					t.Endpoint,
				)
			}

			key := fmt.Sprintf("%s|%d|%d", t.Endpoint, *t.StatusUnitID, slot)

			if prev, exists := statusOwner[key]; exists {
				return fmt.Errorf(
					"status_slot collision: endpoint=%s status_unit_id=%d slot=%d used by units %q and %q",
					t.Endpoint,
					*t.StatusUnitID,
					slot,
					prev,
					u.ID,
				)
			}

			statusOwner[key] = u.ID
		}
	}

	// ------------------------------------------------------------
	// DESTINATION MEMORY GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = endpoint | unit_id | area
	// The device status block lives in holding registers too, so it shares
	// the "registers" area of its status_unit_id.
	spans := make(map[string][]span)

	for _, u := range cfg.Replicator.Units {
		for _, t := range u.Targets {
			type block struct {
				name   string
				area   string
				unitID uint8
				start  uint32
				qty    uint32
			}

			blocks := []block{
				{"telemetry", "registers", t.UnitID, uint32(t.TelemetryAddress), status.TelemetrySlots},
				{"flags", "bits", t.UnitID, uint32(t.FlagsAddress), status.FlagBits},
			}
			if u.Source.StatusSlot != nil && t.StatusUnitID != nil {
				blocks = append(blocks, block{
					"status", "registers", *t.StatusUnitID,
					uint32(*u.Source.StatusSlot) * status.SlotsPerDevice, status.SlotsPerDevice,
				})
			}

			for _, b := range blocks {
				start := b.start
				end := start + b.qty - 1
				if end > 0xFFFF {
					return fmt.Errorf(
						"unit %q: target %q %s block %d-%d exceeds address space",
						u.ID, t.Endpoint, b.name, start, end,
					)
				}

				key := fmt.Sprintf("%s|%d|%s", t.Endpoint, b.unitID, b.area)

				for _, s := range spans[key] {
					// overlap check (inclusive)
					if !(end < s.start || start > s.end) {
						return fmt.Errorf(
							"memory overlap: endpoint=%s unit_id=%d %s %s range=%d-%d overlaps with unit=%s %s range=%d-%d",
							t.Endpoint,
							b.unitID,
							b.area,
							b.name,
							start,
							end,
							s.unit,
							s.name,
							s.start,
							s.end,
						)
					}
				}

				spans[key] = append(spans[key], span{start: start, end: end, unit: u.ID, name: b.name})
			}
		}
	}

	return nil
}
