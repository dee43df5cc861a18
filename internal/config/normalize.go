// internal/config/normalize.go
package config

import (
	"github.com/tamzrod/pd-replicator/internal/pd"
	"github.com/tamzrod/pd-replicator/internal/status"
)

const (
	defaultTimeoutMs = 200
	defaultBaudRate  = 115200
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Replicator.Logging.Level == "" {
		cfg.Replicator.Logging.Level = "info"
	}

	for ui := range cfg.Replicator.Units {
		u := &cfg.Replicator.Units[ui]

		if u.Source.Address == 0 {
			u.Source.Address = pd.DefaultAddress
		}
		if u.Source.TimeoutMs == 0 {
			u.Source.TimeoutMs = defaultTimeoutMs
		}

		for ti := range u.Targets {
			t := &u.Targets[ti]
			if t.Protocol == "" {
				t.Protocol = ProtocolModbus
			}
			if t.Protocol == ProtocolRTU && t.BaudRate == 0 {
				t.BaudRate = defaultBaudRate
			}
		}

		// ------------------------------------------------------------
		// DEVICE STATUS BLOCK NORMALIZATION (OPT-IN)
		// ------------------------------------------------------------

		// Skip units that did not opt in
		if u.Source.StatusSlot == nil {
			continue
		}

		// device_name is ASCII (validated); truncate to what the block can hold
		if len(u.Source.DeviceName) > status.DeviceNameMaxChars {
			u.Source.DeviceName = u.Source.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}
