// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/pd-replicator/internal/config"
	"github.com/tamzrod/pd-replicator/internal/pd"
	pi2c "github.com/tamzrod/pd-replicator/internal/poller/i2c"
)

// Build constructs a Poller and wires the I2C client lifecycle.
// The client is reused while healthy.
// On transport failure, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no policy: the request position comes from config.
func Build(u cfg.UnitConfig) (*Poller, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		c, err := pi2c.New(pi2c.Config{
			Bus:     u.Source.Bus,
			Address: u.Source.Address,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, err
	}

	return New(PollerConfig(u), client, factory)
}

// PollerConfig maps one unit config onto the poller runtime config.
func PollerConfig(u cfg.UnitConfig) Config {
	c := Config{
		UnitID:   u.ID,
		Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
	}

	if m := u.Mask; m != nil {
		c.Mask = &pd.EventFlags{
			Negotiation: pd.NegotiationEvents{
				NewSuccess: m.NewNegotiationSuccess,
				NewFail:    m.NewNegotiationFail,
				Success:    m.NegotiationSuccess,
				Fail:       m.NegotiationFail,
			},
			Protection: pd.ProtectionEvents{
				OVP:            m.OVP,
				OCP:            m.OCP,
				OTP:            m.OTP,
				DataRoleChange: m.DataRole,
			},
		}
	}

	if r := u.Request; r != nil {
		c.Position = r.Position
		c.Request = &pd.OperatingPoint{
			CurrentMA:    r.CurrentMA,
			MaxCurrentMA: r.MaxCurrentMA,
			VoltageMV:    r.VoltageMV,
		}
	}

	return c
}
