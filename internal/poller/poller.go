// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/pd-replicator/internal/logging"
	"github.com/tamzrod/pd-replicator/internal/pd"
	"github.com/tamzrod/pd-replicator/internal/status"
)

// Client abstracts the register transactions the poller needs.
// The poller depends on command bytes and lengths only.
type Client interface {
	ReadRegister(cmd uint8, n int) ([]byte, error)
	WriteRegister(cmd uint8, data []byte) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration

	// Mask is written to the event mask register once per client.
	Mask *pd.EventFlags

	// Request is written to the RDO register at Position whenever the source
	// advertises new capabilities. Nil disables requests.
	Request  *pd.OperatingPoint
	Position int
}

// Poller is a clock-driven reader of one sink controller.
type Poller struct {
	cfg     Config
	client  Client
	factory func() (Client, error)
	log     *zap.Logger

	masked    bool            // mask written on the current client
	requested pd.RequestEntry // last request written, nil if none
}

// New creates a poller with immutable config.
// factory may be nil, in which case a lost client is never replaced.
func New(cfg Config, client Client, factory func() (Client, error)) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	if cfg.Request != nil && (cfg.Position < 1 || cfg.Position > pd.MaxCapabilities) {
		return nil, fmt.Errorf("poller: request position %d not in 1..%d", cfg.Position, pd.MaxCapabilities)
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		factory: factory,
		log:     logging.Logger().With(zap.String("unit", cfg.UnitID)),
	}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.UnitID,
		At:     time.Now(),
	}

	if err := p.ensureClient(); err != nil {
		res.Err = err
		return res
	}

	if p.cfg.Mask != nil && !p.masked {
		if err := p.writeMask(*p.cfg.Mask); err != nil {
			res.Err = err
			return res
		}
	}

	tel, err := p.readTelemetry()
	if err != nil {
		res.Err = err
		return res
	}

	if p.cfg.Request != nil && (p.requested == nil || tel.Status.NewCapabilities) {
		req, err := p.writeRequest(tel.Capabilities)
		if err != nil {
			res.Err = err
			return res
		}
		p.requested = req
		res.RequestWritten = true
	}

	// Commit only if everything succeeded
	tel.Request = p.requested
	res.Telemetry = tel
	return res
}

func (p *Poller) readTelemetry() (status.Telemetry, error) {
	var tel status.Telemetry

	raw, err := p.read(pd.RegStatus, 4)
	if err != nil {
		return tel, err
	}
	tel.Status = pd.DecodeStatus([4]byte(raw))

	raw, err = p.read(pd.RegMask, 2)
	if err != nil {
		return tel, err
	}
	tel.Mask = pd.DecodeEventFlags([2]byte(raw))

	// The dedicated measurement registers are the live readings;
	// they replace the copies carried in the status register.
	if raw, err = p.read(pd.RegVoltage, 1); err != nil {
		return tel, err
	}
	tel.Status.VoltageMV = pd.DecodeVoltage(raw[0])

	if raw, err = p.read(pd.RegCurrent, 1); err != nil {
		return tel, err
	}
	tel.Status.CurrentMA = pd.DecodeCurrent(raw[0])

	if raw, err = p.read(pd.RegTemperature, 1); err != nil {
		return tel, err
	}
	tel.Status.TemperatureC = pd.DecodeTemperature(raw[0])

	if raw, err = p.read(pd.RegPDOCount, 1); err != nil {
		return tel, err
	}
	count, err := pd.DecodeCapabilityCount(raw[0])
	if err != nil {
		return tel, fmt.Errorf("poller: %w", err)
	}

	if count == 0 {
		tel.Capabilities = pd.CapabilityList{}
		return tel, nil
	}

	raw, err = p.read(pd.RegSourcePDO, count*pd.WordSize)
	if err != nil {
		return tel, err
	}
	caps, err := pd.DecodeCapabilities(raw, count)
	if err != nil {
		return tel, fmt.Errorf("poller: source capabilities: %w", err)
	}
	tel.Capabilities = caps

	return tel, nil
}

func (p *Poller) writeMask(f pd.EventFlags) error {
	raw := pd.EncodeEventFlags(f)
	if err := p.write(pd.RegMask, raw[:]); err != nil {
		return err
	}
	p.masked = true
	p.log.Debug("event mask written", zap.Binary("mask", raw[:]))
	return nil
}

func (p *Poller) writeRequest(caps pd.CapabilityList) (pd.RequestEntry, error) {
	raw, err := caps.Request(p.cfg.Position, *p.cfg.Request)
	if err != nil {
		return nil, fmt.Errorf("poller: request position %d: %w", p.cfg.Position, err)
	}

	// The RDO register cannot be read back; decode what we send for the log.
	req, err := caps.DecodeRequest(raw)
	if err != nil {
		return nil, fmt.Errorf("poller: request verify: %w", err)
	}

	if err := p.write(pd.RegRequest, raw[:]); err != nil {
		return nil, err
	}

	p.log.Info("request written",
		zap.Int("position", req.ObjectPosition()),
		zap.Stringer("supply", req.Supply()),
		zap.Any("request", req),
	)
	return req, nil
}

// ---- transport helpers ----

func (p *Poller) ensureClient() error {
	if p.client != nil {
		return nil
	}
	if p.factory == nil {
		return errors.New("poller: no client")
	}
	c, err := p.factory()
	if err != nil {
		return fmt.Errorf("poller: connect: %w", err)
	}
	p.client = c
	p.masked = false
	return nil
}

func (p *Poller) read(cmd uint8, n int) ([]byte, error) {
	raw, err := p.client.ReadRegister(cmd, n)
	if err != nil {
		p.dropClient()
		return nil, fmt.Errorf("poller: read %s: %w", pd.RegisterName(cmd), err)
	}
	if len(raw) < n {
		return nil, fmt.Errorf("poller: read %s: %w", pd.RegisterName(cmd),
			&pd.Error{Kind: pd.KindShortBuffer, Field: pd.RegisterName(cmd), Detail: fmt.Sprintf("need %d bytes, got %d", n, len(raw))})
	}
	return raw[:n], nil
}

func (p *Poller) write(cmd uint8, data []byte) error {
	if err := p.client.WriteRegister(cmd, data); err != nil {
		p.dropClient()
		return fmt.Errorf("poller: write %s: %w", pd.RegisterName(cmd), err)
	}
	return nil
}

// dropClient discards the client after a transport failure.
// The factory provides a new one on a future tick.
// Without a factory the client is kept and retried as-is.
func (p *Poller) dropClient() {
	if p.factory == nil {
		return
	}
	if c, ok := p.client.(io.Closer); ok {
		if err := c.Close(); err != nil {
			p.log.Debug("client close failed", zap.Error(err))
		}
	}
	p.client = nil
}

// Close releases the current client, if it holds any resources.
func (p *Poller) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		p.client = nil
		return c.Close()
	}
	return nil
}
