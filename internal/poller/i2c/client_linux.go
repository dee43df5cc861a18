// internal/poller/i2c/client_linux.go

//go:build linux

package i2c

import (
	"fmt"
	"sync"

	smbus "github.com/platinasystems/i2c"
)

// bus is the part of smbus.Bus the client uses.
type bus interface {
	Open(index int) error
	ForceSlaveAddress(addr int) error
	Send(msgs []smbus.Message) error
	Close() error
}

// Client implements poller.Client over a Linux i2c-dev adapter.
// Each transaction opens the bus, addresses the chip, transfers, and closes.
// Transfers are plain I2C messages (I2C_RDWR), not SMBus block calls.
// Transactions are serialized: one in flight per client.
type Client struct {
	mu      sync.Mutex
	bus     int
	addr    int
	openBus func() bus
}

// New validates cfg and probes the adapter once (fail fast at startup).
func New(cfg Config) (*Client, error) {
	return newClient(cfg, func() bus { return new(smbus.Bus) })
}

func newClient(cfg Config, openBus func() bus) (*Client, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}

	c := &Client{bus: cfg.Bus, addr: int(cfg.Address), openBus: openBus}

	if err := c.do(func(bus) error { return nil }); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadRegister reads n bytes starting at command byte cmd:
// write cmd, repeated start, read n.
func (c *Client) ReadRegister(cmd uint8, n int) ([]byte, error) {
	if err := checkLen(n); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	err := c.do(func(b bus) error {
		return b.Send(readMessages(uint16(c.addr), cmd, out))
	})
	if err != nil {
		return nil, fmt.Errorf("i2c client: read 0x%02x: %w", cmd, err)
	}
	return out, nil
}

// WriteRegister writes data starting at command byte cmd in one message.
func (c *Client) WriteRegister(cmd uint8, data []byte) error {
	if err := checkLen(len(data)); err != nil {
		return err
	}

	err := c.do(func(b bus) error {
		return b.Send(writeMessages(uint16(c.addr), cmd, data))
	})
	if err != nil {
		return fmt.Errorf("i2c client: write 0x%02x: %w", cmd, err)
	}
	return nil
}

func readMessages(addr uint16, cmd uint8, out []byte) []smbus.Message {
	return []smbus.Message{
		{Address: addr, Data: []byte{cmd}},
		{Address: addr, Flags: smbus.ReadData, Data: out},
	}
}

func writeMessages(addr uint16, cmd uint8, data []byte) []smbus.Message {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, cmd)
	buf = append(buf, data...)
	return []smbus.Message{{Address: addr, Data: buf}}
}

func (c *Client) do(fn func(b bus) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.openBus()
	if err := b.Open(c.bus); err != nil {
		return fmt.Errorf("open bus %d: %w", c.bus, err)
	}
	defer b.Close()

	if err := b.ForceSlaveAddress(c.addr); err != nil {
		return fmt.Errorf("address 0x%02x: %w", c.addr, err)
	}

	return fn(b)
}
