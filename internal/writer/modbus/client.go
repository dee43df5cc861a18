// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

const (
	areaCoils            byte = 1
	areaHoldingRegisters byte = 3
)

// handler is what both goburrow TCP and RTU handlers offer besides framing.
type handler interface {
	modbus.ClientHandler
	Connect() error
	io.Closer
}

// EndpointClient is one Modbus connection (TCP or RTU) to one endpoint.
// It serializes requests because it mutates the slave id per write.
type EndpointClient struct {
	mu       sync.Mutex
	handler  handler
	setSlave func(uint8)
	client   modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// RTUConfig describes a serial line. Frame is fixed at 8N1.
type RTUConfig struct {
	Device   string
	BaudRate int
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	return connect(h, func(id uint8) { h.SlaveId = id })
}

func NewRTUEndpointClient(cfg RTUConfig) (*EndpointClient, error) {
	if cfg.Device == "" {
		return nil, errors.New("writer modbus rtu: device required")
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("writer modbus rtu: invalid baud rate %d", cfg.BaudRate)
	}

	h := modbus.NewRTUClientHandler(cfg.Device)
	h.BaudRate = cfg.BaudRate
	h.DataBits = 8
	h.Parity = "N"
	h.StopBits = 1
	h.Timeout = cfg.Timeout

	return connect(h, func(id uint8) { h.SlaveId = id })
}

func connect(h handler, setSlave func(uint8)) (*EndpointClient, error) {
	if err := h.Connect(); err != nil {
		return nil, err
	}
	return &EndpointClient{
		handler:  h,
		setSlave: setSlave,
		client:   modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteBits writes coils. Discrete inputs are read-only over Modbus.
func (c *EndpointClient) WriteBits(area byte, unitID uint8, addr uint16, bits []bool) error {
	if area != areaCoils {
		return fmt.Errorf("writer modbus: area %d not writable as bits", area)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	_, err := c.client.WriteMultipleCoils(addr, uint16(len(bits)), packBits(bits))
	return err
}

// WriteRegisters writes holding registers. Input registers are read-only over Modbus.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if area != areaHoldingRegisters {
		return fmt.Errorf("writer modbus: area %d not writable as registers", area)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

// LSB of the first byte is the first coil.
func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
