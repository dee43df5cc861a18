// internal/writer/ingest/client.go
package ingest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const defaultTimeout = 2 * time.Second

// EndpointClient speaks Raw Ingest v1. Stateless: one packet, one connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &EndpointClient{endpoint: cfg.Endpoint, timeout: cfg.Timeout}, nil
}

func (c *EndpointClient) Close() error { return nil }

func (c *EndpointClient) WriteBits(area byte, unitID uint8, addr uint16, bits []bool) error {
	pkt, err := bitsPacket(area, unitID, addr, bits)
	if err != nil {
		return err
	}
	return c.send(pkt)
}

func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	pkt, err := registersPacket(area, unitID, addr, regs)
	if err != nil {
		return err
	}
	return c.send(pkt)
}

func (c *EndpointClient) send(pkt []byte) error {
	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial %s: %w", c.endpoint, err)
	}
	defer conn.Close()

	// One deadline covers the whole exchange.
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return errors.New("writer ingest: rejected")
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}
