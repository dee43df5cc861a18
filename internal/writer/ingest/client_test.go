// internal/writer/ingest/client_test.go
package ingest

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistersPacket(t *testing.T) {
	pkt, err := registersPacket(3, 7, 0x0102, []uint16{0xABCD, 0x0001})
	require.NoError(t, err)

	assert.Equal(t, []byte{
		'R', 'I', 0x01, 0x03,
		0x00, 0x07,
		0x01, 0x02,
		0x00, 0x02,
		0xAB, 0xCD, 0x00, 0x01,
	}, pkt)
}

func TestBitsPacket(t *testing.T) {
	bits := []bool{true, false, true, false, false, false, false, false, true}
	pkt, err := bitsPacket(1, 1, 8, bits)
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), pkt[3])
	assert.Equal(t, []byte{0x00, 0x09}, pkt[8:10])
	assert.Equal(t, []byte{0x05, 0x01}, pkt[headerLen:])
}

func TestPacketRejectsBadInput(t *testing.T) {
	_, err := bitsPacket(3, 1, 0, []bool{true})
	assert.Error(t, err)

	_, err = registersPacket(1, 1, 0, []uint16{1})
	assert.Error(t, err)

	_, err = registersPacket(3, 1, 0, nil)
	assert.Error(t, err)

	_, err = registersPacket(3, 1, 0, make([]uint16, maxRegisters+1))
	assert.Error(t, err)
}

// serveOnce accepts one connection, captures the packet and answers with resp.
func serveOnce(t *testing.T, resp byte, want int) (string, <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, want)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		got <- buf
		_, _ = conn.Write([]byte{resp})
	}()

	return ln.Addr().String(), got
}

func TestWriteRegistersRoundTrip(t *testing.T) {
	addr, got := serveOnce(t, respOK, headerLen+4)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	require.NoError(t, err)

	require.NoError(t, c.WriteRegisters(3, 2, 100, []uint16{5000, 3000}))

	pkt := <-got
	assert.Equal(t, []byte{0x13, 0x88, 0x0B, 0xB8}, pkt[headerLen:])
}

func TestWriteRejected(t *testing.T) {
	addr, _ := serveOnce(t, respRejected, headerLen+1)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	require.NoError(t, err)

	err = c.WriteBits(1, 1, 0, []bool{true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestNewEndpointClientDefaults(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	require.Error(t, err)

	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:1"})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.timeout)
}
