// internal/writer/ingest/packet.go
package ingest

import (
	"encoding/binary"
	"fmt"
)

// Raw Ingest v1 framing.
//
// 0-1  magic "RI"
// 2    version
// 3    area (1 coils, 2 discrete inputs, 3 holding, 4 input)
// 4-5  unit id
// 6-7  start address
// 8-9  count
// 10+  payload (bits LSB-first, registers big-endian)
const (
	magic     = "RI"
	versionV1 = 0x01
	headerLen = 10

	// One packet must fit a single Modbus-sized write.
	maxBits      = 1968
	maxRegisters = 123
)

const (
	respOK       byte = 0x00
	respRejected byte = 0x01
)

func isBitArea(area byte) bool      { return area == 1 || area == 2 }
func isRegisterArea(area byte) bool { return area == 3 || area == 4 }

func bitsPacket(area byte, unitID uint8, addr uint16, bits []bool) ([]byte, error) {
	if !isBitArea(area) {
		return nil, fmt.Errorf("writer ingest: area %d is not a bit area", area)
	}
	if len(bits) == 0 || len(bits) > maxBits {
		return nil, fmt.Errorf("writer ingest: bit count %d out of range", len(bits))
	}

	payload := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			payload[i/8] |= 1 << uint(i%8)
		}
	}
	return frame(area, unitID, addr, uint16(len(bits)), payload), nil
}

func registersPacket(area byte, unitID uint8, addr uint16, regs []uint16) ([]byte, error) {
	if !isRegisterArea(area) {
		return nil, fmt.Errorf("writer ingest: area %d is not a register area", area)
	}
	if len(regs) == 0 || len(regs) > maxRegisters {
		return nil, fmt.Errorf("writer ingest: register count %d out of range", len(regs))
	}

	payload := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(payload[2*i:], r)
	}
	return frame(area, unitID, addr, uint16(len(regs)), payload), nil
}

func frame(area byte, unitID uint8, addr, count uint16, payload []byte) []byte {
	pkt := make([]byte, headerLen, headerLen+len(payload))
	copy(pkt, magic)
	pkt[2] = versionV1
	pkt[3] = area
	binary.BigEndian.PutUint16(pkt[4:], uint16(unitID))
	binary.BigEndian.PutUint16(pkt[6:], addr)
	binary.BigEndian.PutUint16(pkt[8:], count)
	return append(pkt, payload...)
}
