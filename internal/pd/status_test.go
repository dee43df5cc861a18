// internal/pd/status_test.go
package pd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatus_ReadyAndDataRole(t *testing.T) {
	s := DecodeStatus([4]byte{0b10000001, 50, 10, 45})

	assert.Equal(t, StatusWord{Ready: true, DataRole: true}, s.StatusWord)
	assert.Equal(t, uint32(4000), s.VoltageMV)
	assert.Equal(t, uint32(240), s.CurrentMA)
	assert.Equal(t, uint32(45), s.TemperatureC)
}

func TestDecodeStatusWord_EachBit(t *testing.T) {
	tests := []struct {
		bit  uint
		want StatusWord
	}{
		{0, StatusWord{Ready: true}},
		{1, StatusWord{Success: true}},
		{2, StatusWord{NewCapabilities: true}},
		{3, StatusWord{}}, // reserved
		{4, StatusWord{OVP: true}},
		{5, StatusWord{OCP: true}},
		{6, StatusWord{OTP: true}},
		{7, StatusWord{DataRole: true}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeStatusWord(1<<tt.bit), "bit %d", tt.bit)
	}
}

func TestStatusWord_ByteDropsReserved(t *testing.T) {
	assert.Equal(t, byte(0xF7), DecodeStatusWord(0xFF).Byte())
	assert.Equal(t, byte(0x00), DecodeStatusWord(0x08).Byte())
	assert.True(t, DecodeStatusWord(0x20).Protected())
	assert.False(t, DecodeStatusWord(0x87).Protected())
}

func TestDecodeMeasurementRegisters(t *testing.T) {
	assert.Equal(t, uint32(20400), DecodeVoltage(255))
	assert.Equal(t, uint32(6120), DecodeCurrent(255))
	assert.Equal(t, uint32(25), DecodeTemperature(25))
}

func TestDecodeCapabilityCount(t *testing.T) {
	n, err := DecodeCapabilityCount(5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = DecodeCapabilityCount(8)
	assert.True(t, errors.Is(err, ErrValueOutOfRange), "got %v", err)
}
