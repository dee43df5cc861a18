// internal/pd/rdo_test.go
package pd

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_FixedEndToEnd(t *testing.T) {
	list, err := DecodeCapabilities(fixed5V1A[:], 1)
	require.NoError(t, err)

	raw, err := list.Request(1, OperatingPoint{CurrentMA: 500})
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x32, 0xC8, 0x00, 0x10}, raw)

	w := binary.LittleEndian.Uint32(raw[:])
	assert.Equal(t, uint32(50), field(w, fixedRDOOpCurrentShift, 10))
	assert.Equal(t, uint32(1), field(w, rdoPositionShift, rdoPositionWidth))

	r, err := list.DecodeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, FixedRequest{Position: 1, MaxCurrentMA: 500, OperatingCurrentMA: 500}, r)
}

func TestRequest_PPS(t *testing.T) {
	list := CapabilityList{
		FixedCapability{MaxCurrentMA: 3000, VoltageMV: 5000},
		PPSCapability{MaxCurrentMA: 3000, MinVoltageMV: 3300, MaxVoltageMV: 11000},
	}

	raw, err := list.Request(2, OperatingPoint{CurrentMA: 2000, VoltageMV: 9000})
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x28, 0x84, 0x03, 0x20}, raw)

	r, err := list.DecodeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, SupplyPPS, r.Supply())
	assert.Equal(t, PPSRequest{Position: 2, OperatingCurrentMA: 2000, VoltageMV: 9000}, r)
}

func TestRequest_FixedMaxCurrent(t *testing.T) {
	entry := FixedCapability{MaxCurrentMA: 3000, VoltageMV: 9000}

	raw, err := EncodeRequest(entry, 3, OperatingPoint{CurrentMA: 1500, MaxCurrentMA: 2000, VoltageMV: 9000})
	require.NoError(t, err)

	r, err := DecodeRequest(raw, SupplyFixed)
	require.NoError(t, err)
	assert.Equal(t, FixedRequest{Position: 3, MaxCurrentMA: 2000, OperatingCurrentMA: 1500}, r)
}

func TestRequest_Errors(t *testing.T) {
	fixed := FixedCapability{MaxCurrentMA: 1000, VoltageMV: 5000}
	pps := PPSCapability{MaxCurrentMA: 3000, MinVoltageMV: 3300, MaxVoltageMV: 11000}

	tests := []struct {
		name  string
		entry CapabilityEntry
		pos   int
		op    OperatingPoint
		want  error
	}{
		{"fixed current above max", fixed, 1, OperatingPoint{CurrentMA: 1500}, ErrValueOutOfRange},
		{"fixed current off step", fixed, 1, OperatingPoint{CurrentMA: 505}, ErrNotExactStep},
		{"fixed wrong voltage", fixed, 1, OperatingPoint{CurrentMA: 500, VoltageMV: 9000}, ErrValueOutOfRange},
		{"fixed op above requested max", fixed, 1, OperatingPoint{CurrentMA: 800, MaxCurrentMA: 500}, ErrValueOutOfRange},
		{"pps current above max", pps, 1, OperatingPoint{CurrentMA: 3050, VoltageMV: 5000}, ErrValueOutOfRange},
		{"pps current off step", pps, 1, OperatingPoint{CurrentMA: 1010, VoltageMV: 5000}, ErrNotExactStep},
		{"pps voltage below band", pps, 1, OperatingPoint{CurrentMA: 1000, VoltageMV: 3280}, ErrValueOutOfRange},
		{"pps voltage above band", pps, 1, OperatingPoint{CurrentMA: 1000, VoltageMV: 11020}, ErrValueOutOfRange},
		{"pps voltage missing", pps, 1, OperatingPoint{CurrentMA: 1000}, ErrValueOutOfRange},
		{"pps max current given", pps, 1, OperatingPoint{CurrentMA: 1000, MaxCurrentMA: 2000, VoltageMV: 5000}, ErrValueOutOfRange},
		{"pps voltage off step", pps, 1, OperatingPoint{CurrentMA: 1000, VoltageMV: 9010}, ErrNotExactStep},
		{"position zero", fixed, 0, OperatingPoint{CurrentMA: 500}, ErrPositionOutOfBounds},
		{"position beyond 3 bits", fixed, 8, OperatingPoint{CurrentMA: 500}, ErrPositionOutOfBounds},
		{"nil entry", nil, 1, OperatingPoint{}, ErrUnrecognizedVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodeRequest(tt.entry, tt.pos, tt.op)
			assert.Equal(t, [4]byte{}, raw)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCapabilityList_RequestPositionOutOfBounds(t *testing.T) {
	list := CapabilityList{FixedCapability{MaxCurrentMA: 1000, VoltageMV: 5000}}

	_, err := list.Request(2, OperatingPoint{CurrentMA: 500})
	assert.True(t, errors.Is(err, ErrPositionOutOfBounds), "got %v", err)

	// RDO pointing at position 3 of a one-entry list
	_, err = list.DecodeRequest(wordBytes(3 << rdoPositionShift))
	assert.True(t, errors.Is(err, ErrPositionOutOfBounds), "got %v", err)
}

func TestDecodeRequest_Errors(t *testing.T) {
	_, err := DecodeRequest(wordBytes(50), SupplyFixed)
	assert.True(t, errors.Is(err, ErrPositionOutOfBounds), "got %v", err)

	_, err = DecodeRequest(wordBytes(1<<rdoPositionShift), Supply(9))
	assert.True(t, errors.Is(err, ErrUnrecognizedVariant), "got %v", err)
}

func TestRequest_ReservedBitsIgnored(t *testing.T) {
	// fixed: reserved 20-27 and 31
	w := uint32(1)<<31 | 0xFF<<20 | 2<<rdoPositionShift | 50<<10 | 60
	r, err := DecodeRequest(wordBytes(w), SupplyFixed)
	require.NoError(t, err)
	assert.Equal(t, FixedRequest{Position: 2, MaxCurrentMA: 600, OperatingCurrentMA: 500}, r)

	// pps: reserved 7-8
	w = 2<<rdoPositionShift | 450<<9 | 0b11<<7 | 40
	r, err = DecodeRequest(wordBytes(w), SupplyPPS)
	require.NoError(t, err)
	assert.Equal(t, PPSRequest{Position: 2, OperatingCurrentMA: 2000, VoltageMV: 9000}, r)
}

func TestRequestEntry_RoundTrip(t *testing.T) {
	for pos := uint32(1); pos <= MaxCapabilities; pos++ {
		for op := uint32(0); op < 1<<10; op += 37 {
			for maxCur := uint32(0); maxCur < 1<<10; maxCur += 41 {
				raw := wordBytes(pos<<28 | op<<10 | maxCur)

				r, err := DecodeRequest(raw, SupplyFixed)
				require.NoError(t, err)
				got, err := EncodeRequestEntry(r)
				require.NoError(t, err)
				require.Equal(t, raw, got, "fixed pos=%d op=%d max=%d", pos, op, maxCur)
			}
		}

		for op := uint32(0); op < 1<<7; op += 5 {
			for volt := uint32(0); volt < 1<<11; volt += 53 {
				raw := wordBytes(pos<<28 | volt<<9 | op)

				r, err := DecodeRequest(raw, SupplyPPS)
				require.NoError(t, err)
				got, err := EncodeRequestEntry(r)
				require.NoError(t, err)
				require.Equal(t, raw, got, "pps pos=%d op=%d volt=%d", pos, op, volt)
			}
		}
	}
}

func TestEncodeRequestEntry_Errors(t *testing.T) {
	_, err := EncodeRequestEntry(nil)
	assert.True(t, errors.Is(err, ErrUnrecognizedVariant), "got %v", err)

	_, err = EncodeRequestEntry(FixedRequest{Position: 1, MaxCurrentMA: 10240, OperatingCurrentMA: 10})
	assert.True(t, errors.Is(err, ErrValueOutOfRange), "got %v", err)

	_, err = EncodeRequestEntry(PPSRequest{Position: 1, OperatingCurrentMA: 100, VoltageMV: 5010})
	assert.True(t, errors.Is(err, ErrNotExactStep), "got %v", err)
}
