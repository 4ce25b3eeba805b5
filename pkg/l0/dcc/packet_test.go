package dcc

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketSeal(t *testing.T) {
	testCases := []struct {
		name   string
		packet Packet
		expect []byte
	}{
		{"idle", IdlePacket, []byte{0xff, 0x00, 0xff}},
		{"reset", ResetPacket, []byte{0x00, 0x00, 0x00}},
		{"estop", EStopPacket, []byte{0x00, 0x41, 0x41}},
		{"short speed", NewPacket(0x03, 0x69), []byte{0x03, 0x69, 0x6a}},
		{"long speed", NewPacket(0xc4, 0xd2, 0x3f, 0x85), []byte{0xc4, 0xd2, 0x3f, 0x85, 0xc4 ^ 0xd2 ^ 0x3f ^ 0x85}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.packet.Bytes())
			require.True(t, tc.packet.Valid())
		})
	}
}

func TestPacketAppendLimit(t *testing.T) {
	var p Packet
	p.Append(1, 2, 3, 4, 5, 6, 7, 8)
	require.Equal(t, MaxPacketLen, p.Len)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, p.Bytes())
	require.False(t, p.Valid())
}

func TestAddress(t *testing.T) {
	testCases := []struct {
		name   string
		addr   uint16
		long   bool
		expect []byte
	}{
		{"short 3", 3, false, []byte{0x03}},
		{"short 127", 127, false, []byte{0x7f}},
		{"long 1234", 1234, true, []byte{0xc4, 0xd2}},
		{"long 10239", 10239, true, []byte{0xe7, 0xff}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p Packet
			p.AppendAddress(tc.addr, tc.long)
			require.Equal(t, tc.expect, p.Bytes())
		})
	}
}

func TestSpeed28(t *testing.T) {
	require.Equal(t, byte(0), Speed28(0))
	// NMRA table: step 1 = 0 0010, step 2 = 1 0010, step 28 = 1 1111
	require.Equal(t, byte(0x02), Speed28(1))
	require.Equal(t, byte(0x12), Speed28(2))
	require.Equal(t, byte(0x1f), Speed28(28))
	// 15+3 = 18 = 10010b, bit 0 clear, >>1 = 01001b
	require.Equal(t, byte(0x09), Speed28(15))
	for step := uint8(1); step <= 28; step++ {
		code := Speed28(step)
		require.True(t, code >= 0x02, "step %d must not map to stop/estop", step)
		require.Equal(t, byte(0), code&0xe0)
	}
}

func TestSpeed128(t *testing.T) {
	require.Equal(t, byte(0), Speed128(0))
	for step := uint8(1); step <= 126; step++ {
		require.Equal(t, (step+1)&0x7f, Speed128(step))
	}
}

func TestFunctionGroup(t *testing.T) {
	testCases := []struct {
		name   string
		group  int
		fn     uint16
		expect byte
	}{
		{"all off", FunctionGroupF0F4, 0, 0x80},
		{"F0 light", FunctionGroupF0F4, 0x0001, 0x90},
		{"F1", FunctionGroupF0F4, 0x0002, 0x81},
		{"F0-F4", FunctionGroupF0F4, 0x001f, 0x9f},
		{"F5", FunctionGroupF5F8, 0x0020, 0xb1},
		{"F5-F8", FunctionGroupF5F8, 0x01e0, 0xbf},
		{"F9", FunctionGroupF9F12, 0x0200, 0xa1},
		{"F9-F12", FunctionGroupF9F12, 0x1e00, 0xaf},
		{"F9-F12 ignores others", FunctionGroupF9F12, 0x01ff, 0xa0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, FunctionGroup(tc.group, tc.fn))
		})
	}
}

func TestAccessoryPacket(t *testing.T) {
	testCases := []struct {
		name   string
		addr   uint16
		thrown bool
		expect []byte
	}{
		// a=8: d0=0x82, d1=(0|0)^0x70|0x88=0xf8, +1 thrown
		{"5 thrown", 5, true, []byte{0x82, 0xf9, 0x82 ^ 0xf9}},
		{"5 closed", 5, false, []byte{0x82, 0xf8, 0x82 ^ 0xf8}},
		// a=4: d0=0x81, d1=0x70|0x88=0xf8
		{"1 closed", 1, false, []byte{0x81, 0xf8, 0x81 ^ 0xf8}},
		// a=2044+3=0x7ff: d0=(0x1ff&0x3f)|0x80=0xbf,
		// d1=(0xffe&0x06)|(0x7f&0x70)=0x76, ^0x70=0x06, |0x88=0x8e
		{"2044 closed", 2044, false, []byte{0xbf, 0x8e, 0xbf ^ 0x8e}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := AccessoryPacket(tc.addr, tc.thrown)
			require.Equal(t, tc.expect, p.Bytes())
			require.True(t, p.Valid())
		})
	}
}

func TestAccessoryAddressPOM(t *testing.T) {
	var p Packet
	p.AppendAccessoryAddress(5)
	// (5>>3)&0x3f|0x80 = 0x80, (^(5>>4))&0x70|0x80 = 0xf0
	require.Equal(t, []byte{0x80, 0xf0}, p.Bytes())
}

func TestPacketBits(t *testing.T) {
	p := NewPacket(0x03, 0x69)
	bits := p.Bits()
	require.Len(t, bits, ShortPreambleBits-1+3*9+1)
	for i := 0; i < ShortPreambleBits-1; i++ {
		require.True(t, bits[i])
	}
	require.False(t, bits[ShortPreambleBits-1])
	require.True(t, bits[len(bits)-1])

	p.LongPreamble = true
	require.Len(t, p.Bits(), LongPreambleBits-1+3*9+1)
}

func TestValidateAddress(t *testing.T) {
	require.NoError(t, ValidateAddress(3, false))
	require.NoError(t, ValidateAddress(10239, true))
	require.Error(t, ValidateAddress(0, false))
	require.Error(t, ValidateAddress(128, false))
	require.Error(t, ValidateAddress(10240, true))
}

func TestValidateAccessoryAddress(t *testing.T) {
	testCases := []struct {
		addr int
		err  string
	}{
		{1, ""},
		{2044, ""},
		{0, "invalid accessory address 0"},
		{2045, "invalid accessory address 2045"},
		{2047, "invalid accessory address 2047"},
		{2048, "invalid accessory address 2048"},
	}
	for _, tc := range testCases {
		t.Run(strconv.Itoa(tc.addr), func(t *testing.T) {
			err := ValidateAccessoryAddress(tc.addr)
			if tc.err == "" {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, tc.err)
			}
		})
	}
}

func TestPacketString(t *testing.T) {
	require.Equal(t, "ff 00 ff", IdlePacket.String())
	p := ResetPacket
	p.LongPreamble = true
	require.Equal(t, "00 00 00 (long)", p.String())
}
