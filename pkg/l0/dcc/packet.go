package dcc

import (
	"fmt"
	"strings"
)

// MaxPacketLen is the longest packet: long address, 3-byte CV access
// instruction and checksum.
const MaxPacketLen = 6

// Preamble lengths in one-bits. The stop bit of the previous packet
// counts as the first preamble bit.
const (
	ShortPreambleBits = 14
	LongPreambleBits  = 24
)

// Address limits. Accessory addresses above 2044 would need a twelfth
// bit once offset by 3.
const (
	MaxShortAddress     = 127
	MaxLongAddress      = 10239
	MaxAccessoryAddress = 2044
)

// Packet is a DCC packet including its trailing checksum byte.
type Packet struct {
	Data         [MaxPacketLen]byte
	Len          int
	LongPreamble bool
}

var (
	// IdlePacket keeps decoders synchronized when nothing else is sent.
	IdlePacket = Packet{Data: [MaxPacketLen]byte{0xff, 0x00, 0xff}, Len: 3}
	// ResetPacket is the digital decoder reset, used to bracket
	// service mode instructions.
	ResetPacket = Packet{Len: 3}
	// EStopPacket is the broadcast emergency stop.
	EStopPacket = Packet{Data: [MaxPacketLen]byte{0x00, 0x41, 0x41}, Len: 3}
)

// Checksum calculates the XOR of all bytes.
func Checksum(b []byte) byte {
	var x byte
	for _, v := range b {
		x ^= v
	}
	return x
}

// NewPacket creates a packet from instruction bytes and seals it
// with the checksum.
func NewPacket(b ...byte) Packet {
	var p Packet
	p.Append(b...)
	p.Seal()
	return p
}

// Bytes returns the bytes on the wire.
func (p *Packet) Bytes() []byte {
	return p.Data[:p.Len]
}

// Append adds bytes, silently dropping anything beyond MaxPacketLen.
func (p *Packet) Append(b ...byte) *Packet {
	for _, v := range b {
		if p.Len >= MaxPacketLen {
			break
		}
		p.Data[p.Len] = v
		p.Len++
	}
	return p
}

// Seal appends the checksum of the current bytes.
func (p *Packet) Seal() *Packet {
	return p.Append(Checksum(p.Data[:p.Len]))
}

// Valid checks the length and the trailing checksum.
func (p *Packet) Valid() bool {
	if p.Len < 3 || p.Len > MaxPacketLen {
		return false
	}
	return p.Data[p.Len-1] == Checksum(p.Data[:p.Len-1])
}

// PreambleBits returns the number of one-bits preceding the packet.
func (p *Packet) PreambleBits() int {
	if p.LongPreamble {
		return LongPreambleBits
	}
	return ShortPreambleBits
}

// AppendAddress adds a multi-function decoder address.
// Short: 7 bits in one byte. Long: 14 bits across two bytes with the
// top two bits of the first byte set.
func (p *Packet) AppendAddress(addr uint16, long bool) *Packet {
	if long {
		return p.Append(byte(addr>>8)|0xc0, byte(addr))
	}
	return p.Append(byte(addr & 0x7f))
}

// AppendAccessoryAddress adds the two address bytes used for
// program-on-main to an accessory decoder.
func (p *Packet) AppendAccessoryAddress(addr uint16) *Packet {
	return p.Append(byte((addr>>3)&0x3f)|0x80, byte((^(addr>>4))&0x70)|0x80)
}

// Bits renders the framed bitstream: preamble, a 0 before each byte,
// the bytes MSB first and the 1 stop bit.
func (p *Packet) Bits() []bool {
	n := p.PreambleBits() - 1
	bits := make([]bool, 0, n+p.Len*9+1)
	for i := 0; i < n; i++ {
		bits = append(bits, true)
	}
	for _, b := range p.Bytes() {
		bits = append(bits, false)
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<uint(i)) != 0)
		}
	}
	return append(bits, true)
}

// String implements fmt.Stringer.
func (p Packet) String() string {
	var sb strings.Builder
	for n, b := range p.Bytes() {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	if p.LongPreamble {
		sb.WriteString(" (long)")
	}
	return sb.String()
}

// Speed28 converts a speed step 0-28 into the 5-bit 28-step code
// per S-9.2: add 3, keep 5 bits, move bit 0 to bit 5, shift right.
// Step 0 is the stop code.
func Speed28(step uint8) byte {
	if step == 0 {
		return 0
	}
	s := (step + 3) & 0x1f
	if s&0x01 != 0 {
		s |= 0x20
	}
	return s >> 1
}

// Speed128 converts a speed step 0-126 into the 7-bit code of the
// 128-step instruction. Code 1 is emergency stop, so steps shift by one.
func Speed128(step uint8) byte {
	if step == 0 {
		return 0
	}
	return (step + 1) & 0x7f
}

// Speed and direction instruction bits.
const (
	Speed28Instruction  byte = 0x40
	Speed28Forward      byte = 0x20
	Speed128Instruction byte = 0x3f
	Speed128Forward     byte = 0x80
	EStopCode           byte = 0x01
)

// Function groups of S-9.2.1. The function mask holds F0 in bit 0,
// F1 in bit 1 and so on.
const (
	FunctionGroupF0F4 = iota
	FunctionGroupF5F8
	FunctionGroupF9F12
	FunctionGroups
)

// FunctionGroup builds the instruction byte of a function group.
func FunctionGroup(group int, fn uint16) byte {
	switch group {
	case FunctionGroupF5F8:
		return byte((fn>>5)&0x0f) | 0xb0
	case FunctionGroupF9F12:
		return byte((fn>>9)&0x0f) | 0xa0
	}
	f := byte(fn & 0x1f)
	if f&0x01 != 0 {
		f |= 0x20
	}
	return (f >> 1) | 0x80
}

// AccessoryPacket builds the basic accessory packet. The turnout
// address space is offset by 3 from the raw 11-bit field, and the upper
// three address bits travel in ones-complement in the second byte.
func AccessoryPacket(addr uint16, thrown bool) Packet {
	a := addr + 3
	d0 := byte((a>>2)&0x3f) | 0x80
	d1 := byte((a<<1)&0x06) | byte((a>>4)&0x70)
	d1 ^= 0x70
	d1 |= 0x88
	if thrown {
		d1++
	}
	return NewPacket(d0, d1)
}
