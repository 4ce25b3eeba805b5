package station

import (
	"fmt"
	"strconv"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

// POMRepeats is how many times a program on main instruction is sent.
// Decoders act on two identical packets in a row.
const POMRepeats = 4

// AddressKind is the kind of decoder a POM request targets.
type AddressKind int

// Address kinds.
const (
	ShortAddress AddressKind = iota
	LongAddress
	AccessoryAddress
)

// POMPhase is the state of the program on main state machine.
type POMPhase int

// POM phases. POMByte and POMBit are idle, holding the last edit.
const (
	POMByte POMPhase = iota
	POMBit
	POMByteWrite
	POMBitWrite
)

func (p POMPhase) String() string {
	switch p {
	case POMByte:
		return "POM_BYTE"
	case POMBit:
		return "POM_BIT"
	case POMByteWrite:
		return "POM_BYTE_WRITE"
	case POMBitWrite:
		return "POM_BIT_WRITE"
	}
	return fmt.Sprintf("POMPhase(%d)", int(p))
}

// POMState is a program on main request.
type POMState struct {
	Phase   POMPhase
	Kind    AddressKind
	Address uint16
	Reg     uint16
	Data    uint8
	// BitPos and BitValue describe a single bit write.
	BitPos   uint8
	BitValue bool
	Count    int
	Timeout  int
}

// Pending indicates a write has been requested but not yet built.
func (p *POMState) Pending() bool {
	return p.Phase == POMByteWrite || p.Phase == POMBitWrite
}

// POMResult is the outcome of one POMStep.
type POMResult struct {
	POM POMState
	// Packet is the packet to send, nil to repeat the previous one.
	Packet *dcc.Packet
	// Done hands the transmit buffer back to the loco family.
	Done bool
}

// POMStep advances the program on main state machine by one claimed
// transmit buffer.
func POMStep(pom POMState) (r POMResult) {
	if pom.Count > 0 {
		pom.Count--
	}
	if pom.Count != 0 {
		r.POM = pom
		return
	}
	switch pom.Phase {
	case POMByteWrite:
		p := pom.addressPacket()
		hi, lo := cvAddress(pom.Reg)
		p.Append(0xec|hi, lo, pom.Data).Seal()
		r.Packet = &p
		pom.Phase, pom.Count = POMByte, POMRepeats
	case POMBitWrite:
		p := pom.addressPacket()
		hi, lo := cvAddress(pom.Reg)
		d := byte(0xf0) | pom.BitPos&0x07
		if pom.BitValue {
			d |= 0x08
		}
		p.Append(0xe8|hi, lo, d).Seal()
		r.Packet = &p
		pom.Phase, pom.Count = POMBit, POMRepeats
	default:
		r.Done = true
	}
	r.POM = pom
	return
}

func (pom *POMState) addressPacket() (p dcc.Packet) {
	if pom.Kind == AccessoryAddress {
		p.AppendAccessoryAddress(pom.Address)
	} else {
		p.AppendAddress(pom.Address, pom.Kind == LongAddress)
	}
	return
}

// ParsePOMCommand parses a program on main request. addr is L<n>,
// S<n> or A<n>; cv is 1..1024; val is B<n> (byte), S<n> (set bit n)
// or C<n> (clear bit n).
func ParsePOMCommand(addr string, cv int, val string) (pom POMState, err error) {
	if len(addr) < 2 {
		return pom, fmt.Errorf("%w: address %q", ErrInvalidPOM, addr)
	}
	n, err := strconv.Atoi(addr[1:])
	if err != nil {
		return pom, fmt.Errorf("%w: address %q", ErrInvalidPOM, addr)
	}
	switch addr[0] {
	case 'S':
		pom.Kind = ShortAddress
		err = dcc.ValidateAddress(n, false)
	case 'L':
		pom.Kind = LongAddress
		err = dcc.ValidateAddress(n, true)
	case 'A':
		pom.Kind = AccessoryAddress
		err = dcc.ValidateAccessoryAddress(n)
	default:
		err = fmt.Errorf("%w: address %q", ErrInvalidPOM, addr)
	}
	if err != nil {
		return
	}
	pom.Address = uint16(n)

	if cv < 1 || cv > MaxCV {
		return pom, fmt.Errorf("%w: CV %d", ErrInvalidPOM, cv)
	}
	pom.Reg = uint16(cv)

	if len(val) < 2 {
		return pom, fmt.Errorf("%w: value %q", ErrInvalidPOM, val)
	}
	v, err := strconv.Atoi(val[1:])
	if err != nil {
		return pom, fmt.Errorf("%w: value %q", ErrInvalidPOM, val)
	}
	switch val[0] {
	case 'B':
		if v < 0 || v > 255 {
			return pom, fmt.Errorf("%w: value %q", ErrInvalidPOM, val)
		}
		pom.Phase, pom.Data = POMByteWrite, uint8(v)
	case 'S', 'C':
		if v < 0 || v > 7 {
			return pom, fmt.Errorf("%w: bit %q", ErrInvalidPOM, val)
		}
		pom.Phase, pom.BitPos, pom.BitValue = POMBitWrite, uint8(v), val[0] == 'S'
	default:
		return pom, fmt.Errorf("%w: value %q", ErrInvalidPOM, val)
	}
	return pom, nil
}
