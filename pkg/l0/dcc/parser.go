package dcc

// MinPreambleBits is the number of one-bits a receiver needs before it
// accepts a packet start.
const MinPreambleBits = 10

// Parser decodes a DCC bitstream back into packets.
type Parser struct {
	state  parseState
	ones   int
	cur    byte
	nbits  int
	packet Packet
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	Packet *Packet
	Err    error
}

type parseState int

const (
	statePreamble  parseState = iota // counting preamble one-bits
	stateData                        // collecting 8 data bits
	stateSeparator                   // 0 starts another byte, 1 ends the packet
)

// Synced indicates a packet start has been seen and bytes are being
// collected.
func (p *Parser) Synced() bool {
	return p.state != statePreamble
}

// Reset drops any partial packet.
func (p *Parser) Reset() {
	p.state, p.ones, p.nbits = statePreamble, 0, 0
	p.packet = Packet{}
}

// Parse consumes one bit.
func (p *Parser) Parse(one bool) (pr ParseResult) {
	switch p.state {
	case statePreamble:
		if one {
			p.ones++
			return
		}
		if p.ones >= MinPreambleBits {
			p.packet = Packet{LongPreamble: p.ones >= LongPreambleBits}
			p.state, p.cur, p.nbits = stateData, 0, 0
		}
		p.ones = 0
	case stateData:
		p.cur <<= 1
		if one {
			p.cur |= 1
		}
		if p.nbits++; p.nbits == 8 {
			if p.packet.Len >= MaxPacketLen {
				pr.Err = ErrPacketTooLong
				p.resync(false)
				return
			}
			p.packet.Append(p.cur)
			p.state = stateSeparator
		}
	case stateSeparator:
		if !one {
			p.state, p.cur, p.nbits = stateData, 0, 0
			return
		}
		return p.packetReady()
	}
	return
}

// ParseBits consumes a sequence of bits and returns all packets and
// errors found.
func (p *Parser) ParseBits(bits []bool) (pkts []Packet, errs []error) {
	for _, b := range bits {
		pr := p.Parse(b)
		if pr.Packet != nil {
			pkts = append(pkts, *pr.Packet)
		}
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
	}
	return
}

func (p *Parser) resync(stopBit bool) {
	p.state, p.nbits = statePreamble, 0
	if stopBit {
		// the stop bit doubles as the first preamble bit
		p.ones = 1
	} else {
		p.ones = 0
	}
}

func (p *Parser) packetReady() (pr ParseResult) {
	p.resync(true)
	pkt := p.packet
	switch {
	case pkt.Len < 3:
		pr.Err = ErrShortPacket
	case !pkt.Valid():
		pr.Err = ErrChecksum
	default:
		pr.Packet = &pkt
	}
	return
}
