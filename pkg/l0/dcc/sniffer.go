package dcc

import (
	"context"
	"sync/atomic"
)

// PacketHandler is called when a packet is decoded from the wire.
type PacketHandler interface {
	HandlePacket(context.Context, *Packet)
}

// HandlePacketFunc is func type of PacketHandler.
type HandlePacketFunc func(context.Context, *Packet)

// HandlePacket implements PacketHandler.
func (f HandlePacketFunc) HandlePacket(ctx context.Context, pkt *Packet) {
	f(ctx, pkt)
}

// Sniffer decodes the transmitted bitstream. TapBit runs on the
// transmitter goroutine and only hands decoded packets over a buffered
// channel; Run delivers them to Handler. Packets are dropped when
// Handler falls behind.
type Sniffer struct {
	Handler PacketHandler
	// SkipRepeats suppresses a packet identical to the previous one.
	SkipRepeats bool

	parser  Parser
	last    Packet
	pktCh   chan Packet
	dropped atomic.Uint64
	errors  atomic.Uint64
}

// NewSniffer creates a Sniffer.
func NewSniffer(h PacketHandler) *Sniffer {
	return &Sniffer{Handler: h, pktCh: make(chan Packet, 64)}
}

// Name implements framework.Named.
func (s *Sniffer) Name() string {
	return "dcc-sniffer"
}

// TapBit implements BitTap.
func (s *Sniffer) TapBit(one bool) {
	pr := s.parser.Parse(one)
	if pr.Err != nil {
		s.errors.Add(1)
		return
	}
	if pr.Packet == nil {
		return
	}
	if s.SkipRepeats && *pr.Packet == s.last {
		return
	}
	s.last = *pr.Packet
	select {
	case s.pktCh <- *pr.Packet:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of packets lost because Handler was slow.
func (s *Sniffer) Dropped() uint64 {
	return s.dropped.Load()
}

// Errors returns the number of framing or checksum errors seen.
func (s *Sniffer) Errors() uint64 {
	return s.errors.Load()
}

// Run implements Runnable.
func (s *Sniffer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pkt := <-s.pktCh:
			if h := s.Handler; h != nil {
				h.HandlePacket(ctx, &pkt)
			}
		}
	}
}
