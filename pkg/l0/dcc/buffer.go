package dcc

import (
	"sync/atomic"
)

// Buffer is the transmit buffer shared by the packet encoder (producer)
// and a transmitter (consumer).
//
// The producer owns one of two slots. It writes that slot only after a
// successful Claim and makes it visible with Publish. The consumer picks
// up the latest published slot when it refreshes its private copy, then
// marks the buffer free again. Because free only turns true after the
// copy, the producer can never write the slot being copied.
type Buffer struct {
	// Notify is called whenever the buffer turns free or a tick is
	// raised. It runs on the transmitter goroutine and must not block.
	Notify func()

	free         atomic.Bool
	published    atomic.Int32 // slot index + 1, 0 when nothing new
	longPreamble atomic.Bool
	tick         atomic.Bool
	milliTick    atomic.Bool
	trackPower   atomic.Bool

	slots [2]Packet
	slot  int // producer's slot, touched by producer only
}

// NewBuffer creates a Buffer preloaded with the idle packet.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.slots[0] = IdlePacket
	b.published.Store(1)
	b.slot = 1
	return b
}

// Free reports whether the producer may claim the buffer.
func (b *Buffer) Free() bool {
	return b.free.Load()
}

// Claim takes the buffer for writing one packet. It fails if the
// transmitter has not yet picked up the previous packet.
func (b *Buffer) Claim() bool {
	return b.free.CompareAndSwap(true, false)
}

// Publish hands a packet to the transmitter. It must only be called
// after a successful Claim.
func (b *Buffer) Publish(p Packet) {
	if p.Len > MaxPacketLen {
		p.Len = MaxPacketLen
	}
	n := b.slot
	b.slots[n] = p
	b.longPreamble.Store(p.LongPreamble)
	b.published.Store(int32(n + 1))
	b.slot = n ^ 1
}

// TakeTick consumes the 10ms scheduling tick.
func (b *Buffer) TakeTick() bool {
	return b.tick.Swap(false)
}

// TakeMilliTick consumes the 1ms sampling tick. The station does not
// use it yet; ACK capture runs off the 10ms tick.
func (b *Buffer) TakeMilliTick() bool {
	return b.milliTick.Swap(false)
}

// SetTrackPower sets the requested state of the track power output.
// The transmitter applies it on the next 10ms boundary.
func (b *Buffer) SetTrackPower(on bool) {
	b.trackPower.Store(on)
}

// TrackPower returns the requested track power state.
func (b *Buffer) TrackPower() bool {
	return b.trackPower.Load()
}

// consumer side

func (b *Buffer) lockOut() {
	b.free.Store(false)
}

func (b *Buffer) nextLongPreamble() bool {
	return b.longPreamble.Load()
}

// Take returns the latest published packet, if any, and marks the
// buffer free. It is the consumer side for packet sinks which do not
// drive the track, e.g. test harnesses and replay tools.
func (b *Buffer) Take() (p Packet, ok bool) {
	if n := b.published.Swap(0); n != 0 {
		p, ok = b.slots[n-1], true
	}
	b.free.Store(true)
	b.notify()
	return
}

// refresh copies the latest published packet into dst, if any, and
// marks the buffer free.
func (b *Buffer) refresh(dst *Packet) bool {
	p, ok := b.Take()
	if ok {
		*dst = p
	}
	return ok
}

func (b *Buffer) raiseTick() {
	b.tick.Store(true)
	b.notify()
}

func (b *Buffer) raiseMilliTick() {
	b.milliTick.Store(true)
}

func (b *Buffer) notify() {
	if fn := b.Notify; fn != nil {
		fn()
	}
}
