package dcc

import (
	"context"
	"runtime"
	"time"

	"github.com/golang/glog"
)

// Half-bit periods of the NMRA electrical encoding.
const (
	OneHalfPeriod  = 58 * time.Microsecond
	ZeroHalfPeriod = 116 * time.Microsecond
)

// Tick counting runs in units of OneHalfPeriod; a zero half counts twice.
const (
	ticksPerTick      = 172 // ~10ms
	ticksPerMilliTick = 17  // ~1ms
)

// Bit countdown positions.
const (
	countShortPreamble = 22
	countLongPreamble  = 32
	countLockOut       = 21
	countRefresh       = 9
	countByteStart     = 8
)

// DefaultQuantum is how much signal time Run emits between sleeps.
const DefaultQuantum = time.Millisecond

// Pins drives the track outputs.
type Pins interface {
	// SetSignal drives the antiphase signal pair.
	SetSignal(high bool)
	// SetPower drives the booster enable output.
	SetPower(on bool)
}

// BitTap observes every bit put on the wire.
type BitTap interface {
	TapBit(one bool)
}

// NopPins discards all output.
type NopPins struct{}

// SetSignal implements Pins.
func (NopPins) SetSignal(bool) {}

// SetPower implements Pins.
func (NopPins) SetPower(bool) {}

type halfBit int

const (
	oneHigh halfBit = iota
	oneLow
	zeroHigh
	zeroLow
)

// Transmitter emits the DCC signal one half-bit per Step.
type Transmitter struct {
	Buffer  *Buffer
	Pins    Pins
	Tap     BitTap
	Quantum time.Duration

	packet    Packet
	half      halfBit
	bitCount  int
	byteCount int
	ticks     int
	milli     int
	power     bool
}

// NewTransmitter creates a Transmitter that starts with a short preamble.
func NewTransmitter(buf *Buffer, pins Pins) *Transmitter {
	if pins == nil {
		pins = NopPins{}
	}
	return &Transmitter{
		Buffer:   buf,
		Pins:     pins,
		Quantum:  DefaultQuantum,
		half:     oneHigh,
		bitCount: countShortPreamble,
	}
}

// Name implements framework.Named.
func (t *Transmitter) Name() string {
	return "dcc-transmitter"
}

// Step performs one timer reload: it drives the pins for the half-bit
// queued by the previous Step and returns its period. During a low half
// it decides the next bit.
func (t *Transmitter) Step() time.Duration {
	var period time.Duration
	inc := 1
	switch t.half {
	case zeroHigh:
		period = ZeroHalfPeriod
		t.Pins.SetSignal(true)
		inc++
	case zeroLow:
		period = ZeroHalfPeriod
		t.Pins.SetSignal(false)
		inc++
	case oneHigh:
		period = OneHalfPeriod
		t.Pins.SetSignal(true)
	case oneLow:
		period = OneHalfPeriod
		t.Pins.SetSignal(false)
	}

	switch t.half {
	case zeroHigh:
		t.half = zeroLow
	case oneHigh:
		t.half = oneLow
	default:
		if t.Tap != nil {
			t.Tap.TapBit(t.half == oneLow)
		}
		t.queueNextBit()
	}

	t.countTicks(inc)
	return period
}

func (t *Transmitter) queueNextBit() {
	t.half = oneHigh
	if t.bitCount == countLockOut {
		t.Buffer.lockOut()
	}
	if t.bitCount == countRefresh {
		t.Buffer.refresh(&t.packet)
		t.byteCount = 0
	}
	if t.bitCount <= countByteStart {
		if t.bitCount == countByteStart {
			if t.byteCount >= t.packet.Len {
				// stop bit, then the preamble of the next packet
				if t.Buffer.nextLongPreamble() {
					t.bitCount = countLongPreamble
				} else {
					t.bitCount = countShortPreamble
				}
				t.byteCount = 0
			} else {
				t.half = zeroHigh
			}
		} else {
			if t.packet.Data[t.byteCount]&(1<<uint(t.bitCount)) == 0 {
				t.half = zeroHigh
			}
			if t.bitCount == 0 {
				t.byteCount++
				t.bitCount = countRefresh
			}
		}
	}
	t.bitCount--
}

func (t *Transmitter) countTicks(inc int) {
	t.milli += inc
	if t.milli >= ticksPerMilliTick {
		t.milli = 0
		t.Buffer.raiseMilliTick()
	}
	t.ticks += inc
	if t.ticks >= ticksPerTick {
		t.ticks = 0
		t.power = t.Buffer.TrackPower()
		t.Pins.SetPower(t.power)
		t.Buffer.raiseTick()
	}
}

// Run implements Runnable. It paces the emitted half-bits against the
// wall clock, sleeping once per Quantum of signal time.
func (t *Transmitter) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	quantum := t.Quantum
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	glog.Infof("transmitter started, quantum %v", quantum)
	defer t.Pins.SetPower(false)

	start := time.Now()
	var signal time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for emitted := time.Duration(0); emitted < quantum; {
			d := t.Step()
			emitted += d
			signal += d
		}
		if wait := time.Until(start.Add(signal)); wait > 0 {
			time.Sleep(wait)
		} else if wait < -100*quantum {
			glog.Warningf("transmitter behind wall clock by %v, resyncing", -wait)
			start, signal = time.Now(), 0
		}
	}
}
