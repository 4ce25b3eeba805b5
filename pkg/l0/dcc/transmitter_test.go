package dcc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordPins struct {
	levels []bool
	power  []bool
}

func (p *recordPins) SetSignal(high bool) { p.levels = append(p.levels, high) }
func (p *recordPins) SetPower(on bool)    { p.power = append(p.power, on) }

type tapEnv struct {
	buf    *Buffer
	tx     *Transmitter
	pins   *recordPins
	parser Parser
	bits   []bool
	pkts   []Packet
	errs   []error
}

func newTapEnv() *tapEnv {
	e := &tapEnv{buf: NewBuffer(), pins: &recordPins{}}
	e.tx = NewTransmitter(e.buf, e.pins)
	e.tx.Tap = e
	return e
}

func (e *tapEnv) TapBit(one bool) {
	e.bits = append(e.bits, one)
	pr := e.parser.Parse(one)
	if pr.Packet != nil {
		e.pkts = append(e.pkts, *pr.Packet)
	}
	if pr.Err != nil {
		e.errs = append(e.errs, pr.Err)
	}
}

func (e *tapEnv) stepBits(n int) {
	for target := len(e.bits) + n; len(e.bits) < target; {
		e.tx.Step()
	}
}

func TestTransmitterIdle(t *testing.T) {
	e := newTapEnv()
	e.stepBits(200)
	require.Empty(t, e.errs)
	require.True(t, len(e.pkts) >= 3)
	for _, p := range e.pkts {
		require.Equal(t, IdlePacket.Bytes(), p.Bytes())
	}
}

func TestTransmitterSignal(t *testing.T) {
	e := newTapEnv()
	var periods []time.Duration
	for i := 0; i < 400; i++ {
		periods = append(periods, e.tx.Step())
	}
	// every half-period toggles the pair, high first
	for n, level := range e.pins.levels {
		require.Equal(t, n%2 == 0, level, "half %d", n)
	}
	// both halves of a bit have the same period
	for i := 0; i+1 < len(periods); i += 2 {
		require.Equal(t, periods[i], periods[i+1])
		require.Contains(t, []time.Duration{OneHalfPeriod, ZeroHalfPeriod}, periods[i])
	}
	// period matches the tapped bit
	for i, one := range e.bits {
		if one {
			require.Equal(t, OneHalfPeriod, periods[2*i])
		} else {
			require.Equal(t, ZeroHalfPeriod, periods[2*i])
		}
	}
}

func TestTransmitterFraming(t *testing.T) {
	e := newTapEnv()
	p := NewPacket(0x03, 0x69) // checksum 0x6a ends in a 0 bit
	for len(e.bits) < 400 {
		e.tx.Step()
		if e.buf.Claim() {
			e.buf.Publish(p)
		}
	}
	// the first start follows the power-up run, the second follows the
	// idle packet whose 0xff tail merges with the preamble; from then on
	// the stop bit plus 13 more ones precede each separator
	var ones, starts int
	for _, b := range e.bits {
		if b {
			ones++
			continue
		}
		if ones >= MinPreambleBits {
			starts++
			if starts > 2 {
				require.Equal(t, ShortPreambleBits, ones)
			}
		}
		ones = 0
	}
	require.True(t, starts > 3)
	require.Empty(t, e.errs)
}

func TestTransmitterHandoff(t *testing.T) {
	e := newTapEnv()
	sent := []Packet{
		NewPacket(0x03, 0x69),
		NewPacket(0xc4, 0xd2, 0x3f, 0x85),
		AccessoryPacket(5, true),
		EStopPacket,
	}
	next := 0
	for len(e.pkts) < len(sent)+1 {
		e.tx.Step()
		if next < len(sent) && e.buf.Claim() {
			e.buf.Publish(sent[next])
			next++
		}
	}
	require.Empty(t, e.errs)
	require.Equal(t, IdlePacket.Bytes(), e.pkts[0].Bytes())
	for n, p := range sent {
		require.Equal(t, p.Bytes(), e.pkts[n+1].Bytes())
	}
}

func TestTransmitterLockOutWindow(t *testing.T) {
	e := newTapEnv()
	var free []bool
	for len(free) < 300 {
		before := len(e.bits)
		e.tx.Step()
		if len(e.bits) != before {
			free = append(free, e.buf.Free())
		}
	}
	// after the first refresh, every locked run lasts exactly 12 bits
	var runs []int
	run, seenFree := 0, false
	for _, f := range free {
		if f {
			if seenFree && run > 0 {
				runs = append(runs, run)
			}
			seenFree, run = true, 0
			continue
		}
		if seenFree {
			run++
		}
	}
	require.NotEmpty(t, runs)
	for _, r := range runs {
		require.Equal(t, countLockOut-countRefresh, r)
	}
}

func TestTransmitterSlowProducerReusesPacket(t *testing.T) {
	e := newTapEnv()
	for claimed := false; !claimed; {
		e.tx.Step()
		claimed = e.buf.Claim()
	}
	// claimed but never published: idle keeps going out
	e.stepBits(200)
	require.Empty(t, e.errs)
	require.NotEmpty(t, e.pkts)
	for _, p := range e.pkts {
		require.Equal(t, IdlePacket.Bytes(), p.Bytes())
	}
}

func TestTransmitterLongPreamble(t *testing.T) {
	e := newTapEnv()
	p := ResetPacket
	p.LongPreamble = true
	published := false
	for len(e.pkts) < 3 {
		e.tx.Step()
		if !published && e.buf.Claim() {
			e.buf.Publish(p)
			published = true
		}
	}
	require.Equal(t, IdlePacket.Bytes(), e.pkts[0].Bytes())
	require.True(t, e.pkts[1].LongPreamble)
	require.Equal(t, ResetPacket.Bytes(), e.pkts[1].Bytes())
}

func TestTransmitterTicks(t *testing.T) {
	e := newTapEnv()
	e.buf.SetTrackPower(true)
	var elapsed, milli time.Duration
	var millis int
	for !e.buf.TakeTick() {
		d := e.tx.Step()
		elapsed += d
		milli += d
		if e.buf.TakeMilliTick() {
			require.InDelta(t, float64(time.Millisecond), float64(milli), float64(150*time.Microsecond))
			milli = 0
			millis++
		}
	}
	require.InDelta(t, float64(10*time.Millisecond), float64(elapsed), float64(100*time.Microsecond))
	require.True(t, millis >= 9)
	require.Equal(t, []bool{true}, e.pins.power)
}

func TestTransmitterNotify(t *testing.T) {
	e := newTapEnv()
	var n int
	e.buf.Notify = func() { n++ }
	e.stepBits(100)
	require.True(t, n > 0)
}

func TestTransmitterRun(t *testing.T) {
	buf := NewBuffer()
	tx := NewTransmitter(buf, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, tx.Run(ctx))
	require.True(t, buf.TakeTick())
}
