package dcc

import (
	"context"
	"runtime"
	"time"

	"github.com/golang/glog"
)

// PWMCycle is the period of the conventional DC drive (14kHz).
const PWMCycle = time.Second / 14000

const (
	pwmCyclesPerTick      = 140
	pwmCyclesPerMilliTick = 14
	// the buffer is picked up at roughly the rate of a DCC packet
	pwmRefreshCycles = 70
	pwmLockOutCycles = 12
)

// Kick defaults.
const (
	DefaultKickDuty   = 0.25
	DefaultKickCycles = 28   // 2ms
	DefaultKickPeriod = 1400 // 100ms
)

// Motor is a DC motor driver bridge.
type Motor interface {
	SetDrive(forward bool, duty float64)
}

// PWMTransmitter drives a conventional (decoder-less) loco with a
// PWM duty cycle derived from the speed packets of one short address.
// It follows the same buffer handoff as Transmitter so the encoder
// needs no changes.
type PWMTransmitter struct {
	Buffer  *Buffer
	Motor   Motor
	Address byte
	// A brief higher-duty kick overcomes motor static friction at
	// low speed.
	KickDuty   float64
	KickCycles int
	KickPeriod int

	packet  Packet
	cycle   int
	kick    int
	ticks   int
	milli   int
	forward bool
	duty    float64
}

// NewPWMTransmitter creates a PWMTransmitter listening to address 3.
func NewPWMTransmitter(buf *Buffer, motor Motor) *PWMTransmitter {
	return &PWMTransmitter{
		Buffer:     buf,
		Motor:      motor,
		Address:    3,
		KickDuty:   DefaultKickDuty,
		KickCycles: DefaultKickCycles,
		KickPeriod: DefaultKickPeriod,
		forward:    true,
	}
}

// Name implements framework.Named.
func (t *PWMTransmitter) Name() string {
	return "pwm-transmitter"
}

// DecodeSpeed extracts direction and duty (0..1) from a 28-step or
// 128-step speed packet addressed to addr.
func DecodeSpeed(p *Packet, addr byte) (forward bool, duty float64, ok bool) {
	if !p.Valid() || p.Data[0] != addr {
		return
	}
	switch {
	case p.Len == 3 && p.Data[1]&0xc0 == Speed28Instruction:
		b := p.Data[1]
		forward = b&Speed28Forward != 0
		code := (b&0x0f)<<1 | (b>>4)&0x01
		if code >= 4 {
			duty = float64(code-3) / 28
		}
		ok = true
	case p.Len == 4 && p.Data[1] == Speed128Instruction:
		b := p.Data[2]
		forward = b&Speed128Forward != 0
		if code := b & 0x7f; code >= 2 {
			duty = float64(code-1) / 126
		}
		ok = true
	}
	return
}

// Duty returns the current commanded direction and duty.
func (t *PWMTransmitter) Duty() (bool, float64) {
	return t.forward, t.duty
}

// Step runs one PWM cycle and returns the applied duty.
func (t *PWMTransmitter) Step() float64 {
	t.cycle++
	if t.cycle == pwmRefreshCycles-pwmLockOutCycles {
		t.Buffer.lockOut()
	}
	if t.cycle >= pwmRefreshCycles {
		t.cycle = 0
		if t.Buffer.refresh(&t.packet) {
			if fwd, duty, ok := DecodeSpeed(&t.packet, t.Address); ok {
				t.forward, t.duty = fwd, duty
			}
		}
	}

	out := t.duty
	if t.KickPeriod > 0 {
		if t.kick++; t.kick >= t.KickPeriod {
			t.kick = 0
		}
		if out > 0 && out < t.KickDuty && t.kick < t.KickCycles {
			out = t.KickDuty
		}
	}
	if !t.Buffer.TrackPower() {
		out = 0
	}
	if t.Motor != nil {
		t.Motor.SetDrive(t.forward, out)
	}

	if t.milli++; t.milli >= pwmCyclesPerMilliTick {
		t.milli = 0
		t.Buffer.raiseMilliTick()
	}
	if t.ticks++; t.ticks >= pwmCyclesPerTick {
		t.ticks = 0
		t.Buffer.raiseTick()
	}
	return out
}

// Run implements Runnable.
func (t *PWMTransmitter) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	glog.Infof("pwm transmitter started for address %d", t.Address)
	defer func() {
		if t.Motor != nil {
			t.Motor.SetDrive(t.forward, 0)
		}
	}()

	start := time.Now()
	var cycles int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for i := 0; i < pwmCyclesPerMilliTick; i++ {
			t.Step()
		}
		cycles += pwmCyclesPerMilliTick
		if wait := time.Until(start.Add(time.Duration(cycles) * PWMCycle)); wait > 0 {
			time.Sleep(wait)
		}
	}
}
