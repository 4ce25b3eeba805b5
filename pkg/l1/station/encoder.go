package station

import (
	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

// Encode builds the next packet when the transmit buffer is free. It
// never blocks: when the transmitter still holds the buffer it returns
// false and the previous packet keeps going out.
func (s *Station) Encode() bool {
	if !s.buf.Claim() {
		return false
	}
	if p := s.nextPacket(); p != nil {
		glog.V(3).Infof("encode %s: %s", s.lastFamily, p)
		s.buf.Publish(*p)
	}
	s.packets++
	return true
}

// nextPacket returns the packet for the current family, or nil to
// repeat the packet already in the buffer.
func (s *Station) nextPacket() *dcc.Packet {
	s.lastFamily = s.Family
	switch s.Family {
	case FamilyLoco:
		return s.encodeLoco()
	case FamilyFunction:
		return s.encodeFunction()
	case FamilyAccessory:
		p := dcc.AccessoryPacket(s.Accessory.Address, s.Accessory.Thrown)
		s.Family = FamilyLoco
		return &p
	case FamilyEStop:
		return s.encodeEStop()
	case FamilyPOM:
		r := POMStep(s.POM)
		s.POM = r.POM
		if r.Done {
			s.Family = FamilyLoco
			s.lastFamily = FamilyLoco
			return s.encodeLoco()
		}
		return r.Packet
	case FamilyService:
		return s.encodeService()
	default:
		p := dcc.IdlePacket
		return &p
	}
}

func (s *Station) encodeLoco() *dcc.Packet {
	s.Power.State.ServiceMode = false
	if s.locoIndex >= len(s.Locos) {
		s.locoIndex = 0
	}
	var p dcc.Packet
	l := &s.Locos[s.locoIndex]
	if l.Empty() {
		p = dcc.IdlePacket
	} else {
		p = EncodeSpeed(l)
	}
	if l.Nudge == 0 {
		if s.locoIndex++; s.locoIndex >= len(s.Locos) {
			s.locoIndex = 0
		}
	}
	s.Family = FamilyFunction
	return &p
}

// EncodeSpeed builds the speed packet of a loco. A running nudge is
// consumed.
func EncodeSpeed(l *Loco) dcc.Packet {
	step := l.SpeedStep
	if l.Brake {
		step /= 2
	}
	var p dcc.Packet
	p.AppendAddress(l.Address, l.LongAddress)

	// the nudge pulse runs at full speed, reversing on even counts
	forward := l.Forward
	nudge := l.Nudge > 0
	if nudge {
		if l.Nudge&0x01 == 0 {
			forward = !forward
		}
		l.Nudge--
	}

	if l.Use128 {
		code := dcc.Speed128(step)
		if nudge {
			code = 0x7f
		}
		if l.EStopTimer != 0 {
			code = dcc.EStopCode
		}
		if forward {
			code |= dcc.Speed128Forward
		}
		p.Append(dcc.Speed128Instruction, code)
	} else {
		code := dcc.Speed28(step)
		if nudge {
			code = 0x1f
		}
		if l.EStopTimer != 0 {
			code = dcc.EStopCode
		}
		if forward {
			code |= dcc.Speed28Forward
		}
		p.Append(dcc.Speed28Instruction | code)
	}
	p.Seal()
	return p
}

func (s *Station) encodeFunction() *dcc.Packet {
	if s.funcIndex >= 3*len(s.Locos) {
		s.funcIndex = 0
	}
	l := &s.Locos[s.funcIndex/3]
	group := s.funcIndex % 3
	if s.funcIndex++; s.funcIndex >= 3*len(s.Locos) {
		s.funcIndex = 0
	}
	s.Family = FamilyLoco
	if l.Empty() {
		p := dcc.IdlePacket
		return &p
	}
	p := EncodeFunctionGroup(l, group)
	return &p
}

// EncodeFunctionGroup builds the function group packet of a loco.
func EncodeFunctionGroup(l *Loco, group int) dcc.Packet {
	var p dcc.Packet
	p.AppendAddress(l.Address, l.LongAddress)
	p.Append(dcc.FunctionGroup(group, l.Functions))
	p.Seal()
	return p
}

func (s *Station) encodeEStop() *dcc.Packet {
	p := dcc.EStopPacket
	for i := range s.Locos {
		l := &s.Locos[i]
		l.SpeedStep = 0
		l.EStopTimer = LocoEStopTimeout
		l.changed = true
	}
	if st := &s.Power.State; st.Trip || !st.TrackPower {
		glog.Info("emergency stop: restoring track power")
		s.Power.Recover()
		s.buf.SetTrackPower(true)
	}
	s.Family = FamilyLoco
	return &p
}

func (s *Station) encodeService() *dcc.Packet {
	s.Power.State.ServiceMode = true
	var in ServiceInput
	if s.CV.State == RDFinal && s.CV.Count <= 1 {
		in.AckBase = s.Power.State.AckBase
		in.AckSample = s.Power.AckSample()
	}
	prev := s.CV.State
	r := ServiceStep(s.CV, in)
	s.CV = r.CV
	if r.CV.State != prev && r.CV.Busy() {
		s.CV.Timeout = CVTimeout
	}
	if r.Arm {
		s.Power.SetMode(sensor.Trigger)
	}
	if r.Disarm {
		s.Power.SetMode(sensor.Averaging)
	}
	if prev == RDFinal && s.CV.State != RDFinal {
		s.Power.State.Ack = r.Ack
		glog.V(2).Infof("CV%d bit %d ack=%v", s.CV.Reg, s.CV.Bit+1, r.Ack)
	}
	if r.Complete {
		s.readComplete(int(s.CV.Reg), s.CV.Data)
	}
	return r.Packet
}

func (s *Station) readComplete(cv, value int) {
	if value == CVUnknown {
		glog.Warningf("CV%d read failed verify", cv)
	} else {
		glog.Infof("CV%d read %d", cv, value)
	}
	s.lastRead = &ReadResult{CV: cv, Value: value}
	if fn := s.OnReadResult; fn != nil {
		fn(cv, value)
	}
}
