package sensor

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

// Sim defaults.
const (
	DefaultSimMilliAmps    = 40
	DefaultSimVolts        = 14.2
	DefaultAckMilliAmps    = 60
	DefaultSimDecoderCV8   = 0x91 // manufacturer ID reported by the simulated decoder
	DefaultSimDecoderCV1   = 3
	simServicePacketMinLen = 3
)

// Sim is a simulated sensor with an attached simulated decoder on the
// programming track. The decoder listens to the transmitted packets
// (as a dcc.PacketHandler) and answers service mode verify
// instructions with an acknowledgement pulse.
type Sim struct {
	MilliAmps    float64
	Volts        float64
	AckMilliAmps float64

	lock  sync.Mutex
	mode  Mode
	ack   bool
	page  uint16
	cvs   map[uint16]byte
	stuck *float64
}

// NewSim creates a Sim with an idle bus and a factory-fresh decoder.
func NewSim() *Sim {
	return &Sim{
		MilliAmps:    DefaultSimMilliAmps,
		Volts:        DefaultSimVolts,
		AckMilliAmps: DefaultAckMilliAmps,
		page:         1,
		cvs: map[uint16]byte{
			1: DefaultSimDecoderCV1,
			8: DefaultSimDecoderCV8,
		},
	}
}

// Sample implements Sensor.
func (s *Sim) Sample() (float64, float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stuck != nil {
		return *s.stuck, s.Volts, nil
	}
	ma := s.MilliAmps
	if s.mode == Trigger && s.ack {
		ma += s.AckMilliAmps
	}
	return ma, s.Volts, nil
}

// SetMode implements Sensor. Entering Trigger starts a new capture.
func (s *Sim) SetMode(mode Mode) error {
	s.lock.Lock()
	s.mode, s.ack = mode, false
	s.lock.Unlock()
	return nil
}

// Mode returns the current mode.
func (s *Sim) Mode() Mode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.mode
}

// Overload forces every sample to report ma, e.g. to simulate a short.
// A negative value clears it.
func (s *Sim) Overload(ma float64) {
	s.lock.Lock()
	if ma < 0 {
		s.stuck = nil
	} else {
		s.stuck = &ma
	}
	s.lock.Unlock()
}

// CV returns the CV value stored in the simulated decoder.
func (s *Sim) CV(cv uint16) (byte, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	val, ok := s.cvs[cv]
	return val, ok
}

// SetCV stores a CV value in the simulated decoder.
func (s *Sim) SetCV(cv uint16, val byte) {
	s.lock.Lock()
	s.cvs[cv] = val
	s.lock.Unlock()
}

// HandlePacket implements dcc.PacketHandler.
func (s *Sim) HandlePacket(ctx context.Context, p *dcc.Packet) {
	// service mode instructions always follow a long preamble, which
	// keeps short addresses 112-127 on the main from matching
	if !p.LongPreamble || p.Len < simServicePacketMinLen || p.Data[0]&0xf0 != 0x70 {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	b := p.Data[0]
	switch {
	case p.Len == 3 && b == 0x7d:
		// paged mode page register
		s.page = uint16(p.Data[1])
		s.acknowledge()
	case p.Len == 3 && b&0xfc == 0x78:
		cv := (s.page-1)*4 + uint16(b&0x03) + 1
		s.cvs[cv] = p.Data[1]
		glog.V(2).Infof("sim decoder: paged write CV%d = %d", cv, p.Data[1])
		s.acknowledge()
	case p.Len == 4:
		cv := (uint16(b&0x03)<<8 | uint16(p.Data[1])) + 1
		val := s.cvs[cv]
		switch b & 0x0c {
		case 0x0c:
			s.cvs[cv] = p.Data[2]
			glog.V(2).Infof("sim decoder: direct write CV%d = %d", cv, p.Data[2])
			s.acknowledge()
		case 0x04:
			if val == p.Data[2] {
				s.acknowledge()
			}
		case 0x08:
			d := p.Data[2]
			bit := d & 0x07
			want := d&0x08 != 0
			if d&0x10 != 0 {
				if want {
					s.cvs[cv] = val | 1<<bit
				} else {
					s.cvs[cv] = val &^ (1 << bit)
				}
				s.acknowledge()
			} else if (val&(1<<bit) != 0) == want {
				s.acknowledge()
			}
		}
	}
}

func (s *Sim) acknowledge() {
	if s.mode == Trigger {
		s.ack = true
	}
}
