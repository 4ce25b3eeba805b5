// Package station implements the command station: the roster of locos
// and turnouts, the packet encoder feeding the transmit buffer, the
// service mode and program on main state machines and the power
// monitor.
//
// A Station is owned by a single goroutine (the control loop). Remote
// clients reach it only through commands applied inside the loop.
package station

import (
	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

// SoftwareVersion is reported in the station status.
const SoftwareVersion = 20211213

// ReadResult is the result of the last CV read.
type ReadResult struct {
	CV    int `json:"cv"`
	Value int `json:"value"`
}

// Station is the controller context: every record the encoder reads
// and the collaborators mutate.
type Station struct {
	Config *Config

	Locos     []Loco
	Turnouts  []Turnout
	Accessory Accessory
	POM       POMState
	CV        CVState
	Power     *PowerMonitor
	Family    Family

	// OnReadResult receives completed CV reads.
	OnReadResult ReadResultFunc

	buf        *dcc.Buffer
	locoIndex  int
	funcIndex  int
	ticks      int
	quarters   uint64
	packets    uint64
	lastFamily Family
	lastRead   *ReadResult
}

// New creates a Station publishing into buf and sampling s.
func New(conf *Config, buf *dcc.Buffer, s sensor.Sensor) *Station {
	if conf == nil {
		conf = NewConfig()
	}
	st := &Station{
		Config:   conf,
		Locos:    make([]Loco, conf.MaxLoco),
		Turnouts: make([]Turnout, conf.MaxTurnout),
		Power:    NewPowerMonitor(s),
		buf:      buf,
	}
	st.Power.CurrentLimit = conf.CurrentLimit
	st.Power.VoltageLimit = conf.VoltageLimit
	conf.applyRoster(st)
	if conf.PowerOnBoot {
		st.PowerOn()
	}
	return st
}

// Buffer returns the transmit buffer.
func (s *Station) Buffer() *dcc.Buffer {
	return s.buf
}

// Packets returns the number of claimed transmit buffers.
func (s *Station) Packets() uint64 {
	return s.packets
}

// LastRead returns the last completed CV read, if any.
func (s *Station) LastRead() (ReadResult, bool) {
	if s.lastRead == nil {
		return ReadResult{}, false
	}
	return *s.lastRead, true
}

// Tick runs the 10ms housekeeping: quarter second timers and the power
// monitor. It reports whether a quarter second elapsed.
func (s *Station) Tick() bool {
	quarter := false
	if s.ticks++; s.ticks >= TicksPerQuarterSecond {
		s.ticks = 0
		s.quarters++
		quarter = true
		s.quarterSecond()
	}
	if s.Power.Update() {
		glog.Warning("track power tripped")
	}
	s.buf.SetTrackPower(s.Power.State.TrackPower)
	return quarter
}

func (s *Station) quarterSecond() {
	for i := range s.Locos {
		if l := &s.Locos[i]; l.EStopTimer > 0 {
			l.EStopTimer--
		}
	}
	if s.CV.Timeout > 0 {
		if s.CV.Timeout--; s.CV.Timeout == 0 && s.CV.Busy() {
			glog.Warningf("service mode %s on CV%d timed out", s.CV.State, s.CV.Reg)
			reading := s.CV.State >= RDStart
			s.CV.State, s.CV.Count = CVIdle, 0
			s.Power.SetMode(sensor.Averaging)
			if reading {
				s.readComplete(int(s.CV.Reg), CVUnknown)
			}
		}
	}
	if s.POM.Timeout > 0 {
		if s.POM.Timeout--; s.POM.Timeout == 0 && s.POM.Pending() {
			glog.Warningf("POM write CV%d to %d timed out", s.POM.Reg, s.POM.Address)
			s.POM.Phase, s.POM.Count = POMByte, 0
			if s.Family == FamilyPOM {
				s.Family = FamilyLoco
			}
		}
	}
}

// Quarters returns the number of elapsed quarter seconds.
func (s *Station) Quarters() uint64 {
	return s.quarters
}

// EStop stops every loco with the next packet.
func (s *Station) EStop() {
	s.Family = FamilyEStop
}

// PowerOn enables the track power and clears a trip.
func (s *Station) PowerOn() {
	st := &s.Power.State
	if st.Trip {
		s.Power.Recover()
	}
	if !st.TrackPower {
		st.Quiescent = BootQuiescent
	}
	st.TrackPower = true
	s.buf.SetTrackPower(true)
}

// PowerOff disables the track power.
func (s *Station) PowerOff() {
	s.Power.State.TrackPower = false
	s.buf.SetTrackPower(false)
}

// WritePOMCommand requests a program on main write. addr is L<n>, S<n>
// or A<n>; cv is 1..1024; val is B<n>, S<n> or C<n>. It returns false
// and leaves the state untouched on invalid input.
func (s *Station) WritePOMCommand(addr string, cv int, val string) bool {
	pom, err := ParsePOMCommand(addr, cv, val)
	if err != nil {
		glog.Warningf("POM rejected: %v", err)
		return false
	}
	switch s.Family {
	case FamilyService:
		glog.Warning("POM rejected: in service mode")
		return false
	case FamilyEStop:
		glog.Warning("POM rejected: emergency stop pending")
		return false
	}
	pom.Timeout = POMTimeout
	s.POM = pom
	s.Family = FamilyPOM
	return true
}

// WriteServiceCommand starts a service mode operation. enter and exit
// switch the encoder to and from the programming track. Otherwise a
// byte write (verify false) or a read (verify true) of cv is started.
// It returns false when the request is rejected. Entering is refused
// until a pending emergency stop has been sent.
func (s *Station) WriteServiceCommand(cv int, value int, verify, enter, exit bool) bool {
	st := &s.Power.State
	if enter {
		if st.ServiceMode && s.Family == FamilyService {
			return true
		}
		if s.Family == FamilyEStop {
			return false
		}
		s.Family = FamilyService
		s.CV.State, s.CV.Count = CVIdle, 0
		st.ServiceMode = true
		return true
	}
	if exit {
		if s.Family != FamilyService {
			return true
		}
		if s.CV.Busy() {
			s.Power.SetMode(sensor.Averaging)
		}
		s.CV.State, s.CV.Count = CVIdle, 0
		st.ServiceMode = false
		s.Family = FamilyLoco
		return true
	}
	if cv < 1 || cv > MaxCV {
		return false
	}
	if s.Family != FamilyService || s.CV.Busy() {
		return false
	}
	if !verify {
		if value < 0 || value > 255 {
			return false
		}
		s.CV.SetReg(uint16(cv))
		s.CV.Data = value
		s.CV.Timeout = CVTimeout
		if s.Config.PagedMode {
			s.CV.State = PGStart
		} else {
			s.CV.State = DStart
		}
		return true
	}
	s.CV.SetReg(uint16(cv))
	s.CV.Timeout = CVTimeout
	s.CV.State = RDStart
	s.CV.Bit = 7
	s.CV.Data = 0
	s.Power.Arm()
	return true
}

// Snapshot is the observable power and mode state.
type Snapshot struct {
	PowerState
	Family   Family
	CVState  ServiceState
	POMPhase POMPhase
	Quarters uint64
	Packets  uint64
}

// Status returns a snapshot for display and telemetry.
func (s *Station) Status() Snapshot {
	return Snapshot{
		PowerState: s.Power.State,
		Family:     s.Family,
		CVState:    s.CV.State,
		POMPhase:   s.POM.Phase,
		Quarters:   s.quarters,
		Packets:    s.packets,
	}
}
