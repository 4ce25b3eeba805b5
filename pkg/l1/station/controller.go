package station

import (
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l0/dcc"
	"github.com/robotalks/dcc.go/pkg/l1"
	env "github.com/robotalks/dcc.go/pkg/l1/env/controller"
	"github.com/robotalks/dcc.go/pkg/l1/msgs"
	"github.com/robotalks/dcc.go/pkg/l1/sensor"
	pb "github.com/robotalks/dcc.go/pkg/proto/dcc/l1/v1"
)

// Controller runs a Station inside the loop: ticks at sense level,
// commands at control level, packets at encode level and events at
// post processing level.
type Controller struct {
	Station   *Station
	Registrar l1.Registrar

	events     []fx.Message
	lastStatus pb.StationStatus
	dirty      bool

	lock     sync.RWMutex
	snapshot StatusSnapshot
}

// StatusSnapshot is the JSON document served to HTTP clients.
type StatusSnapshot struct {
	Station  *pb.StationStatus `json:"station"`
	Locos    []*pb.LocoState    `json:"locos"`
	Turnouts []*pb.TurnoutState `json:"turnouts"`
	LastRead *ReadResult        `json:"last_read,omitempty"`
}

// NewController creates a Station from the config and the controller
// running it. e may be nil when no transport is used.
func (c *Config) NewController(e *env.Env, buf *dcc.Buffer, s sensor.Sensor) *Controller {
	var reg l1.Registrar
	if e != nil {
		reg = e.Registrar
	}
	ctl := NewController(New(c, buf, s), reg)
	if e != nil {
		e.SetStatusSource(ctl)
	}
	return ctl
}

// NewController creates a Controller for st. Events go to reg, if any.
func NewController(st *Station, reg l1.Registrar) *Controller {
	c := &Controller{Station: st, Registrar: reg, dirty: true}
	st.OnReadResult = c.queueReadResult
	c.updateSnapshot()
	return c
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	c.Station.Buffer().Notify = loop.Wake
	loop.AddController(fx.PrLvSense, fx.ControlFunc(c.sense))
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvEncode, fx.ControlFunc(c.encode))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyChanges))
}

func (c *Controller) sense(cc fx.ControlContext) error {
	if c.Station.Buffer().TakeTick() && c.Station.Tick() {
		c.dirty = true
	}
	return nil
}

func (c *Controller) encode(cc fx.ControlContext) error {
	c.Station.Encode()
	return nil
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		msg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		if reply := c.Apply(msg.Command.Msg()); reply != nil {
			mctx.MessageTaken()
			c.dirty = true
			msg.Command.Done(reply)
		}
	}))
	changes := c.Station.UpdateLocalMachine()
	for _, i := range changes.Locos {
		c.events = append(c.events, &msgs.LocoChanged{LocoState: *c.locoState(i)})
	}
	for _, i := range changes.Turnouts {
		c.events = append(c.events, &msgs.TurnoutChanged{TurnoutState: *c.turnoutState(i)})
	}
	if !changes.Empty() {
		c.dirty = true
	}
	return nil
}

// Apply executes a station command and returns the reply. It returns
// nil for messages which are not station commands.
func (c *Controller) Apply(m fx.Message) fx.Message {
	st := c.Station
	switch m := m.(type) {
	case *msgs.StationStatusQuery:
		status := c.stationStatus()
		return &msgs.StationStatus{StationStatus: *status}
	case *msgs.PowerSet:
		if m.On {
			st.PowerOn()
		} else {
			st.PowerOff()
		}
		glog.Infof("track power on=%v", m.On)
	case *msgs.EmergencyStop:
		glog.Info("emergency stop")
		st.EStop()
	case *msgs.RosterQuery:
		return &msgs.Roster{Roster: pb.Roster{Locos: c.locoStates(), Turnouts: c.turnoutStates()}}
	case *msgs.LocoAcquire:
		if err := dcc.ValidateAddress(int(m.Address), m.LongAddress); err != nil {
			return msgs.NewCommandErr(err)
		}
		i, err := st.AcquireLoco(uint16(m.Address), m.LongAddress)
		if err != nil {
			return msgs.NewCommandErr(err)
		}
		return &msgs.LocoState{LocoState: *c.locoState(i)}
	case *msgs.LocoRelease:
		return reply(st.ReleaseLoco(int(m.Slot)))
	case *msgs.LocoStep:
		return reply(st.SetLoco(int(m.Slot), int(m.Delta), m.Direction))
	case *msgs.LocoSpeed:
		step := m.SpeedStep
		if step > 0xff {
			step = 0xff
		}
		return reply(st.SetLocoSpeed(int(m.Slot), uint8(step), m.Forward))
	case *msgs.LocoMode:
		return reply(st.SetLocoMode(int(m.Slot), m.Use128))
	case *msgs.LocoBrake:
		return reply(st.SetBrake(int(m.Slot), m.On))
	case *msgs.LocoFunction:
		return reply(st.SetFunction(int(m.Slot), int(m.Function), m.On))
	case *msgs.LocoConsist:
		if m.Consist > 0xff {
			return msgs.NewCommandErrFromMsg("consist id out of range")
		}
		return reply(st.SetConsist(int(m.Slot), uint8(m.Consist)))
	case *msgs.TurnoutSet:
		if err := dcc.ValidateAccessoryAddress(int(m.Address)); err != nil {
			return msgs.NewCommandErr(err)
		}
		_, err := st.SetTurnout(uint16(m.Address), m.Thrown)
		return reply(err)
	case *msgs.POMWrite:
		if !st.WritePOMCommand(m.Address, int(m.Cv), m.Value) {
			switch st.Family {
			case FamilyService:
				return msgs.NewCommandErr(ErrServiceBusy)
			case FamilyEStop:
				return msgs.NewCommandErr(ErrEStopPending)
			}
			return msgs.NewCommandErr(ErrInvalidPOM)
		}
	case *msgs.ServiceModeSet:
		if !st.WriteServiceCommand(0, 0, false, m.Enter, !m.Enter) {
			return msgs.NewCommandErr(ErrEStopPending)
		}
	case *msgs.CVWrite:
		return c.serviceReply(st.WriteServiceCommand(int(m.Cv), int(m.Value), false, false, false), int(m.Cv), int(m.Value))
	case *msgs.CVRead:
		return c.serviceReply(st.WriteServiceCommand(int(m.Cv), 0, true, false, false), int(m.Cv), 0)
	default:
		return nil
	}
	return msgs.NewCommandOK()
}

func reply(err error) fx.Message {
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	return msgs.NewCommandOK()
}

func (c *Controller) serviceReply(accepted bool, cv, value int) fx.Message {
	switch {
	case accepted:
		return msgs.NewCommandOK()
	case cv < 1 || cv > MaxCV || value < 0 || value > 255:
		return msgs.NewCommandErr(ErrInvalidCV)
	case c.Station.Family != FamilyService:
		return msgs.NewCommandErr(ErrNotServiceMode)
	default:
		return msgs.NewCommandErr(ErrServiceBusy)
	}
}

func (c *Controller) queueReadResult(cv, value int) {
	var ev msgs.CVReadResult
	ev.Cv, ev.Value = int32(cv), int32(value)
	c.events = append(c.events, &ev)
	c.dirty = true
}

func (c *Controller) notifyChanges(cc fx.ControlContext) error {
	status := c.stationStatus()
	if stationChanged(&c.lastStatus, status) {
		c.lastStatus = *status
		c.events = append(c.events, &msgs.StationChanged{StationStatus: *status})
	}
	if c.dirty {
		c.dirty = false
		c.updateSnapshot()
	}
	events := c.events
	c.events = nil
	if c.Registrar == nil {
		return nil
	}
	var errs fx.AggregatedError
	for _, ev := range events {
		errs.Add(c.Registrar.SendEvent(cc.Context(), ev))
	}
	return errs.Aggregate()
}

// stationChanged ignores the analog readings, which are published with
// the quarter second snapshots.
func stationChanged(last, cur *pb.StationStatus) bool {
	return last.TrackPower != cur.TrackPower ||
		last.Trip != cur.Trip ||
		last.ServiceMode != cur.ServiceMode ||
		last.Family != cur.Family ||
		last.CvState != cur.CvState
}

// Snapshot implements websocket.StatusSource. It is safe to call from
// any goroutine.
func (c *Controller) Snapshot() interface{} {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.snapshot
}

func (c *Controller) updateSnapshot() {
	snapshot := StatusSnapshot{
		Station:  c.stationStatus(),
		Locos:    c.locoStates(),
		Turnouts: c.turnoutStates(),
	}
	if r, ok := c.Station.LastRead(); ok {
		snapshot.LastRead = &r
	}
	c.lock.Lock()
	c.snapshot = snapshot
	c.lock.Unlock()
}

func (c *Controller) stationStatus() *pb.StationStatus {
	s := c.Station.Status()
	family := s.Family
	if family == FamilyFunction || family == FamilyAccessory {
		// the round robin alternates these with every packet
		family = FamilyLoco
	}
	return &pb.StationStatus{
		BusMilliAmps: s.BusMilliAmps,
		BusVolts:     s.BusVolts,
		Quiescent:    s.Quiescent,
		Trip:         s.Trip,
		ServiceMode:  s.ServiceMode,
		TrackPower:   s.TrackPower,
		Family:       family.String(),
		CvState:      s.CVState.String(),
		Version:      SoftwareVersion,
		Quarters:     s.Quarters,
		Packets:      s.Packets,
	}
}

func (c *Controller) locoState(i int) *pb.LocoState {
	l := &c.Station.Locos[i]
	return &pb.LocoState{
		Slot:        int32(i),
		Name:        l.Name,
		Address:     uint32(l.Address),
		LongAddress: l.LongAddress,
		Use128:      l.Use128,
		SpeedStep:   uint32(l.SpeedStep),
		Forward:     l.Forward,
		Brake:       l.Brake,
		Functions:   uint32(l.Functions),
		Consist:     uint32(l.ConsistID),
		Estop:       l.EStopTimer != 0,
	}
}

func (c *Controller) locoStates() []*pb.LocoState {
	var states []*pb.LocoState
	for i := range c.Station.Locos {
		if !c.Station.Locos[i].Empty() {
			states = append(states, c.locoState(i))
		}
	}
	return states
}

func (c *Controller) turnoutState(i int) *pb.TurnoutState {
	t := &c.Station.Turnouts[i]
	return &pb.TurnoutState{
		Slot:    int32(i),
		Name:    t.Name,
		Address: uint32(t.Address),
		Thrown:  t.Thrown,
	}
}

func (c *Controller) turnoutStates() []*pb.TurnoutState {
	var states []*pb.TurnoutState
	for i := range c.Station.Turnouts {
		if c.Station.Turnouts[i].Address != 0 {
			states = append(states, c.turnoutState(i))
		}
	}
	return states
}
