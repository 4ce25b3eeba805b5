package station

import (
	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

// Speed deltas for SetLoco.
const (
	SpeedUp    = 1
	SpeedDown  = -1
	SpeedEStop = -2
)

// nudgePulses is the number of full speed packets sent to nudge a loco.
const nudgePulses = 1

// FindLoco looks up the slot for an address: an exact match, else the
// first empty slot, else the oldest stationary loco outside a consist.
// With ignoreEmpty only exact matches are returned. It returns -1 when
// nothing fits. Address 0 never matches.
func (s *Station) FindLoco(addr uint16, long bool, ignoreEmpty bool) int {
	if addr == 0 {
		return -1
	}
	for i := range s.Locos {
		if l := &s.Locos[i]; l.Address == addr && l.LongAddress == long {
			return i
		}
	}
	if ignoreEmpty {
		return -1
	}
	for i := range s.Locos {
		if s.Locos[i].Empty() {
			return i
		}
	}
	bump, age := -1, uint16(0xffff)
	for i := range s.Locos {
		l := &s.Locos[i]
		if l.SpeedStep == 0 && l.ConsistID == 0 && l.History < age {
			bump, age = i, l.History
		}
	}
	return bump
}

// AcquireLoco finds or assigns a slot for the address. A bumped or
// empty slot is reset to a stationary loco at that address.
func (s *Station) AcquireLoco(addr uint16, long bool) (int, error) {
	if err := dcc.ValidateAddress(int(addr), long); err != nil {
		return -1, err
	}
	i := s.FindLoco(addr, long, false)
	if i < 0 {
		return -1, ErrSlotExhausted
	}
	l := &s.Locos[i]
	if l.Address != addr || l.LongAddress != long {
		if !l.Empty() {
			glog.Infof("roster: slot %d %s replaced by %s", i, l.AddressString(), (&Loco{Address: addr, LongAddress: long}).AddressString())
		}
		*l = Loco{
			Address:     addr,
			LongAddress: long,
			Use128:      true,
			Forward:     true,
			changed:     true,
		}
	}
	s.TouchLoco(i)
	return i, nil
}

// ReleaseLoco empties a slot.
func (s *Station) ReleaseLoco(i int) error {
	if i < 0 || i >= len(s.Locos) {
		return ErrNoSuchLoco
	}
	s.Locos[i] = Loco{changed: true}
	return nil
}

// TouchLoco marks the slot as most recently used.
func (s *Station) TouchLoco(i int) {
	var age uint16
	for j := range s.Locos {
		if h := s.Locos[j].History; h > age {
			age = h
		}
	}
	s.Locos[i].History = age + 1
}

func (s *Station) loco(i int) (*Loco, error) {
	if i < 0 || i >= len(s.Locos) || s.Locos[i].Empty() {
		return nil, ErrNoSuchLoco
	}
	return &s.Locos[i], nil
}

// SetLoco changes speed by one step (SpeedUp, SpeedDown), stops the
// loco (SpeedEStop) or leaves the speed (0). With dir a stationary loco
// reverses and a moving loco is nudged. Changes are refused while the
// loco's emergency stop timer runs.
func (s *Station) SetLoco(i int, delta int, dir bool) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	if l.EStopTimer != 0 {
		return ErrEStopActive
	}
	switch {
	case delta > 0:
		if l.SpeedStep < l.MaxStep() {
			l.SpeedStep++
		}
	case delta < SpeedDown:
		l.SpeedStep = 0
		l.EStopTimer = LocoEStopTimeout
	case delta == SpeedDown:
		if l.SpeedStep > 0 {
			l.SpeedStep--
		}
	}
	l.changed = delta != 0
	if dir {
		if l.SpeedStep == 0 {
			l.Forward = !l.Forward
			l.directionChanged = true
		} else {
			l.Nudge = nudgePulses
		}
		l.changed = true
	}
	if delta >= SpeedDown {
		s.TouchLoco(i)
	}
	return nil
}

// SetLocoSpeed sets an absolute speed step and direction, as remote
// throttles do.
func (s *Station) SetLocoSpeed(i int, step uint8, forward bool) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	if l.EStopTimer != 0 {
		return ErrEStopActive
	}
	if max := l.MaxStep(); step > max {
		step = max
	}
	if l.Forward != forward {
		l.directionChanged = true
	}
	l.SpeedStep, l.Forward, l.changed = step, forward, true
	s.TouchLoco(i)
	return nil
}

// SetLocoMode switches between 28 and 128 speed steps, rescaling the
// current speed.
func (s *Station) SetLocoMode(i int, use128 bool) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	if l.Use128 == use128 {
		return nil
	}
	speed := l.Speed()
	l.Use128 = use128
	l.SpeedStep = stepFromSpeed(speed, l.MaxStep())
	l.changed = true
	return nil
}

// SetBrake engages or releases the brake, which halves the transmitted
// speed.
func (s *Station) SetBrake(i int, on bool) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	l.Brake, l.changed = on, true
	return nil
}

// SetFunction switches function n (F0..F12).
func (s *Station) SetFunction(i int, n int, on bool) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	if n < 0 || n > 12 {
		return ErrInvalidFunction
	}
	if on {
		l.Functions |= 1 << uint(n)
	} else {
		l.Functions &^= 1 << uint(n)
	}
	l.functionChanged = true
	return nil
}

// SetConsist assigns a consist id, 0 removes the loco from its consist.
func (s *Station) SetConsist(i int, id uint8) error {
	l, err := s.loco(i)
	if err != nil {
		return err
	}
	l.ConsistID, l.changed = id, true
	return nil
}

func stepFromSpeed(speed float64, max uint8) uint8 {
	return uint8(0.05 + speed*float64(max))
}

// ReplicateAcrossConsist copies a pending change of slot i to every
// other loco of its consist. Speed is copied as a fraction of full
// speed, a direction change toggles the others, functions are copied.
func (s *Station) ReplicateAcrossConsist(i int) {
	if i < 0 || i >= len(s.Locos) {
		return
	}
	src := &s.Locos[i]
	if src.ConsistID == 0 {
		return
	}
	for j := range s.Locos {
		dst := &s.Locos[j]
		if j == i || dst.ConsistID != src.ConsistID {
			continue
		}
		if src.changed {
			dst.SpeedStep = stepFromSpeed(src.Speed(), dst.MaxStep())
			dst.changed = true
			if src.directionChanged {
				dst.Forward = !dst.Forward
			}
		}
		if src.functionChanged {
			dst.Functions = src.Functions
			dst.functionChanged = true
		}
	}
}

// FindTurnout looks up the slot for a turnout address: a match, else
// an empty slot, else the least recently used one.
func (s *Station) FindTurnout(addr uint16) int {
	if addr == 0 || len(s.Turnouts) == 0 {
		return -1
	}
	for i := range s.Turnouts {
		if s.Turnouts[i].Address == addr {
			return i
		}
	}
	for i := range s.Turnouts {
		if s.Turnouts[i].Address == 0 {
			return i
		}
	}
	oldest := 0
	for i := range s.Turnouts {
		if s.Turnouts[i].History < s.Turnouts[oldest].History {
			oldest = i
		}
	}
	return oldest
}

// SetTurnout sets a turnout and queues the accessory command. It
// returns the slot used.
func (s *Station) SetTurnout(addr uint16, thrown bool) (int, error) {
	if err := dcc.ValidateAccessoryAddress(int(addr)); err != nil {
		return -1, err
	}
	i := s.FindTurnout(addr)
	if i < 0 {
		return -1, ErrSlotExhausted
	}
	t := &s.Turnouts[i]
	if t.Address != addr {
		*t = Turnout{Address: addr}
	}
	var age uint16
	for j := range s.Turnouts {
		if h := s.Turnouts[j].History; h > age {
			age = h
		}
	}
	t.Thrown, t.History, t.changed = thrown, age+1, true
	return i, nil
}

// Changes lists the slots reported by UpdateLocalMachine.
type Changes struct {
	Locos    []int
	Turnouts []int
}

// Empty indicates nothing changed.
func (c *Changes) Empty() bool {
	return len(c.Locos) == 0 && len(c.Turnouts) == 0
}

// UpdateLocalMachine collects and clears the change flags. One changed
// turnout per call is staged as the accessory command, but only while
// the loco/function round robin owns the transmit buffer; otherwise
// the turnout stays pending.
func (s *Station) UpdateLocalMachine() (c Changes) {
	var origins []int
	for i := range s.Locos {
		if l := &s.Locos[i]; l.changed || l.functionChanged {
			origins = append(origins, i)
		}
	}
	for _, i := range origins {
		s.ReplicateAcrossConsist(i)
	}
	for i := range s.Locos {
		if l := &s.Locos[i]; l.changed || l.functionChanged {
			c.Locos = append(c.Locos, i)
			l.changed, l.directionChanged, l.functionChanged = false, false, false
		}
	}

	if s.Family != FamilyLoco && s.Family != FamilyFunction {
		return
	}
	for i := range s.Turnouts {
		t := &s.Turnouts[i]
		if !t.changed {
			continue
		}
		s.Accessory = Accessory{Address: t.Address, Thrown: t.Thrown}
		s.Family = FamilyAccessory
		t.changed = false
		c.Turnouts = append(c.Turnouts, i)
		break
	}
	return
}
