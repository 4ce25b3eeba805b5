package station

import (
	"fmt"
)

// Family selects which kind of packet the encoder builds next.
type Family int

// Packet families.
const (
	FamilyLoco Family = iota
	FamilyFunction
	FamilyAccessory
	FamilyEStop
	FamilyPOM
	FamilyService
	FamilyIdle
)

var familyNames = [...]string{
	FamilyLoco:      "loco",
	FamilyFunction:  "function",
	FamilyAccessory: "accessory",
	FamilyEStop:     "estop",
	FamilyPOM:       "pom",
	FamilyService:   "service",
	FamilyIdle:      "idle",
}

func (f Family) String() string {
	if f >= 0 && int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Timers, in quarter seconds.
const (
	LocoEStopTimeout = 8
	CVTimeout        = 8
	POMTimeout       = 8
)

// TicksPerQuarterSecond is the number of 10ms ticks in a quarter second.
const TicksPerQuarterSecond = 25

// Loco is one slot of the locomotive roster. Address 0 marks an empty
// slot.
type Loco struct {
	Name        string
	Address     uint16
	LongAddress bool
	Use128      bool
	SpeedStep   uint8
	Forward     bool
	Brake       bool
	// Functions holds F0..F12, bit n is Fn.
	Functions uint16
	// EStopTimer is non-zero while the slot transmits the emergency
	// stop code.
	EStopTimer uint8
	// Nudge is the number of pending full speed pulses used to free a
	// stalled loco.
	Nudge     uint8
	ConsistID uint8
	History   uint16

	changed          bool
	directionChanged bool
	functionChanged  bool
}

// Empty indicates the slot is free.
func (l *Loco) Empty() bool {
	return l.Address == 0
}

// MaxStep returns the top speed step of the speed step mode.
func (l *Loco) MaxStep() uint8 {
	if l.Use128 {
		return 126
	}
	return 28
}

// Speed returns the speed as a fraction of full speed.
func (l *Loco) Speed() float64 {
	return float64(l.SpeedStep) / float64(l.MaxStep())
}

// AddressString formats the address as S<n> or L<n>.
func (l *Loco) AddressString() string {
	if l.LongAddress {
		return fmt.Sprintf("L%d", l.Address)
	}
	return fmt.Sprintf("S%d", l.Address)
}

// Changed reports pending speed/direction or function changes.
func (l *Loco) Changed() bool {
	return l.changed || l.functionChanged
}

// Turnout is one slot of the turnout table. Address 0 marks an empty
// slot.
type Turnout struct {
	Name    string
	Address uint16
	Thrown  bool
	History uint16

	changed bool
}

// Changed reports a pending change not yet sent to the track.
func (t *Turnout) Changed() bool {
	return t.changed
}

// Accessory is the single staged accessory command.
type Accessory struct {
	Address uint16
	Thrown  bool
}

// PowerState is the observable state of the bus.
type PowerState struct {
	BusMilliAmps float64
	BusVolts     float64
	Quiescent    float64
	AckBase      float64
	Ack          bool
	Trip         bool
	ServiceMode  bool
	TrackPower   bool
}

// ReadResultFunc receives the result of a CV read. Value is -1 when the
// read could not be verified.
type ReadResultFunc func(cv int, value int)
