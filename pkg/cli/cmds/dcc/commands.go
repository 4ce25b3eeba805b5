package dcc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/dcc.go/pkg/cli/sh"
	"github.com/robotalks/dcc.go/pkg/l1/msgs"
	"github.com/robotalks/dcc.go/pkg/l1/station"
	pb "github.com/robotalks/dcc.go/pkg/proto/dcc/l1/v1"
)

func argInt(c *ishell.Context, index int, name string) (int64, bool) {
	if len(c.Args) <= index {
		c.Err(fmt.Errorf("%s required", name))
		return 0, false
	}
	val, err := strconv.ParseInt(c.Args[index], 0, 32)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	return val, true
}

func argOnOff(c *ishell.Context, index int, name string) (bool, bool) {
	if len(c.Args) <= index {
		c.Err(fmt.Errorf("%s required", name))
		return false, false
	}
	switch strings.ToLower(c.Args[index]) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	}
	c.Err(fmt.Errorf("Invalid %s: %s, expect on|off", name, c.Args[index]))
	return false, false
}

// parseLocoAddress accepts "3", "S3" or "L4014".
func parseLocoAddress(s string) (uint32, bool, error) {
	long := false
	switch {
	case strings.HasPrefix(s, "L"), strings.HasPrefix(s, "l"):
		long, s = true, s[1:]
	case strings.HasPrefix(s, "S"), strings.HasPrefix(s, "s"):
		s = s[1:]
	}
	val, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, err
	}
	return uint32(val), long, nil
}

var (
	// StatusCmd queries the station status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.StationStatusQuery{})
		}),
	}

	// PowerCmd switches track power.
	PowerCmd = ishell.Cmd{
		Name:    "power",
		Aliases: []string{"pw"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			on, ok := argOnOff(c, 0, "STATE")
			if !ok {
				return
			}
			sh.DoCommand(c, &msgs.PowerSet{PowerSet: pb.PowerSet{On: on}})
		}),
	}

	// EStopCmd stops all locos.
	EStopCmd = ishell.Cmd{
		Name:    "estop",
		Aliases: []string{"x"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.EmergencyStop{})
		}),
	}

	// RosterCmd lists locos and turnouts.
	RosterCmd = ishell.Cmd{
		Name:    "roster",
		Aliases: []string{"r"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.RosterQuery{})
		}),
	}

	// LocoAcquireCmd assigns a roster slot to a loco address.
	LocoAcquireCmd = ishell.Cmd{
		Name:    "loco.acquire",
		Aliases: []string{"la"},
		Help:    "ADDRESS (3, S3 or L4014)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDRESS required"))
				return
			}
			addr, long, err := parseLocoAddress(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("Invalid ADDRESS: %v", err))
				return
			}
			sh.DoCommand(c, &msgs.LocoAcquire{LocoAcquire: pb.LocoAcquire{Address: addr, LongAddress: long}})
		}),
	}

	// LocoReleaseCmd empties a roster slot.
	LocoReleaseCmd = ishell.Cmd{
		Name:    "loco.release",
		Aliases: []string{"lr"},
		Help:    "SLOT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			sh.DoCommand(c, &msgs.LocoRelease{LocoRelease: pb.LocoRelease{Slot: int32(slot)}})
		}),
	}

	// LocoStepCmd steps a loco up or down, stops it or flips direction.
	LocoStepCmd = ishell.Cmd{
		Name:    "loco.step",
		Aliases: []string{"ls"},
		Help:    "SLOT up|down|stop|dir",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ACTION required"))
				return
			}
			msg := msgs.LocoStep{LocoStep: pb.LocoStep{Slot: int32(slot)}}
			switch c.Args[1] {
			case "up", "+":
				msg.Delta = station.SpeedUp
			case "down", "-":
				msg.Delta = station.SpeedDown
			case "stop":
				msg.Delta = station.SpeedEStop
			case "dir":
				msg.Direction = true
			default:
				c.Err(fmt.Errorf("Invalid ACTION: %s", c.Args[1]))
				return
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// LocoSpeedCmd sets speed step and direction.
	LocoSpeedCmd = ishell.Cmd{
		Name:    "loco.speed",
		Aliases: []string{"lv"},
		Help:    "SLOT STEP [fwd|rev]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			step, ok := argInt(c, 1, "STEP")
			if !ok {
				return
			}
			if step < 0 {
				c.Err(fmt.Errorf("Invalid STEP: %d", step))
				return
			}
			msg := msgs.LocoSpeed{LocoSpeed: pb.LocoSpeed{Slot: int32(slot), SpeedStep: uint32(step), Forward: true}}
			if len(c.Args) > 2 {
				switch c.Args[2] {
				case "fwd", "f":
				case "rev", "r":
					msg.Forward = false
				default:
					c.Err(fmt.Errorf("Invalid DIRECTION: %s", c.Args[2]))
					return
				}
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// LocoModeCmd selects 28 or 128 speed steps.
	LocoModeCmd = ishell.Cmd{
		Name:    "loco.mode",
		Aliases: []string{"lm"},
		Help:    "SLOT 28|128",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			steps, ok := argInt(c, 1, "STEPS")
			if !ok {
				return
			}
			if steps != 28 && steps != 128 {
				c.Err(fmt.Errorf("Invalid STEPS: %d, expect 28 or 128", steps))
				return
			}
			sh.DoCommand(c, &msgs.LocoMode{LocoMode: pb.LocoMode{Slot: int32(slot), Use128: steps == 128}})
		}),
	}

	// LocoBrakeCmd applies or releases the brake.
	LocoBrakeCmd = ishell.Cmd{
		Name:    "loco.brake",
		Aliases: []string{"lb"},
		Help:    "SLOT on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			on, ok := argOnOff(c, 1, "STATE")
			if !ok {
				return
			}
			sh.DoCommand(c, &msgs.LocoBrake{LocoBrake: pb.LocoBrake{Slot: int32(slot), On: on}})
		}),
	}

	// LocoFunctionCmd switches a decoder function F0-F12.
	LocoFunctionCmd = ishell.Cmd{
		Name:    "loco.fn",
		Aliases: []string{"lf"},
		Help:    "SLOT FUNCTION on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			fn, ok := argInt(c, 1, "FUNCTION")
			if !ok {
				return
			}
			on, ok := argOnOff(c, 2, "STATE")
			if !ok {
				return
			}
			if fn < 0 {
				c.Err(fmt.Errorf("Invalid FUNCTION: %d", fn))
				return
			}
			sh.DoCommand(c, &msgs.LocoFunction{LocoFunction: pb.LocoFunction{
				Slot:     int32(slot),
				Function: uint32(fn),
				On:       on,
			}})
		}),
	}

	// LocoConsistCmd sets the consist id, 0 removes it.
	LocoConsistCmd = ishell.Cmd{
		Name:    "loco.consist",
		Aliases: []string{"lc"},
		Help:    "SLOT CONSIST",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			slot, ok := argInt(c, 0, "SLOT")
			if !ok {
				return
			}
			id, ok := argInt(c, 1, "CONSIST")
			if !ok {
				return
			}
			if id < 0 {
				c.Err(fmt.Errorf("Invalid CONSIST: %d", id))
				return
			}
			sh.DoCommand(c, &msgs.LocoConsist{LocoConsist: pb.LocoConsist{Slot: int32(slot), Consist: uint32(id)}})
		}),
	}

	// TurnoutCmd throws or closes a turnout.
	TurnoutCmd = ishell.Cmd{
		Name:    "turnout",
		Aliases: []string{"t"},
		Help:    "ADDRESS thrown|closed",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			addr, ok := argInt(c, 0, "ADDRESS")
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("STATE required"))
				return
			}
			var thrown bool
			switch c.Args[1] {
			case "thrown", "t", "1":
				thrown = true
			case "closed", "c", "0":
			default:
				c.Err(fmt.Errorf("Invalid STATE: %s", c.Args[1]))
				return
			}
			if addr < 0 {
				c.Err(fmt.Errorf("Invalid ADDRESS: %d", addr))
				return
			}
			sh.DoCommand(c, &msgs.TurnoutSet{TurnoutSet: pb.TurnoutSet{Address: uint32(addr), Thrown: thrown}})
		}),
	}

	// POMCmd writes a CV on the main track.
	POMCmd = ishell.Cmd{
		Name:    "pom",
		Aliases: []string{"p"},
		Help:    "ADDRESS(S3|L4014|A12) CV VALUE(255|B3|X3)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDRESS required"))
				return
			}
			cv, ok := argInt(c, 1, "CV")
			if !ok {
				return
			}
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("VALUE required"))
				return
			}
			sh.DoCommand(c, &msgs.POMWrite{POMWrite: pb.POMWrite{
				Address: c.Args[0],
				Cv:      int32(cv),
				Value:   c.Args[2],
			}})
		}),
	}

	// ServiceCmd enters or leaves service mode.
	ServiceCmd = ishell.Cmd{
		Name:    "service",
		Aliases: []string{"svc"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			on, ok := argOnOff(c, 0, "STATE")
			if !ok {
				return
			}
			sh.DoCommand(c, &msgs.ServiceModeSet{ServiceModeSet: pb.ServiceModeSet{Enter: on}})
		}),
	}

	// CVWriteCmd writes a CV on the programming track.
	CVWriteCmd = ishell.Cmd{
		Name:    "cv.write",
		Aliases: []string{"cw"},
		Help:    "CV VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			cv, ok := argInt(c, 0, "CV")
			if !ok {
				return
			}
			val, ok := argInt(c, 1, "VALUE")
			if !ok {
				return
			}
			sh.DoCommand(c, &msgs.CVWrite{CVWrite: pb.CVWrite{Cv: int32(cv), Value: int32(val)}})
		}),
	}

	// CVReadCmd starts reading a CV, the value arrives as an event.
	CVReadCmd = ishell.Cmd{
		Name:    "cv.read",
		Aliases: []string{"cr"},
		Help:    "CV",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			cv, ok := argInt(c, 0, "CV")
			if !ok {
				return
			}
			if _, err := sh.DoCommand(c, &msgs.CVRead{CVRead: pb.CVRead{Cv: int32(cv)}}); err == nil {
				if s := sh.ShellFrom(c); !s.ShowEvents {
					c.Println("use 'events on' to see the result")
				}
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&PowerCmd,
		&EStopCmd,
		&RosterCmd,
		&LocoAcquireCmd,
		&LocoReleaseCmd,
		&LocoStepCmd,
		&LocoSpeedCmd,
		&LocoModeCmd,
		&LocoBrakeCmd,
		&LocoFunctionCmd,
		&LocoConsistCmd,
		&TurnoutCmd,
		&POMCmd,
		&ServiceCmd,
		&CVWriteCmd,
		&CVReadCmd,
	)
}
