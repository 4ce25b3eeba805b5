package station

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAppliesConfig(t *testing.T) {
	conf := NewConfig()
	conf.Locos = []LocoConfig{{Name: "shunter", Address: 3, SpeedSteps: 28}}
	conf.Turnouts = []TurnoutConfig{{Name: "yard", Address: 12, Thrown: true}}
	conf.CurrentLimit = 1500
	h := newHarness(t, conf, false)

	require.Len(t, h.st.Locos, DefaultMaxLoco)
	require.Len(t, h.st.Turnouts, DefaultMaxTurnout)
	require.Equal(t, "shunter", h.st.Locos[0].Name)
	require.False(t, h.st.Locos[0].Use128)
	require.Equal(t, "yard", h.st.Turnouts[0].Name)
	require.True(t, h.st.Turnouts[0].Thrown)
	require.Equal(t, float64(1500), h.st.Power.CurrentLimit)
	require.True(t, h.st.Power.State.TrackPower)
	require.True(t, h.buf.TrackPower())
}

func TestNewWithoutPowerOnBoot(t *testing.T) {
	conf := testConfig(1)
	conf.PowerOnBoot = false
	h := newHarness(t, conf, false)
	require.False(t, h.st.Power.State.TrackPower)
	h.st.Tick()
	require.False(t, h.buf.TrackPower())

	h.st.PowerOn()
	require.True(t, h.buf.TrackPower())
	require.Equal(t, float64(BootQuiescent), h.st.Power.State.Quiescent)
}

func TestPowerTripAndRecover(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	h.ticks(10)
	require.False(t, h.st.Power.State.Trip)

	h.sim.Overload(5000)
	h.ticks(3)
	require.True(t, h.st.Power.State.Trip)
	require.False(t, h.st.Power.State.TrackPower)
	require.False(t, h.buf.TrackPower())

	// a tripped monitor holds its readings
	held := h.st.Power.State.BusMilliAmps
	h.ticks(3)
	require.Equal(t, held, h.st.Power.State.BusMilliAmps)

	h.sim.Overload(-1)
	h.st.PowerOn()
	require.False(t, h.st.Power.State.Trip)
	require.True(t, h.buf.TrackPower())
	require.Equal(t, float64(EStopMilliAmps), h.st.Power.State.BusMilliAmps)
	h.ticks(10)
	require.False(t, h.st.Power.State.Trip)
}

func TestPowerServiceModeTrip(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	h.ticks(50)
	enterService(t, h)
	h.sim.Overload(400)
	h.ticks(20)
	require.True(t, h.st.Power.State.Trip)
}

func TestPowerVoltageTrip(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	h.sim.Volts = 18
	h.st.Tick()
	require.True(t, h.st.Power.State.Trip)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	h.ticks(TicksPerQuarterSecond)
	h.next()
	enterService(t, h)
	s := h.st.Status()
	require.True(t, s.TrackPower)
	require.True(t, s.ServiceMode)
	require.Equal(t, FamilyService, s.Family)
	require.Equal(t, CVIdle, s.CVState)
	require.Equal(t, uint64(1), s.Quarters)
	require.Equal(t, uint64(1), s.Packets)
	require.InDelta(t, 40, s.BusMilliAmps, 5)
}

func TestTickReportsQuarterSeconds(t *testing.T) {
	h := newHarness(t, testConfig(1), false)
	quarters := 0
	for i := 0; i < 4*TicksPerQuarterSecond; i++ {
		if h.st.Tick() {
			quarters++
		}
	}
	require.Equal(t, 4, quarters)
	require.Equal(t, uint64(4), h.st.Quarters())
}
