package station

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireLoco(t *testing.T) {
	h := newHarness(t, testConfig(2, LocoConfig{Address: 3}), false)
	st := h.st

	i, err := st.AcquireLoco(3, false)
	require.NoError(t, err)
	require.Equal(t, 0, i)

	i, err = st.AcquireLoco(5, false)
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.True(t, st.Locos[1].Use128)
	require.True(t, st.Locos[1].Forward)

	// the short and long address spaces are distinct
	require.Equal(t, -1, st.FindLoco(5, true, true))
	require.Equal(t, 1, st.FindLoco(5, false, true))

	_, err = st.AcquireLoco(0, false)
	require.Error(t, err)
	_, err = st.AcquireLoco(200, false)
	require.Error(t, err)
}

func TestAcquireLocoBumpsOldestStationary(t *testing.T) {
	h := newHarness(t, testConfig(2, LocoConfig{Address: 3}, LocoConfig{Address: 4}), false)
	st := h.st
	require.Equal(t, uint16(2), st.Locos[0].History)
	require.Equal(t, uint16(1), st.Locos[1].History)

	i, err := st.AcquireLoco(7, false)
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.Equal(t, uint16(7), st.Locos[1].Address)

	// moving locos and consist members are never bumped
	require.NoError(t, st.SetLocoSpeed(1, 10, true))
	require.NoError(t, st.SetConsist(0, 2))
	_, err = st.AcquireLoco(9, false)
	require.Equal(t, ErrSlotExhausted, err)
}

func TestReleaseLoco(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	require.NoError(t, h.st.ReleaseLoco(0))
	require.True(t, h.st.Locos[0].Empty())
	require.Equal(t, ErrNoSuchLoco, h.st.ReleaseLoco(1))
	require.Equal(t, ErrNoSuchLoco, h.st.SetLoco(0, SpeedUp, false))
	changes := h.st.UpdateLocalMachine()
	require.Equal(t, []int{0}, changes.Locos)
}

func TestSetLoco(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3, SpeedSteps: 28}), false)
	st := h.st
	l := &st.Locos[0]

	require.NoError(t, st.SetLoco(0, SpeedDown, false))
	require.Equal(t, uint8(0), l.SpeedStep)

	// stationary: direction reverses
	require.NoError(t, st.SetLoco(0, 0, true))
	require.False(t, l.Forward)

	for i := 0; i < 30; i++ {
		require.NoError(t, st.SetLoco(0, SpeedUp, false))
	}
	require.Equal(t, uint8(28), l.SpeedStep)

	// moving: nudged instead of reversed
	require.NoError(t, st.SetLoco(0, 0, true))
	require.False(t, l.Forward)
	require.Equal(t, uint8(nudgePulses), l.Nudge)

	require.NoError(t, st.SetLoco(0, SpeedEStop, false))
	require.Equal(t, uint8(0), l.SpeedStep)
	require.Equal(t, uint8(LocoEStopTimeout), l.EStopTimer)
}

func TestSetLocoModeRescales(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	st := h.st
	require.NoError(t, st.SetLocoSpeed(0, 63, true))
	require.NoError(t, st.SetLocoMode(0, false))
	require.False(t, st.Locos[0].Use128)
	require.Equal(t, uint8(14), st.Locos[0].SpeedStep)
	require.NoError(t, st.SetLocoMode(0, true))
	require.Equal(t, uint8(63), st.Locos[0].SpeedStep)

	require.NoError(t, st.SetLocoSpeed(0, 200, true))
	require.Equal(t, uint8(126), st.Locos[0].SpeedStep)
}

func TestSetFunction(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	st := h.st
	require.NoError(t, st.SetFunction(0, 0, true))
	require.NoError(t, st.SetFunction(0, 12, true))
	require.Equal(t, uint16(0x1001), st.Locos[0].Functions)
	require.NoError(t, st.SetFunction(0, 0, false))
	require.Equal(t, uint16(0x1000), st.Locos[0].Functions)
	require.Equal(t, ErrInvalidFunction, st.SetFunction(0, 13, true))
	require.True(t, st.Locos[0].Changed())
}

func TestConsistReplication(t *testing.T) {
	h := newHarness(t, testConfig(3,
		LocoConfig{Address: 3, Consist: 1},
		LocoConfig{Address: 4, Consist: 1, SpeedSteps: 28},
		LocoConfig{Address: 5},
	), false)
	st := h.st

	require.NoError(t, st.SetLocoSpeed(0, 63, true))
	require.NoError(t, st.SetFunction(0, 1, true))
	changes := st.UpdateLocalMachine()
	require.Equal(t, []int{0, 1}, changes.Locos)
	require.Equal(t, uint8(14), st.Locos[1].SpeedStep)
	require.Equal(t, uint16(0x02), st.Locos[1].Functions)
	require.True(t, st.Locos[1].Forward)
	require.Equal(t, uint8(0), st.Locos[2].SpeedStep)

	require.NoError(t, st.SetLocoSpeed(0, 63, false))
	st.UpdateLocalMachine()
	require.False(t, st.Locos[1].Forward)

	require.Empty(t, st.UpdateLocalMachine().Locos)
}

func TestTurnouts(t *testing.T) {
	conf := testConfig(1, LocoConfig{Address: 3})
	conf.MaxTurnout = 2
	h := newHarness(t, conf, false)
	st := h.st

	i, err := st.SetTurnout(10, true)
	require.NoError(t, err)
	require.Equal(t, 0, i)
	i, err = st.SetTurnout(11, false)
	require.NoError(t, err)
	require.Equal(t, 1, i)
	i, err = st.SetTurnout(10, false)
	require.NoError(t, err)
	require.Equal(t, 0, i)

	// least recently used slot is reused
	i, err = st.SetTurnout(12, true)
	require.NoError(t, err)
	require.Equal(t, 1, i)

	_, err = st.SetTurnout(0, true)
	require.Error(t, err)
	_, err = st.SetTurnout(2048, true)
	require.Error(t, err)

	// one staged accessory per update
	require.Equal(t, []int{0}, st.UpdateLocalMachine().Turnouts)
	require.Empty(t, st.UpdateLocalMachine().Turnouts, "accessory family owns the buffer")
	h.next()
	require.Equal(t, []int{1}, st.UpdateLocalMachine().Turnouts)
}

func TestTurnoutPendingInServiceMode(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	enterService(t, h)
	_, err := h.st.SetTurnout(10, true)
	require.NoError(t, err)
	require.Empty(t, h.st.UpdateLocalMachine().Turnouts)
	require.Equal(t, FamilyService, h.st.Family)
	require.True(t, h.st.Turnouts[0].Changed())

	require.True(t, h.st.WriteServiceCommand(0, 0, false, false, true))
	require.Equal(t, []int{0}, h.st.UpdateLocalMachine().Turnouts)
	require.Equal(t, FamilyAccessory, h.st.Family)
}
