package station

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

// harness plays the transmitter: every next() frees the buffer, runs
// the encoder and returns what goes on the track.
type harness struct {
	t    *testing.T
	st   *Station
	buf  *dcc.Buffer
	sim  *sensor.Sim
	last dcc.Packet
	// fresh is false when the encoder left the previous packet.
	fresh bool
}

func newHarness(t *testing.T, conf *Config, withSim bool) *harness {
	h := &harness{t: t, buf: dcc.NewBuffer()}
	h.last, _ = h.buf.Take()
	var s sensor.Sensor
	if withSim {
		h.sim = sensor.NewSim()
		s = h.sim
	}
	h.st = New(conf, h.buf, s)
	return h
}

func (h *harness) next() dcc.Packet {
	require.True(h.t, h.st.Encode())
	var p dcc.Packet
	if p, h.fresh = h.buf.Take(); h.fresh {
		h.last = p
	}
	if h.sim != nil {
		h.sim.HandlePacket(context.Background(), &h.last)
	}
	return h.last
}

func (h *harness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.st.Tick()
	}
}

func testConfig(maxLoco int, locos ...LocoConfig) *Config {
	conf := NewConfig()
	conf.MaxLoco = maxLoco
	conf.Locos = locos
	return conf
}

func TestEncodeEmptyRosterSendsIdle(t *testing.T) {
	h := newHarness(t, testConfig(2), false)
	for i := 0; i < 8; i++ {
		p := h.next()
		require.Equal(t, dcc.IdlePacket.Bytes(), p.Bytes())
	}
}

func TestEncodeRoundRobin(t *testing.T) {
	h := newHarness(t, testConfig(2, LocoConfig{Address: 3, SpeedSteps: 28}), false)
	require.NoError(t, h.st.SetLocoSpeed(0, 15, true))

	tests := []struct {
		name  string
		bytes []byte
	}{
		{"speed", []byte{0x03, 0x69, 0x6a}},
		{"F0-F4", []byte{0x03, 0x80, 0x83}},
		{"empty slot", dcc.IdlePacket.Bytes()},
		{"F5-F8", []byte{0x03, 0xb0, 0xb3}},
		{"speed again", []byte{0x03, 0x69, 0x6a}},
	}
	for _, tc := range tests {
		p := h.next()
		require.Equal(t, tc.bytes, p.Bytes(), tc.name)
	}
}

func TestEncodeSpeed(t *testing.T) {
	tests := []struct {
		name  string
		loco  Loco
		bytes []byte
	}{
		{"128 forward", Loco{Address: 3, Use128: true, SpeedStep: 15, Forward: true}, []byte{0x03, 0x3f, 0x90, 0xac}},
		{"128 stop reverse", Loco{Address: 3, Use128: true}, []byte{0x03, 0x3f, 0x00, 0x3c}},
		{"28 forward", Loco{Address: 3, SpeedStep: 15, Forward: true}, []byte{0x03, 0x69, 0x6a}},
		{"brake halves", Loco{Address: 3, Use128: true, SpeedStep: 20, Forward: true, Brake: true}, []byte{0x03, 0x3f, 0x8b, 0xb7}},
		{"estop keeps direction", Loco{Address: 3, Use128: true, SpeedStep: 20, Forward: true, EStopTimer: 2}, []byte{0x03, 0x3f, 0x81, 0xbd}},
		{"28 estop", Loco{Address: 3, Forward: true, EStopTimer: 2}, []byte{0x03, 0x61, 0x62}},
		{"long address", Loco{Address: 4014, LongAddress: true, Use128: true, Forward: true}, []byte{0xcf, 0xae, 0x3f, 0x80, 0xde}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.loco
			p := EncodeSpeed(&l)
			require.True(t, p.Valid())
			require.Equal(t, tc.bytes, p.Bytes())
		})
	}
}

func TestEncodeSpeedNudge(t *testing.T) {
	l := Loco{Address: 3, Use128: true, SpeedStep: 10, Forward: true, Nudge: 1}
	p := EncodeSpeed(&l)
	require.Equal(t, []byte{0x03, 0x3f, 0xff, 0xc3}, p.Bytes())
	require.Equal(t, uint8(0), l.Nudge)
	p = EncodeSpeed(&l)
	require.Equal(t, []byte{0x03, 0x3f, 0x8b, 0xb7}, p.Bytes())

	// even counts reverse the pulse
	l.Nudge = 2
	p = EncodeSpeed(&l)
	require.Equal(t, []byte{0x03, 0x3f, 0x7f, 0x43}, p.Bytes())
}

func TestEncodeEStop(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3, SpeedSteps: 28}), false)
	require.NoError(t, h.st.SetLocoSpeed(0, 15, true))
	h.st.EStop()
	p := h.next()
	require.Equal(t, dcc.EStopPacket.Bytes(), p.Bytes())
	require.Equal(t, FamilyLoco, h.st.Family)
	require.Equal(t, uint8(0), h.st.Locos[0].SpeedStep)

	p = h.next()
	require.Equal(t, []byte{0x03, 0x61, 0x62}, p.Bytes())
	require.Equal(t, ErrEStopActive, h.st.SetLoco(0, SpeedUp, false))

	h.ticks(LocoEStopTimeout * TicksPerQuarterSecond)
	require.NoError(t, h.st.SetLoco(0, SpeedUp, false))
	require.Equal(t, uint8(1), h.st.Locos[0].SpeedStep)
}

func TestEncodeEStopRestoresPower(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	h.st.PowerOff()
	require.False(t, h.buf.TrackPower())
	h.st.EStop()
	h.next()
	require.True(t, h.st.Power.State.TrackPower)
	require.True(t, h.buf.TrackPower())
}

func TestEncodeEStopNotOverridden(t *testing.T) {
	cases := []struct {
		name    string
		request func(s *Station) bool
	}{
		{"pom", func(s *Station) bool { return s.WritePOMCommand("S3", 29, "B6") }},
		{"service enter", func(s *Station) bool { return s.WriteServiceCommand(0, 0, false, true, false) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, testConfig(1, LocoConfig{Address: 3, SpeedSteps: 28}), false)
			require.NoError(t, h.st.SetLocoSpeed(0, 15, true))
			h.st.EStop()
			require.False(t, tc.request(h.st))
			require.Equal(t, FamilyEStop, h.st.Family)
			require.False(t, h.st.Power.State.ServiceMode)

			p := h.next()
			require.Equal(t, dcc.EStopPacket.Bytes(), p.Bytes())
			require.Equal(t, uint8(LocoEStopTimeout), h.st.Locos[0].EStopTimer)
			require.Equal(t, uint8(0), h.st.Locos[0].SpeedStep)

			require.True(t, tc.request(h.st))
		})
	}
}

func TestEncodeAccessory(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	i, err := h.st.SetTurnout(10, true)
	require.NoError(t, err)
	require.Equal(t, 0, i)
	changes := h.st.UpdateLocalMachine()
	require.Equal(t, []int{0}, changes.Turnouts)
	require.Equal(t, FamilyAccessory, h.st.Family)

	p := h.next()
	expected := dcc.AccessoryPacket(10, true)
	require.Equal(t, expected.Bytes(), p.Bytes())
	require.Equal(t, FamilyLoco, h.st.Family)
}

func TestEncodePOMSentFourTimes(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	require.True(t, h.st.WritePOMCommand("S3", 29, "B6"))
	require.Equal(t, FamilyPOM, h.st.Family)

	pom := []byte{0x03, 0xec, 0x1c, 0x06, 0xf5}
	for i := 0; i < POMRepeats; i++ {
		p := h.next()
		require.Equal(t, pom, p.Bytes(), "transmission %d", i)
		require.Equal(t, i == 0, h.fresh)
	}
	p := h.next()
	require.True(t, h.fresh)
	require.Equal(t, byte(0x03), p.Bytes()[0])
	require.Equal(t, dcc.Speed128Instruction, p.Bytes()[1])
	require.Equal(t, FamilyFunction, h.st.Family)
	require.False(t, h.st.POM.Pending())
}

func TestEncodeNotFreeRepeats(t *testing.T) {
	buf := dcc.NewBuffer()
	st := New(testConfig(1, LocoConfig{Address: 3}), buf, nil)
	require.False(t, st.Encode())
	require.Equal(t, uint64(0), st.Packets())
	buf.Take()
	require.True(t, st.Encode())
	require.False(t, st.Encode())
	require.Equal(t, uint64(1), st.Packets())
}
