package station

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

type burst struct {
	bytes []byte
	n     int
}

// runService collects the transmissions of one operation up to the
// idle packet which follows it.
func runService(t *testing.T, cv CVState) []burst {
	var seq []burst
	for i := 0; i < 1000; i++ {
		r := ServiceStep(cv, ServiceInput{})
		cv = r.CV
		if r.Packet == nil {
			require.NotEmpty(t, seq)
			seq[len(seq)-1].n++
			continue
		}
		if !r.Packet.LongPreamble {
			require.Equal(t, CVIdle, cv.State)
			return seq
		}
		seq = append(seq, burst{bytes: r.Packet.Bytes(), n: 1})
	}
	require.FailNow(t, "service operation did not finish")
	return nil
}

func TestServiceWriteSequences(t *testing.T) {
	reset := []byte{0, 0, 0}
	tests := []struct {
		name   string
		state  ServiceState
		reg    uint16
		data   int
		expect []burst
	}{
		{"direct", DStart, 1, 5, []burst{
			{reset, 10},
			{[]byte{0x7c, 0x00, 0x05, 0x79}, 6},
			{reset, 10},
		}},
		{"direct high CV", DStart, 1024, 0xff, []burst{
			{reset, 10},
			{[]byte{0x7f, 0xff, 0xff, 0x7f}, 6},
			{reset, 10},
		}},
		{"paged", PGStart, 1, 3, []burst{
			{reset, 10},
			{[]byte{0x7d, 0x01, 0x7c}, 6},
			{reset, 10},
			{[]byte{0x78, 0x03, 0x7b}, 6},
			{reset, 10},
		}},
		{"paged page 2", PGStart, 6, 9, []burst{
			{reset, 10},
			{[]byte{0x7d, 0x02, 0x7f}, 6},
			{reset, 10},
			{[]byte{0x79, 0x09, 0x70}, 6},
			{reset, 10},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cv := CVState{State: tc.state, Data: tc.data}
			cv.SetReg(tc.reg)
			require.Equal(t, tc.expect, runService(t, cv))
		})
	}
}

func TestServiceReadFinalEvaluatesAck(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		ack    bool
		data   int
	}{
		{"ack", 85, true, 1},
		{"no ack", 60, false, 0},
		{"at threshold", 70, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cv := CVState{State: RDFinal, Count: 1, Bit: 7}
			r := ServiceStep(cv, ServiceInput{AckBase: 50, AckSample: tc.sample})
			require.Nil(t, r.Packet)
			require.Equal(t, tc.ack, r.Ack)
			require.Equal(t, tc.data, r.CV.Data)
			require.Equal(t, 6, r.CV.Bit)
			require.Equal(t, RDStart, r.CV.State)
			require.False(t, r.Complete)
		})
	}
}

func TestServiceReadVerifyByte(t *testing.T) {
	cv := CVState{State: RDFinal, Count: 1, Bit: -1, Data: 0x191}
	r := ServiceStep(cv, ServiceInput{AckBase: 40, AckSample: 100})
	require.True(t, r.Complete)
	require.True(t, r.Disarm)
	require.Equal(t, 0x91, r.CV.Data)
	require.Equal(t, CVIdle, r.CV.State)

	r = ServiceStep(cv, ServiceInput{AckBase: 40, AckSample: 40})
	require.True(t, r.Complete)
	require.Equal(t, CVUnknown, r.CV.Data)
}

func TestServiceReadArmsOnVerify(t *testing.T) {
	cv := CVState{State: RDVerify, Bit: 3}
	cv.SetReg(8)
	r := ServiceStep(cv, ServiceInput{})
	require.True(t, r.Arm)
	require.Equal(t, []byte{0x78, 0x07, 0xeb, 0x94}, r.Packet.Bytes())
	require.True(t, r.Packet.LongPreamble)
	require.Equal(t, RDReset, r.CV.State)
}

func enterService(t *testing.T, h *harness) {
	require.True(t, h.st.WriteServiceCommand(0, 0, false, true, false))
	require.Equal(t, FamilyService, h.st.Family)
	require.True(t, h.st.Power.State.ServiceMode)
}

func TestServiceCommandValidation(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	require.False(t, h.st.WriteServiceCommand(1, 5, false, false, false), "not in service mode")
	enterService(t, h)
	require.False(t, h.st.WriteServiceCommand(0, 5, false, false, false))
	require.False(t, h.st.WriteServiceCommand(MaxCV+1, 5, false, false, false))
	require.False(t, h.st.WriteServiceCommand(1, 256, false, false, false))
	require.True(t, h.st.WriteServiceCommand(1, 5, false, false, false))
	require.False(t, h.st.WriteServiceCommand(2, 5, false, false, false), "busy")
	require.False(t, h.st.WritePOMCommand("S3", 1, "B1"), "POM in service mode")

	require.True(t, h.st.WriteServiceCommand(0, 0, false, false, true))
	require.Equal(t, FamilyLoco, h.st.Family)
	require.False(t, h.st.Power.State.ServiceMode)
	require.False(t, h.st.CV.Busy())
}

func TestServiceDirectWriteToDecoder(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	enterService(t, h)
	require.True(t, h.st.WriteServiceCommand(29, 6, false, false, false))
	for i := 0; i < 100 && h.st.CV.Busy(); i++ {
		h.next()
	}
	require.False(t, h.st.CV.Busy())
	val, ok := h.sim.CV(29)
	require.True(t, ok)
	require.Equal(t, byte(6), val)
}

func TestServicePagedWriteToDecoder(t *testing.T) {
	conf := testConfig(1, LocoConfig{Address: 3})
	conf.PagedMode = true
	h := newHarness(t, conf, true)
	enterService(t, h)
	require.True(t, h.st.WriteServiceCommand(6, 9, false, false, false))
	require.Equal(t, PGStart, h.st.CV.State)
	for i := 0; i < 100 && h.st.CV.Busy(); i++ {
		h.next()
	}
	val, ok := h.sim.CV(6)
	require.True(t, ok)
	require.Equal(t, byte(9), val)
}

func TestServiceReadFromDecoder(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), true)
	var results []ReadResult
	h.st.OnReadResult = func(cv, value int) {
		results = append(results, ReadResult{CV: cv, Value: value})
	}
	// settle the averaged bus current
	h.ticks(100)
	enterService(t, h)
	require.True(t, h.st.WriteServiceCommand(8, 0, true, false, false))
	require.Equal(t, sensor.Trigger, h.sim.Mode())
	for i := 0; i < 1000 && h.st.CV.Busy(); i++ {
		h.next()
	}
	require.Equal(t, []ReadResult{{CV: 8, Value: sensor.DefaultSimDecoderCV8}}, results)
	last, ok := h.st.LastRead()
	require.True(t, ok)
	require.Equal(t, sensor.DefaultSimDecoderCV8, last.Value)
	require.Equal(t, sensor.Averaging, h.sim.Mode())
	require.True(t, h.st.Power.State.Ack)
}

func TestServiceReadTimeout(t *testing.T) {
	h := newHarness(t, testConfig(1, LocoConfig{Address: 3}), false)
	var results []ReadResult
	h.st.OnReadResult = func(cv, value int) {
		results = append(results, ReadResult{CV: cv, Value: value})
	}
	enterService(t, h)
	require.True(t, h.st.WriteServiceCommand(1, 0, true, false, false))
	h.ticks(CVTimeout * TicksPerQuarterSecond)
	require.False(t, h.st.CV.Busy())
	require.Equal(t, []ReadResult{{CV: 1, Value: CVUnknown}}, results)
	require.Equal(t, sensor.Averaging, h.st.Power.Mode())
}
