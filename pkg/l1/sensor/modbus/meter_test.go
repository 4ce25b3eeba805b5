package modbus

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

type fakeClient struct {
	modbus.Client
	inputs map[uint16]uint16
	writes map[uint16]uint16
	err    error
}

func (c *fakeClient) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	v := c.inputs[address]
	return []byte{byte(v >> 8), byte(v)}, nil
}

func (c *fakeClient) WriteSingleRegister(address, value uint16) ([]byte, error) {
	c.writes[address] = value
	return nil, nil
}

func TestParseURL(t *testing.T) {
	u, err := url.Parse("modbus://meter.local/7?current=10&voltage=12&current_scale=0.5&voltage_scale=0.1&mode=40&timeout_ms=20")
	require.NoError(t, err)
	conf, err := ParseURL(u)
	require.NoError(t, err)
	require.Equal(t, "meter.local:502", conf.Endpoint)
	require.Equal(t, uint8(7), conf.UnitID)
	require.Equal(t, uint16(10), conf.CurrentRegister)
	require.Equal(t, uint16(12), conf.VoltageRegister)
	require.Equal(t, 0.5, conf.CurrentScale)
	require.Equal(t, 0.1, conf.VoltageScale)
	require.NotNil(t, conf.ModeRegister)
	require.Equal(t, uint16(40), *conf.ModeRegister)
	require.Equal(t, 20*time.Millisecond, conf.Timeout)

	u, _ = url.Parse("modbus://10.0.0.2:1502")
	conf, err = ParseURL(u)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.2:1502", conf.Endpoint)
	require.Equal(t, uint8(1), conf.UnitID)
	require.Nil(t, conf.ModeRegister)

	for _, bad := range []string{"modbus:///1", "modbus://h/x", "modbus://h/1?current=-1", "modbus://h/1?voltage_scale=v"} {
		u, _ = url.Parse(bad)
		_, err = ParseURL(u)
		require.Error(t, err, bad)
	}
}

func TestMeterSample(t *testing.T) {
	c := &fakeClient{
		inputs: map[uint16]uint16{0: 120, 1: 1420},
		writes: make(map[uint16]uint16),
	}
	m := newMeter(Config{VoltageRegister: 1, CurrentScale: 1, VoltageScale: 0.01}, nil, c)
	ma, v, err := m.Sample()
	require.NoError(t, err)
	require.Equal(t, 120.0, ma)
	require.InDelta(t, 14.2, v, 1e-9)

	c.err = errors.New("timeout")
	_, _, err = m.Sample()
	require.EqualError(t, err, "timeout")
	require.NoError(t, m.Close())
}

func TestMeterSetMode(t *testing.T) {
	c := &fakeClient{writes: make(map[uint16]uint16)}
	m := newMeter(Config{}, nil, c)
	require.NoError(t, m.SetMode(sensor.Trigger))
	require.Empty(t, c.writes)

	reg := uint16(40)
	m.Config.ModeRegister = &reg
	require.NoError(t, m.SetMode(sensor.Trigger))
	require.Equal(t, uint16(1), c.writes[40])
	require.NoError(t, m.SetMode(sensor.Averaging))
	require.Equal(t, uint16(0), c.writes[40])
}

func TestMeterNotConnected(t *testing.T) {
	m := &Meter{}
	_, _, err := m.Sample()
	require.Equal(t, sensor.ErrNotConnected, err)
}
