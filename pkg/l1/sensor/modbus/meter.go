// Package modbus reads bus current and voltage from a Modbus TCP power meter.
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

// Defaults
const (
	DefaultPort    = "502"
	DefaultTimeout = 50 * time.Millisecond
)

// Config defines the meter register layout.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration

	// Input registers holding the raw readings.
	CurrentRegister uint16
	VoltageRegister uint16
	// Scale converts raw register values to mA and V.
	CurrentScale float64
	VoltageScale float64
	// ModeRegister, when set, is a holding register receiving the
	// sampling mode (0 averaging, 1 trigger).
	ModeRegister *uint16
}

func init() {
	sensor.Register("modbus", func(u *url.URL) (sensor.Sensor, error) {
		conf, err := ParseURL(u)
		if err != nil {
			return nil, err
		}
		return New(conf)
	})
}

// ParseURL parses modbus://host[:port]/unit?current=R&voltage=R&current_scale=F&voltage_scale=F&mode=R
func ParseURL(u *url.URL) (conf Config, err error) {
	conf = Config{
		Endpoint:        u.Host,
		UnitID:          1,
		Timeout:         DefaultTimeout,
		CurrentRegister: 0,
		VoltageRegister: 1,
		CurrentScale:    1,
		VoltageScale:    0.01,
	}
	if conf.Endpoint == "" {
		return conf, errors.New("modbus sensor: endpoint required")
	}
	if u.Port() == "" {
		conf.Endpoint += ":" + DefaultPort
	}
	if unit := strings.Trim(u.Path, "/"); unit != "" {
		n, err := strconv.ParseUint(unit, 10, 8)
		if err != nil {
			return conf, fmt.Errorf("modbus sensor: invalid unit id %q", unit)
		}
		conf.UnitID = uint8(n)
	}
	q := u.Query()
	regs := []struct {
		key string
		val *uint16
	}{
		{"current", &conf.CurrentRegister},
		{"voltage", &conf.VoltageRegister},
	}
	for _, r := range regs {
		if s := q.Get(r.key); s != "" {
			n, err := strconv.ParseUint(s, 10, 16)
			if err != nil {
				return conf, fmt.Errorf("modbus sensor: invalid %s register %q", r.key, s)
			}
			*r.val = uint16(n)
		}
	}
	scales := []struct {
		key string
		val *float64
	}{
		{"current_scale", &conf.CurrentScale},
		{"voltage_scale", &conf.VoltageScale},
	}
	for _, sc := range scales {
		if s := q.Get(sc.key); s != "" {
			if *sc.val, err = strconv.ParseFloat(s, 64); err != nil {
				return conf, fmt.Errorf("modbus sensor: invalid %s %q", sc.key, s)
			}
		}
	}
	if s := q.Get("mode"); s != "" {
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return conf, fmt.Errorf("modbus sensor: invalid mode register %q", s)
		}
		reg := uint16(n)
		conf.ModeRegister = &reg
	}
	if s := q.Get("timeout_ms"); s != "" {
		ms, err := strconv.Atoi(s)
		if err != nil {
			return conf, fmt.Errorf("modbus sensor: invalid timeout %q", s)
		}
		conf.Timeout = time.Duration(ms) * time.Millisecond
	}
	return conf, nil
}

// Meter is a sensor.Sensor backed by a Modbus TCP power meter.
type Meter struct {
	Config Config

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// New creates a Meter and connects to it.
func New(conf Config) (*Meter, error) {
	h := modbus.NewTCPClientHandler(conf.Endpoint)
	h.Timeout = conf.Timeout
	h.SlaveId = conf.UnitID
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus sensor %s: %v", conf.Endpoint, err)
	}
	glog.Infof("modbus sensor connected to %s unit %d", conf.Endpoint, conf.UnitID)
	return newMeter(conf, h, modbus.NewClient(h)), nil
}

func newMeter(conf Config, h *modbus.TCPClientHandler, c modbus.Client) *Meter {
	return &Meter{Config: conf, handler: h, client: c}
}

// Close closes the TCP connection.
func (m *Meter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handler == nil {
		return nil
	}
	return m.handler.Close()
}

// Sample implements sensor.Sensor.
func (m *Meter) Sample() (float64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return 0, 0, sensor.ErrNotConnected
	}
	current, err := m.readRegister(m.Config.CurrentRegister)
	if err != nil {
		return 0, 0, err
	}
	voltage, err := m.readRegister(m.Config.VoltageRegister)
	if err != nil {
		return 0, 0, err
	}
	return float64(current) * m.Config.CurrentScale, float64(voltage) * m.Config.VoltageScale, nil
}

// SetMode implements sensor.Sensor.
func (m *Meter) SetMode(mode sensor.Mode) error {
	if m.Config.ModeRegister == nil {
		glog.V(2).Infof("modbus sensor: no mode register, %s ignored", mode)
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return sensor.ErrNotConnected
	}
	_, err := m.client.WriteSingleRegister(*m.Config.ModeRegister, uint16(mode))
	return err
}

func (m *Meter) readRegister(reg uint16) (uint16, error) {
	data, err := m.client.ReadInputRegisters(reg, 1)
	if err != nil {
		return 0, err
	}
	if len(data) < 2 {
		return 0, fmt.Errorf("modbus sensor: short response for register %d", reg)
	}
	return binary.BigEndian.Uint16(data), nil
}
