package station

import (
	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l1/sensor"
)

// Power monitor defaults.
const (
	// CurrentSmoothing is the weight of a new sample in the moving
	// average, settling to 90% in 10 samples.
	CurrentSmoothing = 0.2
	// BootQuiescent is the assumed idle current when power comes on. It
	// tracks down to the real minimum.
	BootQuiescent = 250
	// ServiceTripMilliAmps is the trip threshold above quiescent on the
	// programming track.
	ServiceTripMilliAmps = 250
	// EStopMilliAmps replaces the held reading when an emergency stop
	// clears a trip, so the held value does not trip again.
	EStopMilliAmps = 50
	// DefaultCurrentLimit is the main track trip threshold in mA.
	DefaultCurrentLimit = 1000
	// DefaultVoltageLimit is the over-voltage trip threshold in V.
	DefaultVoltageLimit = 15
)

// PowerMonitor samples the bus on every 10ms tick and trips the track
// power on overload.
type PowerMonitor struct {
	Sensor       sensor.Sensor
	CurrentLimit float64
	VoltageLimit float64

	State PowerState

	mode sensor.Mode
}

// NewPowerMonitor creates a PowerMonitor with default limits.
func NewPowerMonitor(s sensor.Sensor) *PowerMonitor {
	return &PowerMonitor{
		Sensor:       s,
		CurrentLimit: DefaultCurrentLimit,
		VoltageLimit: DefaultVoltageLimit,
		State:        PowerState{Quiescent: BootQuiescent},
	}
}

// Update takes one sample and evaluates the trip conditions. It reports
// whether the power tripped on this sample. A tripped monitor holds the
// readings until the trip is cleared.
func (m *PowerMonitor) Update() bool {
	st := &m.State
	if st.Trip || m.Sensor == nil {
		return false
	}
	ma, volts, err := m.Sensor.Sample()
	if err != nil {
		glog.Warningf("power monitor: sample error: %v", err)
		return false
	}
	st.BusVolts = volts
	st.BusMilliAmps = ma*CurrentSmoothing + (1-CurrentSmoothing)*st.BusMilliAmps
	if st.BusMilliAmps < st.Quiescent {
		st.Quiescent = st.BusMilliAmps
	}

	if st.ServiceMode {
		if st.BusMilliAmps-st.Quiescent > ServiceTripMilliAmps {
			glog.Warningf("service mode power trip: %.0fmA (quiescent %.0fmA)", st.BusMilliAmps, st.Quiescent)
			st.Trip = true
		}
	} else if st.BusMilliAmps > m.CurrentLimit {
		glog.Warningf("power trip: %.0fmA > %.0fmA", st.BusMilliAmps, m.CurrentLimit)
		st.Trip = true
	}
	if st.BusVolts > m.VoltageLimit {
		glog.Warningf("voltage trip: %.1fV > %.1fV", st.BusVolts, m.VoltageLimit)
		st.Trip = true
	}
	if st.Trip {
		st.TrackPower = false
	}
	return st.Trip
}

// SetMode switches the sensor sampling mode.
func (m *PowerMonitor) SetMode(mode sensor.Mode) {
	m.mode = mode
	if m.Sensor == nil {
		return
	}
	if err := m.Sensor.SetMode(mode); err != nil {
		glog.Warningf("power monitor: set %s mode error: %v", mode, err)
	}
}

// Mode returns the last requested sampling mode.
func (m *PowerMonitor) Mode() sensor.Mode {
	return m.mode
}

// Arm captures the acknowledgement baseline and starts a trigger capture.
func (m *PowerMonitor) Arm() {
	m.State.AckBase = m.State.BusMilliAmps
	m.SetMode(sensor.Trigger)
}

// AckSample reads the capture taken in trigger mode.
func (m *PowerMonitor) AckSample() float64 {
	if m.Sensor == nil {
		return m.State.AckBase
	}
	ma, _, err := m.Sensor.Sample()
	if err != nil {
		glog.Warningf("power monitor: ack sample error: %v", err)
		return m.State.AckBase
	}
	return ma
}

// Recover clears a trip, substituting a safe reading.
func (m *PowerMonitor) Recover() {
	m.State.BusMilliAmps = EStopMilliAmps
	m.State.Trip = false
	m.State.TrackPower = true
	m.SetMode(sensor.Averaging)
}
