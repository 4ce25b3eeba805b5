// Package sensor provides bus current and voltage sensors.
package sensor

import (
	"errors"
	"fmt"
	"net/url"
)

// Mode selects how the sensor samples.
type Mode int

// Sampling modes.
const (
	// Averaging continuously averages over the sampling window.
	Averaging Mode = iota
	// Trigger takes a one-shot high resolution capture, used to catch
	// the acknowledgement pulse of a decoder.
	Trigger
)

func (m Mode) String() string {
	switch m {
	case Averaging:
		return "averaging"
	case Trigger:
		return "trigger"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Sensor measures the track bus.
type Sensor interface {
	// Sample returns bus current (mA) and voltage (V).
	Sample() (milliAmps, volts float64, err error)
	// SetMode switches the sampling mode.
	SetMode(Mode) error
}

var (
	// ErrNotConnected indicates the sensor is not reachable.
	ErrNotConnected = errors.New("sensor not connected")
	// ErrUnsupportedURL indicates the sensor URL scheme is unknown.
	ErrUnsupportedURL = errors.New("unsupported sensor url")
)

// Factory creates a Sensor from a parsed URL.
type Factory func(*url.URL) (Sensor, error)

var factories = map[string]Factory{
	"sim": func(*url.URL) (Sensor, error) { return NewSim(), nil },
}

// Register adds a Factory for a URL scheme.
func Register(scheme string, f Factory) {
	factories[scheme] = f
}

// Open creates a sensor from a URL like "sim:" or
// "modbus://host:502/1?current=0&voltage=1".
func Open(rawURL string) (Sensor, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse sensor url %q: %v", rawURL, err)
	}
	f, ok := factories[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	return f(u)
}
