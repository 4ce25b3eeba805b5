package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l0/dcc"
	env "github.com/robotalks/dcc.go/pkg/l1/env/controller"
	"github.com/robotalks/dcc.go/pkg/l1/sensor"
	"github.com/robotalks/dcc.go/pkg/l1/station"
	"github.com/robotalks/dcc.go/pkg/l1/telemetry"

	_ "github.com/robotalks/dcc.go/pkg/l1/sensor/modbus"
)

var (
	sensorURL = "sim:"
	drive     = "dcc"
	pwmAddr   = 3
)

func init() {
	if val := os.Getenv("DCC_SENSOR_URL"); val != "" {
		sensorURL = val
	}
	flag.StringVar(&sensorURL, "sensor", sensorURL, "Bus sensor URL, sim: or modbus://host:port/unit?current=R&voltage=R")
	flag.StringVar(&drive, "drive", drive, "Track output: dcc or pwm (conventional DC loco).")
	flag.IntVar(&pwmAddr, "pwm-address", pwmAddr, "Short address the pwm drive follows.")
	env.SetupFlags()
	station.SetupFlags()
	telemetry.SetupFlags()
}

type logMotor struct {
	forward bool
	duty    float64
}

func (m *logMotor) SetDrive(forward bool, duty float64) {
	if forward != m.forward || duty != m.duty {
		m.forward, m.duty = forward, duty
		glog.V(2).Infof("motor forward=%v duty=%.2f", forward, duty)
	}
}

func main() {
	flag.Parse()

	conf, err := station.Load()
	if err != nil {
		glog.Exitf("load station: %v", err)
	}
	s, err := sensor.Open(sensorURL)
	if err != nil {
		glog.Exitf("open sensor: %v", err)
	}

	e := env.NewConfig().MustNewEnv()
	pub, err := telemetry.NewConfig().NewPublisher(e.Config.Info.Ref.ID)
	if err != nil {
		glog.Exit(err)
	}
	if pub != nil {
		e.Registrar.Add(pub)
	}
	buf := dcc.NewBuffer()
	ctl := conf.NewController(e, buf, s)

	loop := framework.NewLoop().Add(e, ctl)

	switch drive {
	case "dcc":
		tx := dcc.NewTransmitter(buf, nil)
		if sim, ok := s.(*sensor.Sim); ok {
			// the simulated decoder listens to the signal
			sniffer := dcc.NewSniffer(sim)
			tx.Tap = sniffer
			loop.AddRunnable(sniffer)
		}
		loop.AddRunnable(tx)
	case "pwm":
		tx := dcc.NewPWMTransmitter(buf, &logMotor{forward: true})
		tx.Address = byte(pwmAddr)
		loop.AddRunnable(tx)
	default:
		glog.Exitf("unknown drive %q", drive)
	}

	glog.Infof("station %s on %v", e.Config.Info.Ref.ID, e.RegistryURLs)
	loop.RunOrFail()
}
