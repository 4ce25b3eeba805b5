package controller

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l1"
	"github.com/robotalks/dcc.go/pkg/l1/comm"
	"github.com/robotalks/dcc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/dcc.go/pkg/l1/comm/stream"
	"github.com/robotalks/dcc.go/pkg/l1/comm/websocket"
	"github.com/robotalks/dcc.go/pkg/l1/env"
)

// Config provides common options to setup an env for the station.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// HTTPListen is the address of the websocket and status endpoints.
	HTTPListen string
	// TCPListen is the address of the length prefixed TCP protocol.
	TCPListen string
}

var defaultConfig = Config{
	Info: l1.ControllerInfo{
		Ref: l1.ControllerRef{Type: l1.StationType},
		Meta: l1.ControllerMeta{
			Description: "DCC command station",
		},
	},
	MQTTBrokerURL: "mqtt://localhost:1883/dcc/",
}

func init() {
	if val, ok := os.LookupEnv("DCC_MQTT_URL"); ok {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("DCC_STATION_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
	if val := os.Getenv("DCC_WS_LISTEN"); val != "" {
		defaultConfig.HTTPListen = val
	}
	if val := os.Getenv("DCC_TCP_LISTEN"); val != "" {
		defaultConfig.TCPListen = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Station ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.HTTPListen, "http", defaultConfig.HTTPListen, "Listen address of the websocket/status endpoints, e.g. :8080")
	flag.StringVar(&defaultConfig.TCPListen, "tcp", defaultConfig.TCPListen, "Listen address of the TCP protocol, e.g. :2560")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetLabel adds a label to the station metadata, published with the
// MQTT announcement.
func SetLabel(key, value string) {
	if defaultConfig.Info.Meta.Labels == nil {
		defaultConfig.Info.Meta.Labels = make(map[string]string)
	}
	defaultConfig.Info.Meta.Labels[key] = value
}

// Env is the env for the station.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
	// Peers serves websocket and TCP clients.
	Peers *comm.Registrar
	HTTP  *websocket.Server
	TCP   *stream.Listener
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("station type and id must be specified")
	}
	env := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
		Peers:     &comm.Registrar{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		env.Registrar.Add(reg)
		env.RegistryURLs = append(env.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.HTTPListen != "" {
		env.HTTP = websocket.NewServer(c.HTTPListen, env.Peers, nil)
		env.RegistryURLs = append(env.RegistryURLs, "ws://"+c.HTTPListen)
	}
	if c.TCPListen != "" {
		env.TCP = stream.NewListener(c.TCPListen, env.Peers)
		env.RegistryURLs = append(env.RegistryURLs, "tcp://"+c.TCPListen)
	}
	if len(env.RegistryURLs) == 0 {
		return nil, fmt.Errorf("at least one of MQTT, HTTP or TCP is required")
	}
	env.Registrar.Add(env.Peers)
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		glog.Exit(err)
	}
	return env
}

// SetStatusSource sets the snapshot provider of the HTTP endpoints.
func (e *Env) SetStatusSource(src websocket.StatusSource) {
	if e.HTTP != nil {
		e.HTTP.Status = src
	}
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
	if e.HTTP != nil {
		loop.AddRunnable(e.HTTP)
	}
	if e.TCP != nil {
		loop.AddRunnable(e.TCP)
	}
}
