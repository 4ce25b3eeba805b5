package connector

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l1"
	"github.com/robotalks/dcc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/dcc.go/pkg/l1/comm/stream"
	"github.com/robotalks/dcc.go/pkg/l1/comm/websocket"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref l1.ControllerRef

	// RegistryURL specifies how stations are reached:
	// mqtt://host:port/topic-prefix, ws://host:port or tcp://host:port.
	RegistryURL string
}

var defaultConfig = Config{
	Ref:         l1.ControllerRef{Type: l1.StationType},
	RegistryURL: "mqtt://localhost:1883/dcc/",
}

func init() {
	if val := os.Getenv("DCC_STATION_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("DCC_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.ID, "station", defaultConfig.Ref.ID, "Station ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "registry", defaultConfig.RegistryURL, "Station registry URL (mqtt://, ws:// or tcp://).")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (l1.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "ssl", "tcps":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return websocket.NewConnector(c.RegistryURL)
	case "tcp":
		return stream.NewConnector(c.RegistryURL)
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		glog.Exit(err)
	}
	return conn
}

// Connect directly connects to the station. Direct transports (ws, tcp)
// don't need the station ID.
func (c *Config) Connect(ctx context.Context) (l1.ControllerConn, error) {
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	ref := c.Ref
	if ref.ID == "" {
		infos, err := connector.Discover(ctx)
		if err != nil {
			return nil, err
		}
		if len(infos) != 1 {
			return nil, fmt.Errorf("%d stations found, station ID must be specified", len(infos))
		}
		ref = infos[0].Ref
	}
	if !ref.IsValid() {
		return nil, fmt.Errorf("station type and id must be specified")
	}
	return connector.Connect(ctx, ref)
}

// MustConnect connects to the station or exits.
func (c *Config) MustConnect(ctx context.Context) l1.ControllerConn {
	conn, err := c.Connect(ctx)
	if err != nil {
		glog.Exit(err)
	}
	return conn
}
