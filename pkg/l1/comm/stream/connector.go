package stream

import (
	"context"
	"net"
	"net/url"

	"github.com/robotalks/dcc.go/pkg/l1"
	"github.com/robotalks/dcc.go/pkg/l1/comm"
)

// Connector implements l1.Connector by dialing a station Listener.
type Connector struct {
	Addr string
}

// NewConnector creates a Connector from tcp://host:port.
func NewConnector(rawURL string) (*Connector, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &Connector{Addr: u.Host}, nil
}

// Discover implements Connector.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	return []l1.ControllerInfo{{Ref: l1.ControllerRef{Type: l1.StationType, ID: c.Addr}}}, nil
}

// Connect implements Connector. The ref is ignored.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, err
	}
	conn := &comm.ControllerConn{}
	conn.Init("tcp:"+c.Addr, New(nc))
	return conn, nil
}
