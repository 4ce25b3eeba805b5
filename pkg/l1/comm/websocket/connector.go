package websocket

import (
	"context"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/robotalks/dcc.go/pkg/l1"
	"github.com/robotalks/dcc.go/pkg/l1/comm"
)

// Connector implements l1.Connector by dialing the /ws endpoint of a
// single station.
type Connector struct {
	URL string
}

// NewConnector creates a Connector for ws://host:port, the /ws path is
// added when missing.
func NewConnector(rawURL string) (*Connector, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return &Connector{URL: u.String()}, nil
}

// Discover implements Connector. The station behind the URL is the only
// one.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	return []l1.ControllerInfo{{Ref: l1.ControllerRef{Type: l1.StationType, ID: c.URL}}}, nil
}

// Connect implements Connector. The ref is ignored.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host
	if u.Scheme == "wss" {
		origin = "https://" + u.Host
	}
	ws, err := websocket.Dial(c.URL, "", origin)
	if err != nil {
		return nil, err
	}
	conn := &comm.ControllerConn{}
	conn.Init("ws:"+u.Host, New(ws))
	return conn, nil
}
