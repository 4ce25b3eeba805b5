package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l1/comm"
)

// Listener accepts TCP clients speaking length prefixed packets and
// serves each of them through the Registrar.
type Listener struct {
	Addr      string
	Registrar *comm.Registrar
}

// NewListener creates a Listener.
func NewListener(addr string, reg *comm.Registrar) *Listener {
	return &Listener{Addr: addr, Registrar: reg}
}

// Name implements Named.
func (l *Listener) Name() string {
	return "tcp:" + l.Addr
}

// Run implements Runnable. ctx must be derived from the loop context.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	glog.Infof("TCP listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go func(conn net.Conn) {
				name := "tcp:" + conn.RemoteAddr().String()
				if err := l.Registrar.Serve(ctx, name, New(conn)); err != nil && err != context.Canceled {
					glog.V(1).Infof("%s: %v", name, err)
				}
			}(conn)
		}
	})
}
