package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	gorilla "github.com/gorilla/websocket"
	"golang.org/x/net/websocket"

	"github.com/robotalks/dcc.go/pkg/l1/comm"
)

// StatusSource provides a JSON friendly snapshot of the station. It is
// called from HTTP handlers and must be safe for concurrent use.
type StatusSource interface {
	Snapshot() interface{}
}

const (
	// DefaultSnapshotInterval is the push interval of /status/ws.
	DefaultSnapshotInterval = time.Second
	// MinSnapshotInterval is the shortest interval ?poll= may request.
	MinSnapshotInterval = 100 * time.Millisecond
)

// Server exposes the station over HTTP:
//
//	/ws         binary protocol (Typed messages), served by Registrar
//	/status     GET, JSON snapshot
//	/status/ws  JSON snapshots pushed every SnapshotInterval, ?poll=250ms
type Server struct {
	Addr             string
	Registrar        *comm.Registrar
	Status           StatusSource
	SnapshotInterval time.Duration

	router   *mux.Router
	upgrader gorilla.Upgrader
	ctx      context.Context
	listener net.Listener
}

// NewServer creates a Server.
func NewServer(addr string, reg *comm.Registrar, status StatusSource) *Server {
	s := &Server{
		Addr:             addr,
		Registrar:        reg,
		Status:           status,
		SnapshotInterval: DefaultSnapshotInterval,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.router = mux.NewRouter()
	s.router.Handle("/ws", websocket.Handler(s.serveProtocol))
	s.router.HandleFunc("/status", s.serveStatus).Methods("GET", "HEAD")
	s.router.HandleFunc("/status/ws", s.serveSnapshots).Methods("GET")
	return s
}

// Name implements Named.
func (s *Server) Name() string {
	return "http:" + s.Addr
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run implements Runnable. ctx must be derived from the loop context.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("HTTP listening on %s", ln.Addr())
	srv := &http.Server{Handler: s.router}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err = srv.Serve(ln); err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func (s *Server) serveProtocol(conn *websocket.Conn) {
	if s.Registrar == nil || s.ctx == nil {
		conn.Close()
		return
	}
	rw := New(conn)
	if err := s.Registrar.Serve(s.ctx, "ws:"+rw.RemoteAddr(), rw); err != nil && err != context.Canceled {
		glog.V(1).Infof("ws %s: %v", rw.RemoteAddr(), err)
	}
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	if s.Status == nil {
		http.Error(w, "status not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Status.Snapshot()); err != nil {
		glog.Warningf("status: %v", err)
	}
}

func (s *Server) serveSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.Status == nil {
		http.Error(w, "status not available", http.StatusServiceUnavailable)
		return
	}
	interval := s.pollInterval(r.URL.Query().Get("poll"))
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("status/ws upgrade: %v", err)
		return
	}
	defer conn.Close()
	glog.V(1).Infof("status/ws: subscription from %s (poll %s)", conn.RemoteAddr(), interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := conn.WriteJSON(s.Status.Snapshot()); err != nil {
			glog.V(1).Infof("status/ws: lost %s", conn.RemoteAddr())
			return
		}
		<-ticker.C
	}
}

// pollInterval parses the ?poll= value, falling back to
// SnapshotInterval when it is absent or invalid.
func (s *Server) pollInterval(v string) time.Duration {
	interval := s.SnapshotInterval
	if v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}
	if interval < MinSnapshotInterval {
		interval = MinSnapshotInterval
	}
	return interval
}
