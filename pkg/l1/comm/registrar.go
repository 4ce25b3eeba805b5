package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l1"
	"github.com/robotalks/dcc.go/pkg/l1/msgs"
)

// Registrar implements l1.Registrar over Pipes. Commands received from
// any peer are posted to the loop; events are sent to every peer.
//
// A Registrar has a fixed pipe set up by Init (e.g. an MQTT topic pair)
// and any number of transient peers served by Serve (websocket and TCP
// clients).
type Registrar struct {
	pipe *Pipe

	lock  sync.RWMutex
	peers map[*Pipe]struct{}
}

// Init initializes the Registrar with the fixed pipe.
func (r *Registrar) Init(name string, rw PacketReadWriter) {
	r.pipe = NewPipe(name, rw)
	r.pipe.Handler = r.handler(r.pipe)
}

func (r *Registrar) handler(p *Pipe) msgs.TypedMsgHandler {
	return msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		loopCtl := fx.LoopCtlFrom(ctx)
		switch typed.Kind() {
		case msgs.TypeIDKindCommand:
			loopCtl.PostMessage(&l1.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: p}})
			loopCtl.TriggerNext()
		case msgs.TypeIDKindEvent:
			loopCtl.PostMessage(msg)
			loopCtl.TriggerNext()
		}
		return nil
	})
}

// Serve runs a transient peer until it disconnects. ctx must be derived
// from the loop context.
func (r *Registrar) Serve(ctx context.Context, name string, rw PacketReadWriter) error {
	p := NewPipe(name, rw)
	p.Handler = r.handler(p)
	r.lock.Lock()
	if r.peers == nil {
		r.peers = make(map[*Pipe]struct{})
	}
	r.peers[p] = struct{}{}
	r.lock.Unlock()
	glog.Infof("peer %s connected", name)
	defer func() {
		r.lock.Lock()
		delete(r.peers, p)
		r.lock.Unlock()
		glog.Infof("peer %s disconnected", name)
	}()
	return fx.RunWithContextCloser(ctx, p, func() error { return p.Run(ctx) })
}

// Peers returns the number of transient peers.
func (r *Registrar) Peers() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.peers)
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	if r.pipe != nil {
		errs.Add(r.pipe.SendEventMsg(msg))
	}
	r.lock.RLock()
	peers := make([]*Pipe, 0, len(r.peers))
	for p := range r.peers {
		peers = append(peers, p)
	}
	r.lock.RUnlock()
	for _, p := range peers {
		if err := p.SendEventMsg(msg); err != nil {
			glog.V(2).Infof("%s: send event error: %v", p.Name, err)
			p.Close()
		}
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	if r.pipe != nil {
		loop.Add(r.pipe)
	}
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.seq)
}

// RegistrarMux registers the station with multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
			mctx.MessageTaken()
			glog.V(1).Infof("unsupported command %T", cmdMsg.Command.Msg())
			cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
