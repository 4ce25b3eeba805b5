// Package telemetry mirrors station events into Redis: hashes hold the
// current state, a pubsub channel announces changes and CV reads and
// power trips are appended to a stream.
package telemetry

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/go-redis/redis/v8"
	"github.com/golang/glog"

	fx "github.com/robotalks/dcc.go/pkg/framework"
	"github.com/robotalks/dcc.go/pkg/l1/msgs"
)

// Config defines the Redis connection.
type Config struct {
	// RedisURL is redis://[:password@]host:port/db, empty disables
	// telemetry.
	RedisURL string
	// Prefix is prepended to every key and channel.
	Prefix string
	// StreamMaxLen caps the event stream.
	StreamMaxLen int64
}

// DefaultQueueSize is the number of events buffered while Redis is
// slow. Events beyond are dropped.
const DefaultQueueSize = 64

var defaultConfig = Config{
	Prefix:       "dcc",
	StreamMaxLen: 1000,
}

func init() {
	defaultConfig.RedisURL = os.Getenv("DCC_REDIS_URL")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RedisURL, "redis", defaultConfig.RedisURL, "Redis URL for state telemetry, empty to disable.")
	flag.StringVar(&defaultConfig.Prefix, "redis-prefix", defaultConfig.Prefix, "Redis key prefix.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPublisher creates the Publisher for the station, or nil when
// telemetry is disabled.
func (c *Config) NewPublisher(stationID string) (*Publisher, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %v", err)
	}
	p := NewPublisher(c.Prefix+":"+stationID, redis.NewClient(opts))
	p.StreamMaxLen = c.StreamMaxLen
	return p, nil
}

// Publisher implements l1.Registrar, writing events to Redis from its
// own goroutine so the control loop never waits on the network.
type Publisher struct {
	Key          string
	StreamMaxLen int64

	client  *redis.Client
	queue   chan fx.Message
	dropped uint64
}

// NewPublisher creates a Publisher writing under key.
func NewPublisher(key string, client *redis.Client) *Publisher {
	return &Publisher{
		Key:          key,
		StreamMaxLen: defaultConfig.StreamMaxLen,
		client:       client,
		queue:        make(chan fx.Message, DefaultQueueSize),
	}
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "redis:" + p.Key
}

// SendEvent implements Registrar. It never blocks.
func (p *Publisher) SendEvent(ctx context.Context, msg fx.Message) error {
	select {
	case p.queue <- msg:
	default:
		if n := atomic.AddUint64(&p.dropped, 1); n == 1 || n%100 == 0 {
			glog.Warningf("%s: %d events dropped", p.Name(), n)
		}
	}
	return nil
}

// Dropped returns the number of events dropped on a full queue.
func (p *Publisher) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(p)
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	defer p.client.Close()
	if err := p.client.Ping(ctx).Err(); err != nil {
		glog.Warningf("%s: %v", p.Name(), err)
	} else {
		glog.Infof("telemetry to %s", p.Name())
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-p.queue:
			if err := p.write(ctx, msg); err != nil {
				glog.Warningf("%s: %v", p.Name(), err)
			}
		}
	}
}

func (p *Publisher) write(ctx context.Context, msg fx.Message) error {
	rec, ok := RecordOf(p.Key, msg)
	if !ok {
		return nil
	}
	pipe := p.client.Pipeline()
	if len(rec.Fields) > 0 {
		pipe.HSet(ctx, rec.HashKey, rec.Fields)
	}
	if rec.Stream != nil {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.Key + ":events",
			MaxLen: p.StreamMaxLen,
			Values: rec.Stream,
		})
	}
	pipe.Publish(ctx, p.Key, rec.Notify)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s: %v", rec.Notify, err)
	}
	return nil
}

// Record is what an event turns into: hash fields, an optional stream
// entry and the notification payload.
type Record struct {
	HashKey string
	Fields  map[string]interface{}
	Stream  map[string]interface{}
	Notify  string
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// RecordOf maps a station event to its Redis record.
func RecordOf(key string, msg fx.Message) (rec Record, ok bool) {
	switch m := msg.(type) {
	case *msgs.StationChanged:
		rec.HashKey = key
		rec.Fields = map[string]interface{}{
			"bus:milli-amps": strconv.FormatFloat(m.BusMilliAmps, 'f', 1, 64),
			"bus:volts":      strconv.FormatFloat(m.BusVolts, 'f', 2, 64),
			"track-power":    onOff(m.TrackPower),
			"trip":           onOff(m.Trip),
			"service-mode":   onOff(m.ServiceMode),
			"family":         m.Family,
			"cv-state":       m.CvState,
		}
		if m.Trip {
			rec.Stream = map[string]interface{}{
				"event":      "trip",
				"milli-amps": rec.Fields["bus:milli-amps"],
				"volts":      rec.Fields["bus:volts"],
			}
		}
		rec.Notify = "station"
	case *msgs.LocoChanged:
		rec.HashKey = key + ":loco:" + strconv.Itoa(int(m.Slot))
		addr := "S" + strconv.Itoa(int(m.Address))
		if m.LongAddress {
			addr = "L" + strconv.Itoa(int(m.Address))
		}
		dir := "reverse"
		if m.Forward {
			dir = "forward"
		}
		steps := 28
		if m.Use128 {
			steps = 128
		}
		rec.Fields = map[string]interface{}{
			"name":       m.Name,
			"address":    addr,
			"speed-step": m.SpeedStep,
			"steps":      steps,
			"direction":  dir,
			"brake":      onOff(m.Brake),
			"functions":  m.Functions,
			"consist":    m.Consist,
			"estop":      onOff(m.Estop),
		}
		if m.Address == 0 {
			rec.Fields = map[string]interface{}{"address": ""}
		}
		rec.Notify = "loco:" + strconv.Itoa(int(m.Slot))
	case *msgs.TurnoutChanged:
		rec.HashKey = key + ":turnouts"
		state := "closed"
		if m.Thrown {
			state = "thrown"
		}
		rec.Fields = map[string]interface{}{strconv.Itoa(int(m.Address)): state}
		rec.Notify = "turnout:" + strconv.Itoa(int(m.Address))
	case *msgs.CVReadResult:
		rec.Stream = map[string]interface{}{
			"event": "cv-read",
			"cv":    m.Cv,
			"value": m.Value,
		}
		rec.Notify = "cv:" + strconv.Itoa(int(m.Cv))
	default:
		return rec, false
	}
	return rec, true
}
