package main

import (
	"flag"
	"os"
	"reflect"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/dcc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/dcc.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/dcc/"
	// topic filter under the prefix, e.g. "dcc.<id>/#"
	filter = "#"
)

func init() {
	if val := os.Getenv("DCC_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter under the prefix.")
}

func main() {
	flag.Parse()
	flag.Set("logtostderr", "true")

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		glog.Exitf("connect %s: %v", mqttURL, token.Error())
	}
	defer q.Close()

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			if len(payload) == 0 {
				glog.Infof("%s: offline", topic)
			} else {
				glog.Infof("%s: %s", topic, string(payload))
			}
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.Warningf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		glog.Infof("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	}))
	<-(chan struct{})(nil)
}
