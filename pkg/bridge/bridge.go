// Package bridge exposes a connected device over MQTT: sensor readings
// are published periodically, and commands received on a topic are run
// with the replies published back.
//
// Topics, relative to the queue prefix:
//
//	<id>/meta             retained, cleared on exit
//	<id>/sensors/<name>   {"time":..., "value":...}
//	<id>/cmd              {"id":"...", "op":"drive", "args":[10,10]}
//	<id>/reply            {"id":"...", "ok":true, "value":...}
package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/arduino.go/pkg/commands"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Topic names.
const (
	TopicMeta    = "meta"
	TopicSensors = "sensors"
	TopicCmd     = "cmd"
	TopicReply   = "reply"
)

// Meta describes the bridged device.
type Meta struct {
	ID       string   `json:"id"`
	Port     string   `json:"port"`
	BaudRate int      `json:"baud_rate"`
	Sensors  []string `json:"sensors,omitempty"`
}

// Request is a command received from the cmd topic.
type Request struct {
	ID   string    `json:"id"`
	Op   string    `json:"op"`
	Args []float64 `json:"args,omitempty"`
}

// Reply is published to the reply topic for each Request.
type Reply struct {
	ID    string      `json:"id"`
	OK    bool        `json:"ok"`
	Value interface{} `json:"value,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Reading is published to the topic of a sensor.
type Reading struct {
	Time  time.Time   `json:"time"`
	Value interface{} `json:"value"`
}

// Bridge connects a Device to PubSub.
type Bridge struct {
	ID       string
	Device   commands.Device
	PubSub   PubSub
	Sensors  []SensorSpec
	Port     string
	BaudRate int

	polled []time.Time
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "bridge"
}

// Topic returns the topic of the device.
func (b *Bridge) Topic(name string) string {
	return b.ID + "/" + name
}

// Meta returns the meta data published when running.
func (b *Bridge) Meta() Meta {
	m := Meta{ID: b.ID, Port: b.Port, BaudRate: b.BaudRate}
	for _, s := range b.Sensors {
		m.Sensors = append(m.Sensors, s.Name())
	}
	return m
}

// AddToLoop implements framework.LoopAdder.
func (b *Bridge) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PhaseSense, fx.ControlFunc(func(cc fx.ControlContext) error {
		b.Poll(cc.Time())
		return nil
	}))
	l.AddController(fx.PhaseAct, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.TakeMessages(func(msg fx.Message) bool {
			req, ok := msg.(*Request)
			if ok {
				b.publish(TopicReply, b.Handle(req), false)
			}
			return ok
		})
		return nil
	}))
	l.AddRunnable(b)
}

// Run implements framework.Runnable. It must run inside a Loop.
func (b *Bridge) Run(ctx context.Context) error {
	lc := fx.LoopCtlFrom(ctx)
	err := b.PubSub.Subscribe(b.Topic(TopicCmd), func(topic string, payload []byte) {
		req := &Request{}
		if err := json.Unmarshal(payload, req); err != nil {
			glog.Errorf("bad request on %s: %v", topic, err)
			b.publish(TopicReply, &Reply{Error: "invalid request: " + err.Error()}, false)
			return
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		lc.PostMessage(req)
		lc.TriggerNext()
	})
	if err != nil {
		return err
	}
	if err := b.publish(TopicMeta, b.Meta(), true); err != nil {
		return err
	}
	<-ctx.Done()
	if err := b.PubSub.Publish(b.Topic(TopicMeta), []byte{}, true); err != nil {
		glog.Warningf("clear meta: %v", err)
	}
	return ctx.Err()
}

// Handle runs a request on the device.
func (b *Bridge) Handle(req *Request) *Reply {
	reply := &Reply{ID: req.ID}
	cmd, err := commands.Lookup(req.Op)
	if err == nil {
		reply.Value, err = cmd.Do(b.Device, req.Args)
	}
	if err != nil {
		glog.Errorf("request %s %s: %v", req.ID, req.Op, err)
		reply.Error = err.Error()
		return reply
	}
	reply.OK = true
	return reply
}

// Poll reads and publishes the sensors which are due at now.
func (b *Bridge) Poll(now time.Time) {
	if len(b.polled) != len(b.Sensors) {
		b.polled = make([]time.Time, len(b.Sensors))
	}
	for n, s := range b.Sensors {
		if last := b.polled[n]; !last.IsZero() && now.Sub(last) < s.Period() {
			continue
		}
		b.polled[n] = now
		val, err := s.Read(b.Device)
		if err != nil {
			glog.Warningf("read %s: %v", s.Name(), err)
			continue
		}
		b.publish(TopicSensors+"/"+s.Name(), &Reading{Time: now, Value: val}, false)
	}
}

func (b *Bridge) publish(name string, v interface{}, retain bool) error {
	payload, err := json.Marshal(v)
	if err == nil {
		err = b.PubSub.Publish(b.Topic(name), payload, retain)
	}
	if err != nil {
		glog.Errorf("publish %s: %v", name, err)
	}
	return err
}
