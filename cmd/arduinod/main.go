package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/robotalks/arduino.go/pkg/bridge"
	"github.com/robotalks/arduino.go/pkg/env"
	fx "github.com/robotalks/arduino.go/pkg/framework"
	"github.com/robotalks/arduino.go/pkg/metrics"
)

func init() {
	env.SetupFlags()
	env.SetupBridgeFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.MustNewConfig()
	sensors, err := conf.SensorSpecs()
	if err != nil {
		log.Fatalln(err)
	}
	id := conf.DeviceID()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	exchanges := metrics.NewExchanges(reg)

	runner := fx.NewRunner().HandleSignals()
	d := conf.MustConnect(runner.Context, exchanges)
	defer d.Close()
	glog.Infof("connected %s at %d baud as %q", d.Port(), d.BaudRate(), id)

	q, err := bridge.NewQueueFromURL(conf.MQTTURL, id+"/"+bridge.TopicMeta)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	loop := fx.NewLoop()
	loop.Interval = conf.PollInterval
	loop.Add(&bridge.Bridge{
		ID:       id,
		Device:   d,
		PubSub:   q,
		Sensors:  sensors,
		Port:     d.Port(),
		BaudRate: d.BaudRate(),
	})
	if conf.MetricsAddr != "" {
		loop.AddRunnable(&metrics.Server{Addr: conf.MetricsAddr, Gatherer: reg})
	}

	err = runner.Go(loop).Wait()
	if _, stopErr := d.Stop(); stopErr != nil {
		glog.Warningf("stop motors: %v", stopErr)
	}
	if err != nil {
		glog.Errorf("exit: %v", err)
	}
}
