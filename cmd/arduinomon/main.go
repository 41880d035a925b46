package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/arduino.go/pkg/bridge"
)

var (
	mqttURL = bridge.DefaultBrokerURL
	topic   = "#"
)

func init() {
	if val := os.Getenv("ARDUINO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic to monitor, relative to the prefix in broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := bridge.NewQueueFromURL(mqttURL, "")
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	err = q.Subscribe(topic, func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: <cleared>", topic)
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
