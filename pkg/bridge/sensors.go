package bridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/arduino.go/pkg/commands"
)

// Sensor kinds.
const (
	SensorEncoders = "encoders"
	SensorIMU      = "imu"
	SensorAnalog   = "analog"
	SensorDigital  = "digital"
	SensorSonar    = "sonar"
)

// SensorSpec configures a polled sensor.
type SensorSpec struct {
	Kind string
	// Pin is used by analog, digital and sonar.
	Pin int
	// Rate is the polling rate in Hz, 0 polls every iteration.
	Rate float64
}

func hasPin(kind string) bool {
	return kind == SensorAnalog || kind == SensorDigital || kind == SensorSonar
}

// Name is the topic suffix of readings.
func (s SensorSpec) Name() string {
	if hasPin(s.Kind) {
		return s.Kind + "/" + strconv.Itoa(s.Pin)
	}
	return s.Kind
}

// Period returns the minimum duration between polls.
func (s SensorSpec) Period() time.Duration {
	if s.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.Rate)
}

// Read polls the sensor once.
func (s SensorSpec) Read(d commands.Device) (interface{}, error) {
	switch s.Kind {
	case SensorEncoders:
		counts, err := d.EncoderCounts()
		if err != nil {
			return nil, err
		}
		return counts, nil
	case SensorIMU:
		sample, err := d.IMU()
		if err != nil {
			return nil, err
		}
		return sample, nil
	case SensorAnalog:
		return readValue(d.AnalogRead(s.Pin))
	case SensorDigital:
		return readValue(d.DigitalRead(s.Pin))
	case SensorSonar:
		cm, err := d.Ping(s.Pin)
		if err != nil {
			return nil, err
		}
		return cm, nil
	}
	return nil, fmt.Errorf("unknown sensor kind %q", s.Kind)
}

func readValue(v int, ok bool) (interface{}, error) {
	if !ok {
		return nil, commands.ErrNoValue
	}
	return v, nil
}

// ParseSensors parses a list like "encoders@10,imu@5,analog:0@2,sonar:7".
func ParseSensors(str string) ([]SensorSpec, error) {
	var specs []SensorSpec
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		var spec SensorSpec
		if pos := strings.LastIndex(item, "@"); pos >= 0 {
			rate, err := strconv.ParseFloat(item[pos+1:], 64)
			if err != nil || rate < 0 {
				return nil, fmt.Errorf("sensor %q: invalid rate", item)
			}
			spec.Rate, item = rate, item[:pos]
		}
		spec.Kind = item
		var pin string
		if pos := strings.Index(item, ":"); pos >= 0 {
			spec.Kind, pin = item[:pos], item[pos+1:]
		}
		switch spec.Kind {
		case SensorEncoders, SensorIMU:
			if pin != "" {
				return nil, fmt.Errorf("sensor %q: unexpected pin", item)
			}
		case SensorAnalog, SensorDigital, SensorSonar:
			n, err := strconv.Atoi(pin)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("sensor %q: invalid pin", item)
			}
			spec.Pin = n
		default:
			return nil, fmt.Errorf("sensor %q: unknown kind", item)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
