// Package env provides the common configuration of the binaries.
package env

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/arduino.go/pkg/arduino"
	"github.com/robotalks/arduino.go/pkg/arduino/transport"
	"github.com/robotalks/arduino.go/pkg/bridge"
)

// Config provides common options to connect the device.
type Config struct {
	Port         string           `toml:"port"`
	BaudRate     int              `toml:"baud_rate"`
	Timeout      time.Duration    `toml:"timeout"`
	WriteTimeout time.Duration    `toml:"write_timeout"`
	MaxAttempts  int              `toml:"max_attempts"`
	Geometry     arduino.Geometry `toml:"geometry"`

	// MQTTURL is the broker URL with topic prefix,
	// e.g. mqtt://host:port/topic-prefix/
	MQTTURL string `toml:"mqtt_url"`
	// ID names the device in topics, the machine ID is used if empty.
	ID           string        `toml:"id"`
	PollInterval time.Duration `toml:"poll_interval"`
	// Sensors lists the polled sensors, see bridge.ParseSensors.
	Sensors     string `toml:"sensors"`
	MetricsAddr string `toml:"metrics_addr"`

	// Opener opens the port, serial by default.
	Opener transport.Opener `toml:"-"`
}

var (
	defaultConfig = Config{
		Port:         "/dev/ttyUSB0",
		BaudRate:     arduino.DefaultBaudRate,
		Timeout:      arduino.DefaultTimeout,
		MaxAttempts:  1,
		MQTTURL:      bridge.DefaultBrokerURL,
		PollInterval: 100 * time.Millisecond,
		MetricsAddr:  ":9100",
	}

	configFile string
)

func init() {
	if val := os.Getenv("ARDUINO_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val, err := strconv.Atoi(os.Getenv("ARDUINO_BAUD")); err == nil && val > 0 {
		defaultConfig.BaudRate = val
	}
	if val, err := time.ParseDuration(os.Getenv("ARDUINO_TIMEOUT")); err == nil && val > 0 {
		defaultConfig.Timeout = val
	}
	if val := os.Getenv("ARDUINO_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ARDUINO_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("ARDUINO_CONFIG"); val != "" {
		configFile = val
	}
}

// SetupFlags sets up command line flags for connecting the device.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "TOML config file, flags on command line take precedence.")
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the device.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate of the device.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Reply timeout.")
	flag.IntVar(&defaultConfig.MaxAttempts, "attempts", defaultConfig.MaxAttempts, "Attempts of a command on timeout.")
	flag.Float64Var(&defaultConfig.Geometry.WheelDiameter, "wheel-diameter", defaultConfig.Geometry.WheelDiameter, "Wheel diameter in meters.")
	flag.Float64Var(&defaultConfig.Geometry.EncoderResolution, "encoder-resolution", defaultConfig.Geometry.EncoderResolution, "Encoder ticks per wheel revolution.")
	flag.Float64Var(&defaultConfig.Geometry.GearReduction, "gear-reduction", defaultConfig.Geometry.GearReduction, "Gear reduction between motor and wheel.")
}

// SetupBridgeFlags sets up command line flags for the MQTT bridge.
func SetupBridgeFlags() {
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID in topics.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Sensor polling interval.")
	flag.StringVar(&defaultConfig.Sensors, "sensors", defaultConfig.Sensors, "Polled sensors, e.g. encoders@10,analog:0@2.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Listen address of /metrics, empty to disable.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults, the config file and flags.
func NewConfig() (*Config, error) {
	if configFile != "" {
		explicit := make(map[string]string)
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		if err := defaultConfig.LoadFile(configFile); err != nil {
			return nil, err
		}
		for name, val := range explicit {
			flag.Set(name, val)
		}
	}
	conf := defaultConfig
	return &conf, nil
}

// MustNewConfig creates a Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile decodes a TOML file into the config. Keys absent in the
// file are left unchanged.
func (c *Config) LoadFile(fn string) error {
	md, err := toml.DecodeFile(fn, c)
	if err != nil {
		return fmt.Errorf("config %s: %w", fn, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", fn, undecoded[0].String())
	}
	return nil
}

// DeviceID returns ID or the machine ID if not specified.
func (c *Config) DeviceID() string {
	if c.ID != "" {
		return c.ID
	}
	return MachineID()
}

// SensorSpecs parses Sensors.
func (c *Config) SensorSpecs() ([]bridge.SensorSpec, error) {
	return bridge.ParseSensors(c.Sensors)
}

// DriverConfig converts to the config of the driver.
func (c *Config) DriverConfig() arduino.Config {
	return arduino.Config{
		Port:         c.Port,
		BaudRate:     c.BaudRate,
		Timeout:      c.Timeout,
		WriteTimeout: c.WriteTimeout,
		MaxAttempts:  c.MaxAttempts,
		Geometry:     c.Geometry,
		Opener:       c.Opener,
	}
}

// Connect connects the device, observer may be nil.
func (c *Config) Connect(ctx context.Context, observer arduino.Observer) (*arduino.Driver, error) {
	cfg := c.DriverConfig()
	cfg.Observer = observer
	return arduino.Connect(ctx, cfg)
}

// MustConnect connects the device and fails on error.
func (c *Config) MustConnect(ctx context.Context, observer arduino.Observer) *arduino.Driver {
	d, err := c.Connect(ctx, observer)
	if err != nil {
		log.Fatalln(err)
	}
	return d
}
