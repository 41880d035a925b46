package arduino

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/arduino/transport"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultBaudRate = transport.DefaultBaudRate
	DefaultTimeout  = transport.DefaultReadTimeout
)

// Some USB-CDC boards reset on open, the port is first opened
// at this rate before reopening at the configured one.
const bootBaudRate = 9600

// Observer is notified after every exchange.
type Observer interface {
	ObserveExchange(cmd string, elapsed time.Duration, err error)
}

// Config defines the connection to the device.
type Config struct {
	Port     string
	BaudRate int
	// Timeout bounds reading a reply line.
	Timeout time.Duration
	// WriteTimeout bounds writing a command, defaults to Timeout.
	WriteTimeout time.Duration
	// MaxAttempts is the number of writes of one command when the
	// reply times out. 1 (default) disables retrying.
	MaxAttempts int
	Geometry    Geometry

	// Opener defaults to transport.SerialOpener.
	Opener   transport.Opener
	Observer Observer
}

func (c *Config) setDefaults() {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = c.Timeout
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Opener == nil {
		c.Opener = transport.SerialOpener
	}
}

func (c *Config) transportConfig(baud int) transport.Config {
	return transport.Config{
		Port:         c.Port,
		BaudRate:     baud,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// Driver executes commands on the device.
// It's safe for concurrent use.
type Driver struct {
	port        string
	baudRate    int
	timeout     time.Duration
	maxAttempts int
	geometry    Geometry
	observer    Observer

	transport transport.Transport
	lock      sync.Mutex
	closed    bool
}

// New wraps an already opened transport. No handshake is performed.
func New(t transport.Transport, cfg Config) *Driver {
	cfg.setDefaults()
	return &Driver{
		port:        cfg.Port,
		baudRate:    cfg.BaudRate,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		geometry:    cfg.Geometry,
		observer:    cfg.Observer,
		transport:   t,
	}
}

// Dial connects to the serial port with default settings.
func Dial(port string, baudRate int, timeout time.Duration) (*Driver, error) {
	return Connect(context.Background(), Config{Port: port, BaudRate: baudRate, Timeout: timeout})
}

// Connect opens the transport and verifies the link by reading back
// the baud rate. A mismatch is retried once after one timeout, a second
// mismatch fails with a *ConnectError and the transport is closed.
func Connect(ctx context.Context, cfg Config) (*Driver, error) {
	cfg.setDefaults()
	glog.Infof("connecting to arduino on %s ...", cfg.Port)

	boot, err := cfg.Opener.Open(cfg.transportConfig(bootBaudRate))
	if err != nil {
		return nil, &ConnectError{Port: cfg.Port, BaudRate: cfg.BaudRate, Err: err}
	}
	boot.Close()
	if err := sleep(ctx, cfg.Timeout); err != nil {
		return nil, &ConnectError{Port: cfg.Port, BaudRate: cfg.BaudRate, Err: err}
	}

	t, err := cfg.Opener.Open(cfg.transportConfig(cfg.BaudRate))
	if err != nil {
		return nil, &ConnectError{Port: cfg.Port, BaudRate: cfg.BaudRate, Err: err}
	}
	d := New(t, cfg)
	if err := d.verifyBaud(ctx); err != nil {
		t.Close()
		return nil, err
	}
	glog.Infof("connected to arduino on %s at %d", cfg.Port, cfg.BaudRate)
	return d, nil
}

func (d *Driver) verifyBaud(ctx context.Context) error {
	reported, ok := d.GetBaud()
	if ok && reported == d.baudRate {
		return nil
	}
	glog.Warningf("baud check on %s failed (reported %d), retrying", d.port, reported)
	if err := sleep(ctx, d.timeout); err != nil {
		return &ConnectError{Port: d.port, BaudRate: d.baudRate, Err: err}
	}
	if reported, ok = d.GetBaud(); ok && reported == d.baudRate {
		return nil
	}
	return &ConnectError{Port: d.port, BaudRate: d.baudRate, Reported: reported, Err: ErrBaudMismatch}
}

// Port returns the port name.
func (d *Driver) Port() string {
	return d.port
}

// BaudRate returns the configured baud rate.
func (d *Driver) BaudRate() int {
	return d.baudRate
}

// Geometry returns the drive geometry.
func (d *Driver) Geometry() Geometry {
	return d.geometry
}

// Close closes the transport. It's safe to call more than once.
func (d *Driver) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.transport.Close()
}

func sleep(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
