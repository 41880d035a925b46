package transport

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Default settings of a serial transport.
const (
	DefaultBaudRate    = 57600
	DefaultReadTimeout = 500 * time.Millisecond
)

// Serial implements Transport over a hardware serial port.
type Serial struct {
	port serial.Port
	cfg  Config

	pending []byte
	buf     [256]byte
	// inflight receives the result of a write which timed out but
	// hasn't returned yet.
	inflight chan writeResult
}

type writeResult struct {
	n   int
	err error
}

// SerialOpener opens serial ports.
var SerialOpener = OpenFunc(func(cfg Config) (Transport, error) {
	return OpenSerial(cfg)
})

// OpenSerial opens a serial port with the given configuration.
func OpenSerial(cfg Config) (*Serial, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port path is required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return &Serial{port: port, cfg: cfg}, nil
}

// Port returns the serial port name.
func (s *Serial) Port() string {
	return s.cfg.Port
}

// Write implements io.Writer. A write abandoned on timeout is waited
// for before the next one, and whatever it was answered is discarded.
func (s *Serial) Write(p []byte) (int, error) {
	if err := s.settle(); err != nil {
		return 0, err
	}
	if s.cfg.WriteTimeout <= 0 {
		return s.port.Write(p)
	}
	ch := make(chan writeResult, 1)
	go func() {
		n, err := s.port.Write(p)
		ch <- writeResult{n, err}
	}()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-time.After(s.cfg.WriteTimeout):
		s.inflight = ch
		return 0, ErrWriteTimeout
	}
}

// settle waits for an abandoned write and drops the input received so far.
func (s *Serial) settle() error {
	if s.inflight == nil {
		return nil
	}
	<-s.inflight
	s.inflight = nil
	s.pending = nil
	return s.port.ResetInputBuffer()
}

// ReadLine implements Transport.
func (s *Serial) ReadLine() ([]byte, error) {
	deadline := time.Now().Add(s.cfg.ReadTimeout)
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := make([]byte, i+1)
			copy(line, s.pending[:i+1])
			s.pending = s.pending[i+1:]
			return line, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			// A partial line is garbage once the reply window is over.
			s.pending = nil
			return nil, ErrTimeout
		}
		if err := s.port.SetReadTimeout(remaining); err != nil {
			return nil, err
		}
		n, err := s.port.Read(s.buf[:])
		if err != nil {
			return nil, err
		}
		s.pending = append(s.pending, s.buf[:n]...)
	}
}

// Flush implements Transport.
func (s *Serial) Flush() error {
	s.pending = nil
	return s.port.ResetInputBuffer()
}

// Close implements io.Closer.
func (s *Serial) Close() error {
	return s.port.Close()
}
