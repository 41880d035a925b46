// Package transport provides the byte stream between the host and the
// microcontroller.
package transport

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrTimeout indicates no complete line arrived within the read timeout.
	ErrTimeout = errors.New("read timeout")
	// ErrWriteTimeout indicates a write didn't complete within the write timeout.
	ErrWriteTimeout = errors.New("write timeout")
	// ErrClosed indicates the transport is closed.
	ErrClosed = errors.New("transport closed")
)

// Config specifies how a transport is opened.
type Config struct {
	Port         string
	BaudRate     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Transport is a duplex line stream.
type Transport interface {
	io.WriteCloser

	// ReadLine blocks until a newline terminated line is received,
	// or returns ErrTimeout once the read timeout elapses.
	// The returned line includes the terminator.
	ReadLine() ([]byte, error)

	// Flush discards buffered input.
	Flush() error
}

// Opener opens a Transport.
type Opener interface {
	Open(Config) (Transport, error)
}

// OpenFunc is func form of Opener.
type OpenFunc func(Config) (Transport, error)

// Open implements Opener.
func (f OpenFunc) Open(cfg Config) (Transport, error) {
	return f(cfg)
}
