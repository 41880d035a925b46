package arduino

import (
	"errors"
	"fmt"

	"github.com/robotalks/arduino.go/pkg/arduino/transport"
)

var (
	// ErrTimeout indicates no reply line was received in time.
	ErrTimeout = transport.ErrTimeout
	// ErrClosed indicates the driver has been closed.
	ErrClosed = errors.New("driver closed")
	// ErrConnect matches any *ConnectError.
	ErrConnect = errors.New("cannot connect to arduino")
	// ErrBaudMismatch indicates the device didn't report the configured baud rate.
	ErrBaudMismatch = errors.New("baud rate mismatch")
	// ErrIncompleteSample indicates the IMU reply doesn't carry all values.
	ErrIncompleteSample = errors.New("imu data incomplete")
	// ErrNoGeometry indicates drive geometry is not configured.
	ErrNoGeometry = errors.New("drive geometry not configured")
)

// ConnectError is the fatal error when the link can't be established.
type ConnectError struct {
	Port     string
	BaudRate int
	// Reported is the baud rate read back from device, 0 if unknown.
	Reported int
	Err      error
}

// Error implements error.
func (e *ConnectError) Error() string {
	if e.Reported != 0 {
		return fmt.Sprintf("connect %s at %d: %v (device reported %d)", e.Port, e.BaudRate, e.Err, e.Reported)
	}
	return fmt.Sprintf("connect %s at %d: %v", e.Port, e.BaudRate, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnect) hold.
func (e *ConnectError) Is(target error) bool {
	return target == ErrConnect
}

// ProtocolError indicates a reply was received but can't be decoded.
type ProtocolError struct {
	Cmd  string
	Line string
	// Want and Got are the expected and actual token counts,
	// both zero when the failure is not about arity.
	Want int
	Got  int
	Err  error
}

// Error implements error.
func (e *ProtocolError) Error() string {
	switch {
	case e.Want != e.Got:
		msg := fmt.Sprintf("%q: want %d values, got %d (reply %q)", e.Cmd, e.Want, e.Got, e.Line)
		if e.Err != nil {
			msg = e.Err.Error() + ": " + msg
		}
		return msg
	case e.Err != nil:
		return fmt.Sprintf("%q: %v (reply %q)", e.Cmd, e.Err, e.Line)
	default:
		return fmt.Sprintf("%q: bad reply %q", e.Cmd, e.Line)
	}
}

// Unwrap returns the underlying error.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error is a reply timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsProtocolError returns true if a reply was received but was malformed.
func IsProtocolError(err error) bool {
	var perr *ProtocolError
	return errors.As(err, &perr)
}
