// Package commands names every device operation so it can be invoked
// from text: the shell and the MQTT bridge.
package commands

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robotalks/arduino.go/pkg/arduino"
)

var (
	// ErrNotAcknowledged indicates the device replied something other than OK.
	ErrNotAcknowledged = errors.New("not acknowledged")
	// ErrNoValue indicates a read returned no valid value.
	ErrNoValue = errors.New("no value")
	// ErrUnknownCommand indicates the command name is not defined.
	ErrUnknownCommand = errors.New("unknown command")
)

// Device is the set of operations exposed by arduino.Driver.
type Device interface {
	GetBaud() (int, bool)
	EncoderCounts() ([arduino.EncoderArity]int, error)
	ResetEncoders() (bool, error)
	IMU() (*arduino.IMUSample, error)
	Drive(right, left int) (bool, error)
	DriveMPerS(right, left float64) (bool, error)
	Stop() (bool, error)
	AnalogPinMode(pin, mode int) (bool, error)
	AnalogRead(pin int) (int, bool)
	AnalogWrite(pin, value int) (bool, error)
	DigitalPinMode(pin, mode int) (bool, error)
	DigitalRead(pin int) (int, bool)
	DigitalWrite(pin, value int) (bool, error)
	ConfigServo(pin, stepDelay int) (bool, error)
	ServoWrite(id, pos int) (bool, error)
	ServoRead(id int) (int, error)
	SetServoDelay(id, delay int) (bool, error)
	AttachServo(id int) (bool, error)
	DetachServo(id int) (bool, error)
	Ping(pin int) (string, error)
	UpdatePID(kp, kd, ki, ko int) (bool, error)
}

var _ Device = (*arduino.Driver)(nil)

// ArgError indicates invalid arguments.
type ArgError struct {
	Command string
	Msg     string
}

// Error implements error.
func (e *ArgError) Error() string {
	return e.Command + ": " + e.Msg
}

// Command is a named operation.
type Command struct {
	Name    string
	Aliases []string
	// Args names the arguments, all numeric.
	Args []string
	Help string
	// Floats allows non-integer arguments.
	Floats bool

	do func(Device, Args) (interface{}, error)
}

// Usage returns the argument synopsis.
func (c *Command) Usage() string {
	return strings.Join(c.Args, " ")
}

// Do runs the command on a device. A non-OK ack is reported as
// ErrNotAcknowledged and a read without valid value as ErrNoValue.
func (c *Command) Do(d Device, args []float64) (interface{}, error) {
	if len(args) != len(c.Args) {
		return nil, &ArgError{Command: c.Name, Msg: fmt.Sprintf("expect %d arguments, got %d", len(c.Args), len(args))}
	}
	a := Args{cmd: c, values: args}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return c.do(d, a)
}

// Args are the numeric arguments of a command.
type Args struct {
	cmd    *Command
	values []float64
}

func (a Args) validate() error {
	if a.cmd.Floats {
		return nil
	}
	for n, v := range a.values {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return &ArgError{Command: a.cmd.Name, Msg: fmt.Sprintf("%s must be an integer", a.cmd.Args[n])}
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return &ArgError{Command: a.cmd.Name, Msg: fmt.Sprintf("%s out of range", a.cmd.Args[n])}
		}
	}
	return nil
}

// Int returns the nth argument as integer.
func (a Args) Int(n int) int {
	return int(a.values[n])
}

// Float returns the nth argument.
func (a Args) Float(n int) float64 {
	return a.values[n]
}

// ParseArgs parses text arguments.
func ParseArgs(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for n, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q", arg)
		}
		values[n] = v
	}
	return values, nil
}

// Lookup finds a command by name or alias.
func Lookup(name string) (*Command, error) {
	for _, cmd := range all {
		if cmd.Name == name {
			return cmd, nil
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// All returns every command.
func All() []*Command {
	return append([]*Command(nil), all...)
}

func ack(ok bool, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcknowledged
	}
	return true, nil
}

func value(v int, ok bool) (interface{}, error) {
	if !ok {
		return nil, ErrNoValue
	}
	return v, nil
}
