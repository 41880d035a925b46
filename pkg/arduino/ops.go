package arduino

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// Pin modes.
const (
	Input  = 0
	Output = 1
)

// Reply arities.
const (
	EncoderArity = 2
	IMUArity     = 12
)

// IMUSample is one reading of the IMU.
type IMUSample struct {
	Accel [3]float64 `json:"accel"`
	Gyro  [3]float64 `json:"gyro"`
	Mag   [3]float64 `json:"mag"`
	Roll  float64    `json:"roll"`
	Pitch float64    `json:"pitch"`
	// Heading is the unified heading some IMUs compute from gyro and compass.
	Heading float64 `json:"heading"`
}

// GetBaud reads the baud rate configured in firmware.
// ok is false if there's no valid reply.
func (d *Driver) GetBaud() (baud int, ok bool) {
	return d.readInt("b")
}

// EncoderCounts reads both encoder counters in the order the firmware
// reports them.
func (d *Driver) EncoderCounts() (counts [EncoderArity]int, err error) {
	const cmd = "e"
	values, err := d.ExecuteArray(cmd)
	if err != nil {
		return counts, err
	}
	if len(values) != EncoderArity {
		return counts, &ProtocolError{Cmd: cmd, Line: strings.Join(values, " "), Want: EncoderArity, Got: len(values)}
	}
	for n, val := range values {
		if counts[n], err = strconv.Atoi(val); err != nil {
			return counts, &ProtocolError{Cmd: cmd, Line: strings.Join(values, " "), Err: err}
		}
	}
	return counts, nil
}

// ResetEncoders resets encoder counters to 0.
func (d *Driver) ResetEncoders() (bool, error) {
	return d.ExecuteAck("r")
}

// IMU reads a sample. A reply without exactly IMUArity values fails with
// ErrIncompleteSample, the caller may simply try again.
func (d *Driver) IMU() (*IMUSample, error) {
	const cmd = "i"
	values, err := d.ExecuteArray(cmd)
	if err != nil {
		return nil, err
	}
	line := strings.Join(values, " ")
	if len(values) != IMUArity {
		return nil, &ProtocolError{Cmd: cmd, Line: line, Want: IMUArity, Got: len(values), Err: ErrIncompleteSample}
	}
	var v [IMUArity]float64
	for n, val := range values {
		if v[n], err = strconv.ParseFloat(val, 64); err != nil {
			return nil, &ProtocolError{Cmd: cmd, Line: line, Err: err}
		}
	}
	return &IMUSample{
		Accel:   [3]float64{v[0], v[1], v[2]},
		Gyro:    [3]float64{v[3], v[4], v[5]},
		Mag:     [3]float64{v[6], v[7], v[8]},
		Roll:    v[9],
		Pitch:   v[10],
		Heading: v[11],
	}, nil
}

// Drive sets motor speeds in encoder ticks per PID interval.
func (d *Driver) Drive(right, left int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("m %d %d", right, left))
}

// Stop stops both motors.
func (d *Driver) Stop() (bool, error) {
	return d.Drive(0, 0)
}

// AnalogPinMode sets the mode of an analog pin.
func (d *Driver) AnalogPinMode(pin, mode int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("c A%d %d", pin, mode))
}

// AnalogRead reads an analog pin, ok is false if there's no valid reply.
func (d *Driver) AnalogRead(pin int) (value int, ok bool) {
	return d.readInt(fmt.Sprintf("a %d", pin))
}

// AnalogWrite writes a PWM value to a pin.
func (d *Driver) AnalogWrite(pin, value int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("x %d %d", pin, value))
}

// DigitalPinMode sets the mode of a digital pin.
func (d *Driver) DigitalPinMode(pin, mode int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("c %d %d", pin, mode))
}

// DigitalRead reads a digital pin, ok is false if there's no valid reply.
func (d *Driver) DigitalRead(pin int) (value int, ok bool) {
	return d.readInt(fmt.Sprintf("d %d", pin))
}

// DigitalWrite writes a digital pin.
func (d *Driver) DigitalWrite(pin, value int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("w %d %d", pin, value))
}

// ConfigServo attaches a PWM servo on pin with the delay in ms between steps.
func (d *Driver) ConfigServo(pin, stepDelay int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("j %d %d", pin, stepDelay))
}

// ServoWrite moves a servo to pos in degrees (0-180).
// The value is sent as is.
func (d *Driver) ServoWrite(id, pos int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("s %d %d", id, pos))
}

// ServoRead reads the servo position in degrees.
func (d *Driver) ServoRead(id int) (int, error) {
	cmd := fmt.Sprintf("t %d", id)
	line, err := d.Execute(cmd)
	if err != nil {
		return 0, err
	}
	pos, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &ProtocolError{Cmd: cmd, Line: line, Err: err}
	}
	return pos, nil
}

// SetServoDelay sets the delay in ms between position updates,
// which controls the servo speed.
func (d *Driver) SetServoDelay(id, delay int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("v %d %d", id, delay))
}

// AttachServo attaches a servo.
func (d *Driver) AttachServo(id int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("y %d", id))
}

// DetachServo detaches a servo from control.
func (d *Driver) DetachServo(id int) (bool, error) {
	return d.ExecuteAck(fmt.Sprintf("z %d", id))
}

// Ping queries a sonar sensor on pin for the range in cm.
// The reply is returned untouched.
func (d *Driver) Ping(pin int) (string, error) {
	return d.Execute(fmt.Sprintf("p %d", pin))
}

// UpdatePID sets the gains of the motor PID controller.
func (d *Driver) UpdatePID(kp, kd, ki, ko int) (bool, error) {
	glog.Infof("updating PID parameters Kp=%d Kd=%d Ki=%d Ko=%d", kp, kd, ki, ko)
	return d.ExecuteAck(fmt.Sprintf("u %d:%d:%d:%d", kp, kd, ki, ko))
}

// readInt treats line noise and timeouts as an unknown value.
func (d *Driver) readInt(cmd string) (int, bool) {
	line, err := d.Execute(cmd)
	if err != nil {
		glog.Warningf("%q: %v", cmd, err)
		return 0, false
	}
	val, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		glog.V(1).Infof("%q: unparsable reply %q", cmd, line)
		return 0, false
	}
	return val, true
}
