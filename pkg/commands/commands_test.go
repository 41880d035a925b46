package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/arduino.go/pkg/arduino"
	"github.com/robotalks/arduino.go/pkg/arduino/transport"
)

func newDevice(replies map[string]string) (*arduino.Driver, *transport.Fake) {
	f := transport.NewFake(transport.ReplyMap(replies))
	f.Timeout = time.Millisecond
	return arduino.New(f, arduino.Config{
		Port:     "fake",
		Timeout:  time.Millisecond,
		Geometry: arduino.Geometry{WheelDiameter: 0.2, EncoderResolution: 720, GearReduction: 1},
	}), f
}

func run(t *testing.T, d Device, name string, args ...float64) (interface{}, error) {
	cmd, err := Lookup(name)
	require.NoError(t, err)
	return cmd.Do(d, args)
}

func TestCommandWireFormat(t *testing.T) {
	testCases := []struct {
		name string
		args []float64
		wire string
	}{
		{"reset_encoders", nil, "r"},
		{"drive", []float64{5, -5}, "m 5 -5"},
		{"drive_mps", []float64{1, 0.5}, "m 38 19"},
		{"stop", nil, "m 0 0"},
		{"analog_pin_mode", []float64{1, 0}, "c A1 0"},
		{"analog_write", []float64{3, 255}, "x 3 255"},
		{"digital_pin_mode", []float64{13, 1}, "c 13 1"},
		{"digital_write", []float64{13, 1}, "w 13 1"},
		{"config_servo", []float64{9, 10}, "j 9 10"},
		{"servo_write", []float64{0, 90}, "s 0 90"},
		{"set_servo_delay", []float64{0, 5}, "v 0 5"},
		{"attach_servo", []float64{0}, "y 0"},
		{"detach_servo", []float64{0}, "z 0"},
		{"update_pid", []float64{20, 12, 0, 50}, "u 20:12:0:50"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, f := newDevice(map[string]string{tc.wire: "OK"})
			res, err := run(t, d, tc.name, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, true, res)
			assert.Equal(t, []string{tc.wire}, f.Commands())
		})
	}
}

func TestCommandReads(t *testing.T) {
	d, _ := newDevice(map[string]string{
		"b":   "57600",
		"e":   "10 20",
		"a 0": "1023",
		"d 2": "1",
		"t 1": "45",
		"p 7": "120",
		"i":   "1 2 3 4 5 6 7 8 9 10 11 12",
	})
	testCases := []struct {
		name string
		args []float64
		want interface{}
	}{
		{"baud", nil, 57600},
		{"encoders", nil, [2]int{10, 20}},
		{"analog_read", []float64{0}, 1023},
		{"digital_read", []float64{2}, 1},
		{"servo_read", []float64{1}, 45},
		{"ping", []float64{7}, "120"},
	}
	for _, tc := range testCases {
		res, err := run(t, d, tc.name, tc.args...)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, res, tc.name)
	}

	res, err := run(t, d, "imu")
	require.NoError(t, err)
	sample, ok := res.(*arduino.IMUSample)
	require.True(t, ok)
	assert.Equal(t, 12.0, sample.Heading)
}

func TestCommandFailures(t *testing.T) {
	d, _ := newDevice(map[string]string{"w 13 1": "ERR", "a 0": "noise"})
	_, err := run(t, d, "digital_write", 13, 1)
	assert.Equal(t, ErrNotAcknowledged, err)
	_, err = run(t, d, "analog_read", 0)
	assert.Equal(t, ErrNoValue, err)
	_, err = run(t, d, "encoders")
	assert.True(t, arduino.IsTimeout(err))
}

func TestCommandArgs(t *testing.T) {
	cmd, err := Lookup("drive")
	require.NoError(t, err)
	d, f := newDevice(nil)

	_, err = cmd.Do(d, []float64{1})
	var argErr *ArgError
	assert.True(t, errors.As(err, &argErr))
	_, err = cmd.Do(d, []float64{1, 1.5})
	assert.True(t, errors.As(err, &argErr))
	_, err = cmd.Do(d, []float64{1e20, 0})
	require.True(t, errors.As(err, &argErr))
	assert.Contains(t, argErr.Msg, "out of range")
	_, err = cmd.Do(d, []float64{0, -3e9})
	assert.True(t, errors.As(err, &argErr))
	assert.Empty(t, f.Commands())
	assert.Equal(t, "RIGHT LEFT", cmd.Usage())
}

func TestLookup(t *testing.T) {
	cmd, err := Lookup("enc")
	require.NoError(t, err)
	assert.Equal(t, "encoders", cmd.Name)
	_, err = Lookup("fly")
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	names := make(map[string]bool)
	for _, cmd := range All() {
		require.False(t, names[cmd.Name], "duplicated %s", cmd.Name)
		names[cmd.Name] = true
	}
	assert.Len(t, names, 21)
}

func TestParseArgs(t *testing.T) {
	values, err := ParseArgs([]string{"1", "-2.5"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5}, values)
	_, err = ParseArgs([]string{"x"})
	assert.Error(t, err)
}
