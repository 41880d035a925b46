package commands

var all = []*Command{
	{
		Name: "baud", Help: "Read the baud rate configured in firmware.",
		do: func(d Device, a Args) (interface{}, error) { return value(d.GetBaud()) },
	},
	{
		Name: "encoders", Aliases: []string{"enc"}, Help: "Read encoder counts.",
		do: func(d Device, a Args) (interface{}, error) {
			counts, err := d.EncoderCounts()
			if err != nil {
				return nil, err
			}
			return counts, nil
		},
	},
	{
		Name: "reset_encoders", Aliases: []string{"reset"}, Help: "Reset encoder counts to 0.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.ResetEncoders()) },
	},
	{
		Name: "imu", Help: "Read an IMU sample.",
		do: func(d Device, a Args) (interface{}, error) {
			sample, err := d.IMU()
			if err != nil {
				return nil, err
			}
			return sample, nil
		},
	},
	{
		Name: "drive", Aliases: []string{"m"}, Args: []string{"RIGHT", "LEFT"},
		Help: "Set motor speeds in encoder ticks per PID interval.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.Drive(a.Int(0), a.Int(1))) },
	},
	{
		Name: "drive_mps", Args: []string{"RIGHT", "LEFT"}, Floats: true,
		Help: "Set wheel speeds in m/s.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.DriveMPerS(a.Float(0), a.Float(1))) },
	},
	{
		Name: "stop", Help: "Stop both motors.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.Stop()) },
	},
	{
		Name: "analog_pin_mode", Args: []string{"PIN", "MODE"}, Help: "Set analog pin mode (0=input, 1=output).",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.AnalogPinMode(a.Int(0), a.Int(1))) },
	},
	{
		Name: "analog_read", Aliases: []string{"ar"}, Args: []string{"PIN"}, Help: "Read an analog pin.",
		do: func(d Device, a Args) (interface{}, error) { return value(d.AnalogRead(a.Int(0))) },
	},
	{
		Name: "analog_write", Aliases: []string{"aw"}, Args: []string{"PIN", "VALUE"}, Help: "Write PWM value to a pin.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.AnalogWrite(a.Int(0), a.Int(1))) },
	},
	{
		Name: "digital_pin_mode", Args: []string{"PIN", "MODE"}, Help: "Set digital pin mode (0=input, 1=output).",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.DigitalPinMode(a.Int(0), a.Int(1))) },
	},
	{
		Name: "digital_read", Aliases: []string{"dr"}, Args: []string{"PIN"}, Help: "Read a digital pin.",
		do: func(d Device, a Args) (interface{}, error) { return value(d.DigitalRead(a.Int(0))) },
	},
	{
		Name: "digital_write", Aliases: []string{"dw"}, Args: []string{"PIN", "VALUE"}, Help: "Write a digital pin.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.DigitalWrite(a.Int(0), a.Int(1))) },
	},
	{
		Name: "config_servo", Args: []string{"PIN", "STEP_DELAY"}, Help: "Configure a PWM servo.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.ConfigServo(a.Int(0), a.Int(1))) },
	},
	{
		Name: "servo_write", Aliases: []string{"sw"}, Args: []string{"ID", "DEGREES"}, Help: "Move a servo (0-180 degrees).",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.ServoWrite(a.Int(0), a.Int(1))) },
	},
	{
		Name: "servo_read", Aliases: []string{"sr"}, Args: []string{"ID"}, Help: "Read servo position in degrees.",
		do: func(d Device, a Args) (interface{}, error) {
			pos, err := d.ServoRead(a.Int(0))
			if err != nil {
				return nil, err
			}
			return pos, nil
		},
	},
	{
		Name: "set_servo_delay", Args: []string{"ID", "DELAY"}, Help: "Set delay in ms between servo position updates.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.SetServoDelay(a.Int(0), a.Int(1))) },
	},
	{
		Name: "attach_servo", Args: []string{"ID"}, Help: "Attach a servo.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.AttachServo(a.Int(0))) },
	},
	{
		Name: "detach_servo", Args: []string{"ID"}, Help: "Detach a servo.",
		do: func(d Device, a Args) (interface{}, error) { return ack(d.DetachServo(a.Int(0))) },
	},
	{
		Name: "ping", Args: []string{"PIN"}, Help: "Read sonar range in cm.",
		do: func(d Device, a Args) (interface{}, error) {
			cm, err := d.Ping(a.Int(0))
			if err != nil {
				return nil, err
			}
			return cm, nil
		},
	},
	{
		Name: "update_pid", Aliases: []string{"pid"}, Args: []string{"KP", "KD", "KI", "KO"}, Help: "Set motor PID gains.",
		do: func(d Device, a Args) (interface{}, error) {
			return ack(d.UpdatePID(a.Int(0), a.Int(1), a.Int(2), a.Int(3)))
		},
	},
}
