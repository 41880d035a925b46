// Package device registers a shell command for every device operation.
package device

import (
	"fmt"
	"io"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/arduino.go/pkg/arduino"
	"github.com/robotalks/arduino.go/pkg/cli/sh"
	"github.com/robotalks/arduino.go/pkg/commands"
)

// BlinkPin is the pin of the on-board LED.
const BlinkPin = 13

var (
	// SelfTestCmd runs a connectivity test.
	SelfTestCmd = ishell.Cmd{
		Name: "selftest",
		Help: "Read analog 0 and digital 0, blink the LED 3 times and stop motors.",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if err := SelfTest(sh.ShellFrom(c).Device, output{c}, time.Second); err != nil {
				c.Err(err)
			}
		}),
	}
)

type output struct {
	c *ishell.Context
}

func (o output) Write(p []byte) (int, error) {
	o.c.Print(string(p))
	return len(p), nil
}

// Cmds creates the shell commands of all device operations.
func Cmds() []*ishell.Cmd {
	var cmds []*ishell.Cmd
	for _, cmd := range commands.All() {
		cmd := cmd
		help := cmd.Help
		if usage := cmd.Usage(); usage != "" {
			help = usage + ": " + help
		}
		cmds = append(cmds, &ishell.Cmd{
			Name:    cmd.Name,
			Aliases: cmd.Aliases,
			Help:    help,
			Func: sh.MustBeConnected(func(c *ishell.Context) {
				sh.DoCommand(c, cmd)
			}),
		})
	}
	return append(cmds, &SelfTestCmd)
}

// SelfTest exercises the device and reports to w. The LED is toggled
// every interval.
func SelfTest(d commands.Device, w io.Writer, interval time.Duration) error {
	if val, ok := d.AnalogRead(0); ok {
		fmt.Fprintf(w, "Reading on analog pin 0: %d\n", val)
	} else {
		fmt.Fprintln(w, "Reading on analog pin 0: no value")
	}
	if val, ok := d.DigitalRead(0); ok {
		fmt.Fprintf(w, "Reading on digital pin 0: %d\n", val)
	} else {
		fmt.Fprintln(w, "Reading on digital pin 0: no value")
	}
	fmt.Fprintln(w, "Blinking the LED 3 times")
	if _, err := d.DigitalPinMode(BlinkPin, arduino.Output); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		for _, val := range []int{1, 0} {
			if _, err := d.DigitalWrite(BlinkPin, val); err != nil {
				return err
			}
			time.Sleep(interval)
		}
	}
	ok, err := d.Stop()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("stop: %w", commands.ErrNotAcknowledged)
	}
	fmt.Fprintln(w, "Connection test successful.")
	return nil
}

func init() {
	sh.AddCmds(Cmds()...)
}
