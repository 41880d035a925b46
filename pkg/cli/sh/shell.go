package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/arduino.go/pkg/arduino"
	"github.com/robotalks/arduino.go/pkg/commands"
	"github.com/robotalks/arduino.go/pkg/env"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Device commands.Device

	driver *arduino.Driver
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	cmds = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(c ...*ishell.Cmd) {
	cmds = append(cmds, c...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range cmds {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Device == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// DoCommand runs a command with the arguments of the context and
// prints the result.
func DoCommand(c *ishell.Context, cmd *commands.Command) error {
	s := ShellFrom(c)
	if s.Device == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	args, err := commands.ParseArgs(c.Args)
	if err == nil {
		var res interface{}
		if res, err = cmd.Do(s.Device, args); err == nil {
			return s.Print(c, res)
		}
	}
	if s.OutputJSON {
		s.Print(c, map[string]string{"error": err.Error()})
	} else {
		c.Err(err)
	}
	return err
}

// Print prints a command result.
func (s *Shell) Print(c *ishell.Context, res interface{}) error {
	if s.OutputJSON {
		out, err := json.Marshal(res)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	switch v := res.(type) {
	case bool:
		c.Println("OK")
	case *arduino.IMUSample:
		c.Printf("accel %v gyro %v mag %v roll %v pitch %v heading %v\n",
			v.Accel, v.Gyro, v.Mag, v.Roll, v.Pitch, v.Heading)
	case [arduino.EncoderArity]int:
		c.Printf("%d %d\n", v[0], v[1])
	default:
		c.Println(v)
	}
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect connects the device with the current config. The port is
// opened exclusively, so a driver on the same port is closed first.
func (s *Shell) Connect() error {
	if s.driver != nil && s.driver.Port() == s.Config.Port {
		s.Disconnect()
	}
	d, err := s.Config.Connect(context.Background(), nil)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.driver, s.Device = d, d
	s.Shell.SetPrompt(fmt.Sprintf("%s@%d > ", d.Port(), d.BaudRate()))
	return nil
}

// Disconnect disconnects current device.
func (s *Shell) Disconnect() {
	if s.driver != nil {
		s.driver.Close()
		s.driver = nil
	}
	s.Device = nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
	if s.AutoConnect && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Port)
		}
		if err := s.Connect(); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Port, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects the device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PORT [BAUD]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Port = c.Args[0]
			}
			if len(c.Args) > 1 {
				baud, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("invalid baud rate %q", c.Args[1]))
					return
				}
				s.Config.BaudRate = baud
			}
			if err := s.Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.MustNewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
