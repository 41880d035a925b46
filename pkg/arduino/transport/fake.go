package transport

import (
	"strings"
	"sync"
	"time"
)

// Fake is an in-memory Transport which replies to written commands.
// It is intended for tests.
type Fake struct {
	// Reply produces the reply for a command (without terminators).
	// Returning false keeps the device silent so the read times out.
	Reply func(cmd string) (string, bool)
	// Delay is applied before a reply is delivered.
	Delay time.Duration
	// Timeout is how long ReadLine blocks when nothing is queued.
	Timeout time.Duration

	lock        sync.Mutex
	commands    []string
	queued      []string
	awaiting    bool
	interleaved bool
	writeErr    error
	flushes     int
	closes      int
	closed      bool
}

// NewFake creates a Fake with a reply func.
func NewFake(reply func(string) (string, bool)) *Fake {
	return &Fake{Reply: reply, Timeout: 10 * time.Millisecond}
}

// ReplyMap replies with fixed lines keyed by the full command.
// Unknown commands get no reply.
func ReplyMap(replies map[string]string) func(string) (string, bool) {
	return func(cmd string) (string, bool) {
		reply, ok := replies[cmd]
		return reply, ok
	}
}

// ReplyAll replies the same line to every command.
func ReplyAll(reply string) func(string) (string, bool) {
	return func(string) (string, bool) { return reply, true }
}

// ReplySeq replies lines in order regardless of the command.
// Once exhausted the device is silent.
func ReplySeq(lines ...string) func(string) (string, bool) {
	var lock sync.Mutex
	return func(string) (string, bool) {
		lock.Lock()
		defer lock.Unlock()
		if len(lines) == 0 {
			return "", false
		}
		reply := lines[0]
		lines = lines[1:]
		return reply, true
	}
}

// Write implements io.Writer.
func (f *Fake) Write(p []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.awaiting {
		f.interleaved = true
	}
	f.awaiting = true
	cmd := strings.TrimSuffix(string(p), "\r")
	f.commands = append(f.commands, cmd)
	if f.Reply != nil {
		if reply, ok := f.Reply(cmd); ok {
			f.queued = append(f.queued, reply)
		}
	}
	return len(p), nil
}

// ReadLine implements Transport.
func (f *Fake) ReadLine() ([]byte, error) {
	f.lock.Lock()
	if f.closed {
		f.lock.Unlock()
		return nil, ErrClosed
	}
	if len(f.queued) == 0 {
		timeout := f.Timeout
		f.lock.Unlock()
		time.Sleep(timeout)
		f.lock.Lock()
		f.awaiting = false
		f.lock.Unlock()
		return nil, ErrTimeout
	}
	reply := f.queued[0]
	f.queued = f.queued[1:]
	delay := f.Delay
	f.lock.Unlock()

	time.Sleep(delay)

	f.lock.Lock()
	f.awaiting = false
	f.lock.Unlock()
	return []byte(reply + "\r\n"), nil
}

// Inject queues unsolicited lines as if the device sent them.
func (f *Fake) Inject(lines ...string) {
	f.lock.Lock()
	f.queued = append(f.queued, lines...)
	f.lock.Unlock()
}

// Flush implements Transport.
func (f *Fake) Flush() error {
	f.lock.Lock()
	f.queued = nil
	f.flushes++
	f.lock.Unlock()
	return nil
}

// Close implements io.Closer.
func (f *Fake) Close() error {
	f.lock.Lock()
	f.closed = true
	f.closes++
	f.lock.Unlock()
	return nil
}

// SetWriteError makes subsequent writes fail with err.
func (f *Fake) SetWriteError(err error) {
	f.lock.Lock()
	f.writeErr = err
	f.lock.Unlock()
}

// Commands returns all written commands without terminators.
func (f *Fake) Commands() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.commands...)
}

// Interleaved reports whether a command was written while the reply
// of a previous one was still outstanding.
func (f *Fake) Interleaved() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.interleaved
}

// Flushes returns the number of Flush calls.
func (f *Fake) Flushes() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.flushes
}

// Closed reports whether the transport is currently closed.
func (f *Fake) Closed() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.closed
}

// Closes returns the number of Close calls.
func (f *Fake) Closes() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.closes
}

func (f *Fake) reopen() {
	f.lock.Lock()
	f.closed = false
	f.queued = nil
	f.awaiting = false
	f.lock.Unlock()
}

// FakeOpener hands out the same Fake on every Open.
type FakeOpener struct {
	Fake *Fake
	// Err fails Open when set.
	Err error

	lock   sync.Mutex
	opened []Config
}

// Open implements Opener.
func (o *FakeOpener) Open(cfg Config) (Transport, error) {
	o.lock.Lock()
	o.opened = append(o.opened, cfg)
	o.lock.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	o.Fake.reopen()
	return o.Fake, nil
}

// Opened returns the configs passed to Open.
func (o *FakeOpener) Opened() []Config {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]Config(nil), o.opened...)
}
