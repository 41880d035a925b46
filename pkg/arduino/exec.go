package arduino

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang/glog"
)

const (
	// AckToken is the reply of a successful command.
	AckToken = "OK"

	lineTerminator = "\r"
)

// Execute sends cmd and returns the reply line without terminators.
// It's the only method writing to the transport, and the lock covers
// the full write and read so replies are never paired with another
// caller's command.
func (d *Driver) Execute(cmd string) (string, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed {
		return "", ErrClosed
	}

	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		var line string
		start := time.Now()
		line, err = d.roundTrip(cmd)
		if d.observer != nil {
			d.observer.ObserveExchange(cmd, time.Since(start), err)
		}
		if err == nil {
			return line, nil
		}
		// The reply may still arrive after a failed write or read, drop it
		// or it answers the next command.
		if ferr := d.transport.Flush(); ferr != nil {
			glog.Warningf("flush %s: %v", d.port, ferr)
		}
		if !IsTimeout(err) {
			return "", err
		}
		if attempt < d.maxAttempts {
			glog.Warningf("%q timed out, retry %d/%d", cmd, attempt, d.maxAttempts-1)
		}
	}
	return "", err
}

// ExecuteArray sends cmd and splits the reply on whitespace.
func (d *Driver) ExecuteArray(cmd string) ([]string, error) {
	line, err := d.Execute(cmd)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

// ExecuteAck sends cmd and reports whether the device acknowledged it.
func (d *Driver) ExecuteAck(cmd string) (bool, error) {
	line, err := d.Execute(cmd)
	if err != nil {
		return false, err
	}
	return line == AckToken, nil
}

func (d *Driver) roundTrip(cmd string) (string, error) {
	glog.V(2).Infof("TX %q", cmd)
	if _, err := io.WriteString(d.transport, cmd+lineTerminator); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}
	raw, err := d.transport.ReadLine()
	if err != nil {
		return "", fmt.Errorf("read reply of %q: %w", cmd, err)
	}
	line := strings.TrimRight(string(raw), "\r\n")
	glog.V(2).Infof("RX %q", line)
	return line, nil
}
