package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const machineIDApp = "arduino.go"

// MachineID retrieves an ID unique to the machine. It is hashed so the
// raw machine ID is not exposed in topics. Falls back to the hostname.
func MachineID() string {
	id, err := machineid.ProtectedID(machineIDApp)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "arduino"
}
