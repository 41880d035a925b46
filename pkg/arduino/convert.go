package arduino

import (
	"math"
	"time"
)

// PIDRate is the rate in Hz of the firmware motor PID loop.
// It is fixed in firmware.
const PIDRate = 30

// PIDInterval is the period of the firmware motor PID loop.
const PIDInterval = time.Second / PIDRate

// Geometry describes the drive train.
type Geometry struct {
	// WheelDiameter in meters.
	WheelDiameter float64 `toml:"wheel_diameter"`
	// EncoderResolution in ticks per revolution.
	EncoderResolution float64 `toml:"encoder_resolution"`
	GearReduction     float64 `toml:"gear_reduction"`
}

// IsValid indicates all fields are set.
func (g Geometry) IsValid() bool {
	return g.WheelDiameter > 0 && g.EncoderResolution > 0 && g.GearReduction > 0
}

// TicksPerInterval converts wheel speed in m/s to encoder ticks per PID
// interval, truncated toward zero. The interval is exactly 1/30 s, not
// the 33 ms an integer millisecond interval gives: 1 m/s on a 0.2 m
// wheel with 720 ticks/rev is 38 ticks, not 37.
func (g Geometry) TicksPerInterval(speed float64) int {
	revsPerSecond := speed / (g.WheelDiameter * math.Pi)
	return int(revsPerSecond * g.EncoderResolution * g.GearReduction * PIDInterval.Seconds())
}

// DriveMPerS sets motor speeds in meters per second.
func (d *Driver) DriveMPerS(right, left float64) (bool, error) {
	if !d.geometry.IsValid() {
		return false, ErrNoGeometry
	}
	return d.Drive(d.geometry.TicksPerInterval(right), d.geometry.TicksPerInterval(left))
}
