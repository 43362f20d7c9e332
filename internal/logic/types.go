// Package logic contains the pure numeric core of the launcher: signal
// filtering, thrust-integral latching and attitude gating.
// This package has NO external dependencies (no GPIO, I2C, MQTT or clock).
// Time and gain are always passed in by the caller.
package logic

import "time"

// FullScaleLSB is the magnitude of the most negative signed 16-bit sample.
const FullScaleLSB = 32768.0

// GainDivisor converts the caller's raw gain into the filter coefficient.
const GainDivisor = 1000000.0

// RawSample is one tri-axis accelerometer + gyroscope reading in sensor LSB.
type RawSample struct {
	Ax, Ay, Az int16
	Gx, Gy, Gz int16
}

// Channels holds the six physical-unit channels.
// Accel in g, gyro in deg/s.
type Channels struct {
	Ax, Ay, Az float64
	Gx, Gy, Gz float64
}

// SensorConfig is programmed into the sensor at init and used for LSB
// conversion. Both sides must agree or physical units are silently wrong.
type SensorConfig struct {
	AccelRange  float64 // g at full scale
	GyroRange   float64 // deg/s at full scale
	FrequencyHz int
}

// DefaultSensorConfig matches the reference launcher hardware.
func DefaultSensorConfig() SensorConfig {
	return SensorConfig{
		AccelRange:  16,
		GyroRange:   250,
		FrequencyHz: 25,
	}
}

// Vehicle holds the physical constants the propulsion threshold derives from.
type Vehicle struct {
	Gravity  float64 // m/s^2
	Thrust   float64 // rated thrust, N
	Isp      float64 // specific impulse, s
	Mass     float64 // kg
	BurnRate float64 // fraction of the burn to wait for

	// MountingOffsetG is added to the filtered X acceleration before
	// integration. 1.0 compensates gravity for a nose-up X axis.
	MountingOffsetG float64
}

// DefaultVehicle matches the reference launcher.
func DefaultVehicle() Vehicle {
	return Vehicle{
		Gravity:         9.81,
		Thrust:          675.0,
		Isp:             2.952,
		Mass:            12.1665,
		BurnRate:        0.80,
		MountingOffsetG: 1.0,
	}
}

// Threshold returns rate * thrust * isp / mass.
func (v Vehicle) Threshold() float64 {
	return v.BurnRate * v.Thrust * v.Isp / v.Mass
}

// PropulsionState is the state of the thrust-integral latch.
type PropulsionState string

const (
	StateAccumulating PropulsionState = "ACCUMULATING"
	StateLatched      PropulsionState = "LATCHED"
)

// EventType names a signal change worth reporting.
type EventType string

const (
	EventPropulsionShutdown EventType = "PROPULSION_SHUTDOWN"
	EventAttitudeOK         EventType = "ATTITUDE_OK"
	EventAttitudeLost       EventType = "ATTITUDE_LOST"
)

// Event is a signal change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType

	// SecondsSinceBoot is the clock reading that accompanied the event.
	SecondsSinceBoot int64

	Propulsion bool
	Attitude   bool
	TiltDeg    float64
	Sum        float64
}

// ScaledGain converts a caller gain into the EMA coefficient.
func ScaledGain(gain float64) float64 {
	return gain / GainDivisor
}

// ScaleRaw converts a signed 16-bit sample into physical units.
// -32768 maps exactly to -rng; +32767 maps slightly below +rng.
func ScaleRaw(raw int16, rng float64) float64 {
	return float64(raw) * rng / FullScaleLSB
}
