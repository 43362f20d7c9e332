// Package imu reads raw tri-axis accelerometer and gyroscope samples.
package imu

import "github.com/sweeney/launcher-inertial/internal/logic"

// Sensor delivers one raw 6-axis sample per call.
type Sensor interface {
	// ReadMotion returns the latest accel+gyro sample in sensor LSB.
	ReadMotion() (logic.RawSample, error)

	// Close releases the sensor bus.
	Close() error
}
