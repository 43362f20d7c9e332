// Package madgwick implements the Madgwick gradient-descent orientation
// filter for a 6-axis IMU (no magnetometer).
package madgwick

import "math"

// DefaultBeta is the gradient-descent step weight.
const DefaultBeta = 0.1

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Quaternion is a unit rotation quaternion.
type Quaternion struct {
	W, X, Y, Z float64
}

// Filter holds the orientation estimate.
// Not safe for concurrent use.
type Filter struct {
	beta        float64
	invSampleHz float64
	q           Quaternion

	anglesStale      bool
	roll, pitch, yaw float64
}

// New creates a filter integrating at sampleHz with the given beta.
// A non-positive beta falls back to DefaultBeta.
func New(sampleHz, beta float64) *Filter {
	if beta <= 0 {
		beta = DefaultBeta
	}
	return &Filter{
		beta:        beta,
		invSampleHz: 1 / sampleHz,
		q:           Quaternion{W: 1},
	}
}

// UpdateIMU folds one gyroscope (deg/s) and accelerometer (any unit)
// sample into the estimate. An all-zero accelerometer skips the
// gradient-descent correction and integrates the gyro alone.
func (f *Filter) UpdateIMU(gx, gy, gz, ax, ay, az float64) {
	gx *= degToRad
	gy *= degToRad
	gz *= degToRad

	q0, q1, q2, q3 := f.q.W, f.q.X, f.q.Y, f.q.Z

	// Rate of change of quaternion from gyroscope.
	qDot1 := 0.5 * (-q1*gx - q2*gy - q3*gz)
	qDot2 := 0.5 * (q0*gx + q2*gz - q3*gy)
	qDot3 := 0.5 * (q0*gy - q1*gz + q3*gx)
	qDot4 := 0.5 * (q0*gz + q1*gy - q2*gx)

	if !(ax == 0 && ay == 0 && az == 0) {
		n := invNorm3(ax, ay, az)
		ax *= n
		ay *= n
		az *= n

		_2q0 := 2 * q0
		_2q1 := 2 * q1
		_2q2 := 2 * q2
		_2q3 := 2 * q3
		_4q0 := 4 * q0
		_4q1 := 4 * q1
		_4q2 := 4 * q2
		_8q1 := 8 * q1
		_8q2 := 8 * q2
		q0q0 := q0 * q0
		q1q1 := q1 * q1
		q2q2 := q2 * q2
		q3q3 := q3 * q3

		// Gradient of the objective function.
		s0 := _4q0*q2q2 + _2q2*ax + _4q0*q1q1 - _2q1*ay
		s1 := _4q1*q3q3 - _2q3*ax + 4*q0q0*q1 - _2q0*ay - _4q1 + _8q1*q1q1 + _8q1*q2q2 + _4q1*az
		s2 := 4*q0q0*q2 + _2q0*ax + _4q2*q3q3 - _2q3*ay - _4q2 + _8q2*q1q1 + _8q2*q2q2 + _4q2*az
		s3 := 4*q1q1*q3 - _2q1*ax + 4*q2q2*q3 - _2q2*ay

		// At the exact optimum the gradient vanishes.
		if ss := s0*s0 + s1*s1 + s2*s2 + s3*s3; ss > 0 {
			n = 1 / math.Sqrt(ss)
			qDot1 -= f.beta * s0 * n
			qDot2 -= f.beta * s1 * n
			qDot3 -= f.beta * s2 * n
			qDot4 -= f.beta * s3 * n
		}
	}

	q0 += qDot1 * f.invSampleHz
	q1 += qDot2 * f.invSampleHz
	q2 += qDot3 * f.invSampleHz
	q3 += qDot4 * f.invSampleHz

	n := 1 / math.Sqrt(q0*q0+q1*q1+q2*q2+q3*q3)
	f.q = Quaternion{W: q0 * n, X: q1 * n, Y: q2 * n, Z: q3 * n}
	f.anglesStale = true
}

// Quaternion returns the current estimate.
func (f *Filter) Quaternion() Quaternion {
	return f.q
}

// Roll returns rotation about X in degrees.
func (f *Filter) Roll() float64 {
	f.computeAngles()
	return f.roll * radToDeg
}

// Pitch returns rotation about Y in degrees.
func (f *Filter) Pitch() float64 {
	f.computeAngles()
	return f.pitch * radToDeg
}

// Yaw returns rotation about Z in degrees, in [0, 360).
func (f *Filter) Yaw() float64 {
	f.computeAngles()
	return f.yaw*radToDeg + 180
}

func (f *Filter) computeAngles() {
	if !f.anglesStale {
		return
	}
	q0, q1, q2, q3 := f.q.W, f.q.X, f.q.Y, f.q.Z
	f.roll = math.Atan2(q0*q1+q2*q3, 0.5-q1*q1-q2*q2)
	f.pitch = math.Asin(clamp(-2*(q1*q3-q0*q2), -1, 1))
	f.yaw = math.Atan2(q1*q2+q0*q3, 0.5-q2*q2-q3*q3)
	f.anglesStale = false
}

func invNorm3(x, y, z float64) float64 {
	return 1 / math.Sqrt(x*x+y*y+z*z)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
