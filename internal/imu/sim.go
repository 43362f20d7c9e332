package imu

import (
	"math"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

// SimProfile describes a synthetic launch: the launcher sits on the rail at
// PitchDeg, the motor ignites after IgnitionAfter samples and adds BoostG of
// forward acceleration along X for BurnSamples samples.
type SimProfile struct {
	PitchDeg      float64
	IgnitionAfter int
	BurnSamples   int
	BoostG        float64
}

// SimSensor produces samples for a SimProfile, one per ReadMotion call.
type SimSensor struct {
	cfg     logic.SensorConfig
	profile SimProfile
	n       int
}

// NewSimSensor creates a simulated sensor quantised with cfg's ranges.
func NewSimSensor(cfg logic.SensorConfig, p SimProfile) *SimSensor {
	return &SimSensor{cfg: cfg, profile: p}
}

// ReadMotion returns the next simulated sample. Gyro reads zero; the
// accelerometer reports gravity for the rail pitch plus boost during burn.
func (s *SimSensor) ReadMotion() (logic.RawSample, error) {
	r := s.profile.PitchDeg * math.Pi / 180
	ax := -math.Sin(r)
	az := math.Cos(r)

	burnStart := s.profile.IgnitionAfter
	if s.n >= burnStart && s.n < burnStart+s.profile.BurnSamples {
		ax += s.profile.BoostG
	}
	s.n++

	return logic.RawSample{
		Ax: toLSB(ax, s.cfg.AccelRange),
		Az: toLSB(az, s.cfg.AccelRange),
	}, nil
}

// Close is a no-op.
func (s *SimSensor) Close() error {
	return nil
}

// toLSB quantises v against a full-scale range, saturating at int16 limits.
func toLSB(v, rng float64) int16 {
	lsb := math.Round(v * logic.FullScaleLSB / rng)
	if lsb > math.MaxInt16 {
		return math.MaxInt16
	}
	if lsb < math.MinInt16 {
		return math.MinInt16
	}
	return int16(lsb)
}
