package logic

// Default firing window and second-stage multiplier.
const (
	DefaultMinPitchDeg = 60.0
	DefaultMaxPitchDeg = 90.0
	DefaultSetupFilter = 2.5
)

// AttitudeWindow is the closed pitch interval the launcher may fire in.
type AttitudeWindow struct {
	MinDeg      float64
	MaxDeg      float64
	SetupFilter float64
}

// DefaultAttitudeWindow returns the [60, 90] window with multiplier 2.5.
func DefaultAttitudeWindow() AttitudeWindow {
	return AttitudeWindow{
		MinDeg:      DefaultMinPitchDeg,
		MaxDeg:      DefaultMaxPitchDeg,
		SetupFilter: DefaultSetupFilter,
	}
}

// Contains reports whether deg lies in [MinDeg, MaxDeg].
func (w AttitudeWindow) Contains(deg float64) bool {
	return deg >= w.MinDeg && deg <= w.MaxDeg
}

// AttitudeGate smooths the raw pitch a second time and gates it against the
// window. The decision is recomputed on every call; only tilt persists.
type AttitudeGate struct {
	window   AttitudeWindow
	tiltFilt float64
	signal   bool
}

// NewAttitudeGate creates a gate with tilt starting at zero.
func NewAttitudeGate(w AttitudeWindow) *AttitudeGate {
	return &AttitudeGate{window: w}
}

// Evaluate smooths rawPitch into the filtered tilt and returns whether the
// filtered tilt is inside the window.
func (g *AttitudeGate) Evaluate(rawPitch, gain float64) bool {
	g.tiltFilt += ScaledGain(gain) * (rawPitch - g.tiltFilt) * g.window.SetupFilter
	g.signal = g.window.Contains(g.tiltFilt)
	return g.signal
}

// Signal returns the result of the last Evaluate.
func (g *AttitudeGate) Signal() bool {
	return g.signal
}

// Tilt returns the filtered pitch in degrees.
func (g *AttitudeGate) Tilt() float64 {
	return g.tiltFilt
}
