package logic

// PropulsionMonitor integrates forward acceleration and latches once the
// running sum reaches the vehicle threshold.
//
// ACCUMULATING -> LATCHED is the only transition. LATCHED is absorbing: the
// sum freezes and the signal never reverts for the life of the monitor.
type PropulsionMonitor struct {
	threshold float64
	gravity   float64
	offsetG   float64

	state       PropulsionState
	sum         float64
	initialTime int64
}

// NewPropulsionMonitor creates a monitor with the threshold derived from v.
func NewPropulsionMonitor(v Vehicle) *PropulsionMonitor {
	return &PropulsionMonitor{
		threshold: v.Threshold(),
		gravity:   v.Gravity,
		offsetG:   v.MountingOffsetG,
		state:     StateAccumulating,
	}
}

// Evaluate accumulates one step and reports the signal. transitioned is true
// only on the call that moved the monitor into LATCHED; nowMillis is called
// once at that moment and its value recorded as whole seconds.
//
// Only sum >= threshold latches. A NaN sum never compares true, so it keeps
// the monitor accumulating.
func (p *PropulsionMonitor) Evaluate(axFilt, gain float64, nowMillis func() int64) (signal, transitioned bool) {
	if p.state == StateLatched {
		return true, false
	}

	a := (axFilt + p.offsetG) * p.gravity
	p.sum += a * ScaledGain(gain)

	if !(p.sum >= p.threshold) {
		return false, false
	}

	p.state = StateLatched
	p.initialTime = nowMillis() / 1000
	return true, true
}

// Signal reports whether the monitor has latched.
func (p *PropulsionMonitor) Signal() bool {
	return p.state == StateLatched
}

// State returns the latch state.
func (p *PropulsionMonitor) State() PropulsionState {
	return p.state
}

// Sum returns the running integral (frozen once latched).
func (p *PropulsionMonitor) Sum() float64 {
	return p.sum
}

// Threshold returns the latch threshold.
func (p *PropulsionMonitor) Threshold() float64 {
	return p.threshold
}

// InitialTime returns seconds since boot at the latch, 0 before it.
func (p *PropulsionMonitor) InitialTime() int64 {
	return p.initialTime
}
