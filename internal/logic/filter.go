package logic

// Filter is a first-order exponential moving average over six channels.
// State starts at zero and is never reset, so early outputs carry a
// warm-up transient.
type Filter struct {
	cfg   SensorConfig
	state Channels
}

// NewFilter creates a filter converting LSB with the given ranges.
func NewFilter(cfg SensorConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Update folds one raw sample into the filtered state and returns it.
// The gain is not clamped: gain >= GainDivisor overshoots and can diverge.
func (f *Filter) Update(raw RawSample, gain float64) Channels {
	k := ScaledGain(gain)
	v := f.Scale(raw)

	f.state.Ax = ema(f.state.Ax, v.Ax, k)
	f.state.Ay = ema(f.state.Ay, v.Ay, k)
	f.state.Az = ema(f.state.Az, v.Az, k)
	f.state.Gx = ema(f.state.Gx, v.Gx, k)
	f.state.Gy = ema(f.state.Gy, v.Gy, k)
	f.state.Gz = ema(f.state.Gz, v.Gz, k)

	return f.state
}

// Scale converts a raw sample to physical units without filtering.
func (f *Filter) Scale(raw RawSample) Channels {
	return Channels{
		Ax: ScaleRaw(raw.Ax, f.cfg.AccelRange),
		Ay: ScaleRaw(raw.Ay, f.cfg.AccelRange),
		Az: ScaleRaw(raw.Az, f.cfg.AccelRange),
		Gx: ScaleRaw(raw.Gx, f.cfg.GyroRange),
		Gy: ScaleRaw(raw.Gy, f.cfg.GyroRange),
		Gz: ScaleRaw(raw.Gz, f.cfg.GyroRange),
	}
}

// State returns the current filtered channels.
func (f *Filter) State() Channels {
	return f.state
}

func ema(prev, value, k float64) float64 {
	return prev + k*(value-prev)
}
