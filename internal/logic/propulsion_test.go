package logic

import (
	"math"
	"testing"
)

func TestThresholdDerivation(t *testing.T) {
	rate, trust, isp, mass := 0.80, 675.0, 2.952, 12.1665
	want := rate * trust * isp / mass

	v := DefaultVehicle()
	if got := v.Threshold(); got != want {
		t.Errorf("threshold: got %v, want %v", got, want)
	}
	if math.Abs(want-131.02) > 0.01 {
		t.Errorf("threshold sanity: got %v", want)
	}

	p := NewPropulsionMonitor(v)
	if p.Threshold() != want {
		t.Errorf("monitor threshold: got %v, want %v", p.Threshold(), want)
	}
}

// at returns a clock fixed at ms.
func at(ms int64) func() int64 {
	return func() int64 { return ms }
}

// unitVehicle makes every step add exactly 1.0 to the sum when driven with
// axFilt=1.0 and gain=62500: a = (1+1)*8 = 16, 16 * 0.0625 = 1.
func unitVehicle() Vehicle {
	return Vehicle{
		Gravity:         8,
		Thrust:          10,
		Isp:             1,
		Mass:            1,
		BurnRate:        1,
		MountingOffsetG: 1,
	}
}

func TestPropulsionLatchesOnExactCycle(t *testing.T) {
	p := NewPropulsionMonitor(unitVehicle())
	if p.State() != StateAccumulating {
		t.Fatalf("initial state: got %s", p.State())
	}

	transitions := 0
	for cycle := 1; cycle <= 15; cycle++ {
		signal, transitioned := p.Evaluate(1.0, 62500, at(int64(cycle)*40))

		switch {
		case cycle < 10:
			if signal || transitioned {
				t.Errorf("cycle %d: latched early (sum=%v)", cycle, p.Sum())
			}
			if p.Sum() != float64(cycle) {
				t.Errorf("cycle %d: sum got %v, want %v", cycle, p.Sum(), float64(cycle))
			}
		case cycle == 10:
			if !signal || !transitioned {
				t.Errorf("cycle 10: expected transition, got signal=%v transitioned=%v", signal, transitioned)
			}
		default:
			if !signal {
				t.Errorf("cycle %d: signal reverted", cycle)
			}
			if transitioned {
				t.Errorf("cycle %d: transition fired again", cycle)
			}
		}
		if transitioned {
			transitions++
		}
	}

	if transitions != 1 {
		t.Errorf("expected exactly one transition, got %d", transitions)
	}
	if p.Sum() != 10 {
		t.Errorf("sum should freeze at 10, got %v", p.Sum())
	}
	if p.InitialTime() != 0 {
		// 10 * 40ms = 400ms -> 0 whole seconds
		t.Errorf("initial time: got %d, want 0", p.InitialTime())
	}
}

func TestPropulsionRecordsWholeSeconds(t *testing.T) {
	p := NewPropulsionMonitor(unitVehicle())
	for i := 0; i < 9; i++ {
		p.Evaluate(1.0, 62500, at(1000))
	}
	_, transitioned := p.Evaluate(1.0, 62500, at(12999))
	if !transitioned {
		t.Fatal("expected transition")
	}
	if p.InitialTime() != 12 {
		t.Errorf("initial time: got %d, want 12", p.InitialTime())
	}

	p.Evaluate(1.0, 62500, at(50000))
	if p.InitialTime() != 12 {
		t.Errorf("initial time changed after latch: %d", p.InitialTime())
	}
}

func TestPropulsionLatchIsMonotonic(t *testing.T) {
	p := NewPropulsionMonitor(unitVehicle())
	p.Evaluate(1.0, 10*62500, at(0)) // sum = 10
	if !p.Signal() {
		t.Fatal("expected latch")
	}

	inputs := []float64{-1, -50, 0, math.Inf(-1), 3}
	for _, ax := range inputs {
		signal, transitioned := p.Evaluate(ax, 62500, at(0))
		if !signal {
			t.Errorf("ax=%v: signal reverted", ax)
		}
		if transitioned {
			t.Errorf("ax=%v: second transition", ax)
		}
	}
	if p.Sum() != 10 {
		t.Errorf("sum should be frozen, got %v", p.Sum())
	}
	if p.State() != StateLatched {
		t.Errorf("state: got %s, want LATCHED", p.State())
	}
}

func TestPropulsionConstantAccelScenario(t *testing.T) {
	v := DefaultVehicle()
	p := NewPropulsionMonitor(v)

	const axFilt = 4.5
	const gain = 40000.0 // 25 Hz cycle in microseconds
	a := v.Gravity * (axFilt + 1.0)
	k := gain / 1000000.0

	var ref float64
	latchCycle := -1
	for n := 1; n <= 1000; n++ {
		ref += a * k
		signal, transitioned := p.Evaluate(axFilt, gain, at(0))

		if math.Abs(p.Sum()-float64(n)*a*k) > 1e-9 && latchCycle < 0 {
			t.Fatalf("cycle %d: sum %v, want %v", n, p.Sum(), float64(n)*a*k)
		}

		if latchCycle < 0 && ref >= v.Threshold() {
			latchCycle = n
			if !transitioned || !signal {
				t.Fatalf("cycle %d: expected transition", n)
			}
			continue
		}
		if latchCycle < 0 && signal {
			t.Fatalf("cycle %d: latched before reference crossing", n)
		}
		if latchCycle > 0 && transitioned {
			t.Fatalf("cycle %d: transition repeated", n)
		}
	}
	if latchCycle < 0 {
		t.Fatal("never latched")
	}
}

func TestPropulsionNegativeAccelNeverLatches(t *testing.T) {
	p := NewPropulsionMonitor(DefaultVehicle())
	for i := 0; i < 1000; i++ {
		if signal, _ := p.Evaluate(-1.0, 40000, at(0)); signal {
			t.Fatalf("cycle %d: latched with zero net acceleration", i)
		}
	}
	if p.Sum() != 0 {
		t.Errorf("sum: got %v, want 0", p.Sum())
	}
}

func TestPropulsionMountingOffset(t *testing.T) {
	v := unitVehicle()
	v.MountingOffsetG = 0
	p := NewPropulsionMonitor(v)

	p.Evaluate(1.0, 62500, at(0))
	// a = 1 * 8 = 8, 8 * 0.0625 = 0.5
	if p.Sum() != 0.5 {
		t.Errorf("sum with zero offset: got %v, want 0.5", p.Sum())
	}
}

func TestPropulsionNaNNeverLatches(t *testing.T) {
	tests := []struct {
		name   string
		axFilt float64
		gain   float64
	}{
		{"nan accel", math.NaN(), 40000},
		{"nan gain", 0, math.NaN()},
		{"inf gain times zero accel", -1, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPropulsionMonitor(DefaultVehicle())
			signal, transitioned := p.Evaluate(tt.axFilt, tt.gain, at(5000))
			if signal || transitioned {
				t.Errorf("latched on sum=%v", p.Sum())
			}
			if p.State() != StateAccumulating {
				t.Errorf("state: got %s, want ACCUMULATING", p.State())
			}
			if p.InitialTime() != 0 {
				t.Errorf("initial time recorded: %d", p.InitialTime())
			}
		})
	}
}

func TestPropulsionReadsClockOnlyOnTransition(t *testing.T) {
	p := NewPropulsionMonitor(unitVehicle())
	calls := 0
	clock := func() int64 {
		calls++
		return 7000
	}

	for i := 0; i < 15; i++ {
		p.Evaluate(1.0, 62500, clock)
	}
	if calls != 1 {
		t.Errorf("clock read %d times, want 1", calls)
	}
	if p.InitialTime() != 7 {
		t.Errorf("initial time: got %d, want 7", p.InitialTime())
	}
}
