// Package launcher owns one launcher's inertial pipeline: it samples the
// sensor, filters it, and drives the propulsion and attitude indicators.
package launcher

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/launcher-inertial/internal/gpio"
	"github.com/sweeney/launcher-inertial/internal/imu"
	"github.com/sweeney/launcher-inertial/internal/logic"
	"github.com/sweeney/launcher-inertial/internal/sink"
)

// Orientation fuses filtered gyro (deg/s) and accel into a pitch in degrees.
type Orientation interface {
	UpdateIMU(gx, gy, gz, ax, ay, az float64)
	Pitch() float64
}

// Config holds the fixed parameters of one launcher.
type Config struct {
	Sensor  logic.SensorConfig
	Vehicle logic.Vehicle
	Window  logic.AttitudeWindow
}

// DefaultConfig matches the reference launcher.
func DefaultConfig() Config {
	return Config{
		Sensor:  logic.DefaultSensorConfig(),
		Vehicle: logic.DefaultVehicle(),
		Window:  logic.DefaultAttitudeWindow(),
	}
}

// Deps are the collaborators a Launcher drives. All are required except Now,
// which defaults to time.Now.
type Deps struct {
	Sensor        imu.Sensor
	Orientation   Orientation
	Clock         Clock
	PropulsionLED gpio.Indicator
	AttitudeLED   gpio.Indicator
	Sink          sink.Sink
	Now           func() time.Time
}

// State is a point-in-time view of the pipeline.
type State struct {
	Filtered         logic.Channels
	PitchDeg         float64
	TiltDeg          float64
	Sum              float64
	Threshold        float64
	PropulsionState  logic.PropulsionState
	ShutdownAtSecond int64
	Propulsion       bool
	Attitude         bool
	Cycles           uint64
}

// Launcher is the single owned aggregate for one physical launcher.
// Not safe for concurrent use; the control loop owns it.
//
// Within a cycle Update must run before Propulsion and Attitude: both read
// the filtered state Update produced.
type Launcher struct {
	deps Deps

	filter     *logic.Filter
	propulsion *logic.PropulsionMonitor
	gate       *logic.AttitudeGate

	pitch        float64
	lastAttitude bool
	cycles       uint64
	events       []logic.Event
}

// New builds a launcher and drives both indicators low.
func New(cfg Config, d Deps) (*Launcher, error) {
	if d.Sensor == nil || d.Orientation == nil || d.Clock == nil ||
		d.PropulsionLED == nil || d.AttitudeLED == nil || d.Sink == nil {
		return nil, errors.New("launcher: missing collaborator")
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	l := &Launcher{
		deps:       d,
		filter:     logic.NewFilter(cfg.Sensor),
		propulsion: logic.NewPropulsionMonitor(cfg.Vehicle),
		gate:       logic.NewAttitudeGate(cfg.Window),
	}

	if err := d.PropulsionLED.Set(false); err != nil {
		return nil, fmt.Errorf("init propulsion indicator: %w", err)
	}
	if err := d.AttitudeLED.Set(false); err != nil {
		return nil, fmt.Errorf("init attitude indicator: %w", err)
	}
	return l, nil
}

// Update reads one raw sample and folds it into the filtered state.
// On a read error the filtered state is left untouched.
func (l *Launcher) Update(gain float64) (logic.Channels, error) {
	raw, err := l.deps.Sensor.ReadMotion()
	if err != nil {
		return l.filter.State(), fmt.Errorf("read motion: %w", err)
	}
	l.cycles++
	return l.filter.Update(raw, gain), nil
}

// Propulsion advances the thrust integral and drives the propulsion
// indicator. On the latch edge it reports the shutdown time to the sink.
func (l *Launcher) Propulsion(gain float64) bool {
	ax := l.filter.State().Ax
	signal, transitioned := l.propulsion.Evaluate(ax, gain, l.deps.Clock.Millis)

	if transitioned {
		secs := l.propulsion.InitialTime()
		line := fmt.Sprintf("propulsion system shut down at t=%ds", secs)
		if err := l.deps.Sink.WriteLine(line); err != nil {
			log.Printf("launcher: sink write error: %v", err)
		}
		l.emit(logic.EventPropulsionShutdown, secs)
	}

	if err := l.deps.PropulsionLED.Set(signal); err != nil {
		log.Printf("launcher: propulsion indicator error: %v", err)
	}
	return signal
}

// Attitude runs orientation fusion on the filtered state, smooths the pitch
// and drives the attitude indicator from a fresh window check.
func (l *Launcher) Attitude(gain float64) bool {
	c := l.filter.State()
	l.deps.Orientation.UpdateIMU(c.Gx, c.Gy, c.Gz, c.Ax, c.Ay, c.Az)
	l.pitch = l.deps.Orientation.Pitch()

	signal := l.gate.Evaluate(l.pitch, gain)

	if err := l.deps.AttitudeLED.Set(signal); err != nil {
		log.Printf("launcher: attitude indicator error: %v", err)
	}

	if signal != l.lastAttitude {
		t := logic.EventAttitudeLost
		if signal {
			t = logic.EventAttitudeOK
		}
		l.emit(t, l.deps.Clock.Millis()/1000)
		l.lastAttitude = signal
	}
	return signal
}

// Step runs one full control cycle: Update, then Propulsion and Attitude
// with the same gain.
func (l *Launcher) Step(gain float64) error {
	if _, err := l.Update(gain); err != nil {
		return err
	}
	l.Propulsion(gain)
	l.Attitude(gain)
	return nil
}

// Events returns and clears the events emitted since the last call.
func (l *Launcher) Events() []logic.Event {
	e := l.events
	l.events = nil
	return e
}

// State returns the current pipeline view.
func (l *Launcher) State() State {
	return State{
		Filtered:         l.filter.State(),
		PitchDeg:         l.pitch,
		TiltDeg:          l.gate.Tilt(),
		Sum:              l.propulsion.Sum(),
		Threshold:        l.propulsion.Threshold(),
		PropulsionState:  l.propulsion.State(),
		ShutdownAtSecond: l.propulsion.InitialTime(),
		Propulsion:       l.propulsion.Signal(),
		Attitude:         l.gate.Signal(),
		Cycles:           l.cycles,
	}
}

func (l *Launcher) emit(t logic.EventType, secs int64) {
	l.events = append(l.events, logic.Event{
		Timestamp:        l.deps.Now(),
		Type:             t,
		SecondsSinceBoot: secs,
		Propulsion:       l.propulsion.Signal(),
		Attitude:         l.gate.Signal(),
		TiltDeg:          l.gate.Tilt(),
		Sum:              l.propulsion.Sum(),
	})
}
