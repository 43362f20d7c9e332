// Package status provides a thread-safe status tracker for the launcher daemon.
// The control loop writes it once per cycle; HTTP handlers and MQTT
// heartbeats read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/launcher-inertial/internal/launcher"
)

// Config contains daemon configuration for display.
type Config struct {
	FrequencyHz int
	AccelRange  float64
	GyroRange   float64
	FixedGain   float64 // 0 = gain follows elapsed cycle time
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Simulated   bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Pipeline      launcher.State
	LastGain      float64
	ReadErrors    int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the pipeline state and the gain used for the cycle.
// Called from runLoop on every tick.
func (t *Tracker) Update(state launcher.State, gain float64) {
	t.mu.Lock()
	t.snap.Pipeline = state
	t.snap.LastGain = gain
	t.mu.Unlock()
}

// RecordReadError counts a failed sensor read.
func (t *Tracker) RecordReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
