// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

// Topic is the MQTT topic for launcher signal events.
const Topic = "launcher/inertial/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "launcher/inertial/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a launcher signal event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Launcher LauncherPayload `json:"launcher"`
}

// LauncherPayload contains the signal event details.
type LauncherPayload struct {
	Timestamp          string  `json:"timestamp"`
	Event              string  `json:"event"`
	SecondsSinceBoot   int64   `json:"seconds_since_boot"`
	PropulsionShutdown bool    `json:"propulsion_shutdown"`
	AttitudeOK         bool    `json:"attitude_ok"`
	TiltDeg            float64 `json:"tilt_deg"`
	ImpulseSum         float64 `json:"impulse_sum"`
}

// FormatPayload creates the JSON payload for a launcher event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Launcher: LauncherPayload{
			Timestamp:          event.Timestamp.UTC().Format(time.RFC3339),
			Event:              string(event.Type),
			SecondsSinceBoot:   event.SecondsSinceBoot,
			PropulsionShutdown: event.Propulsion,
			AttitudeOK:         event.Attitude,
			TiltDeg:            event.TiltDeg,
			ImpulseSum:         event.Sum,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// FormatWillPayload is the last-will message the broker publishes if the
// connection drops uncleanly. It carries no timestamp: it is registered at
// connect time, not when it fires.
func FormatWillPayload() []byte {
	data, _ := json.Marshal(SystemPayload{System: SystemPayloadInner{Event: "OFFLINE"}})
	return data
}
