package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Propulsion    PropulsionJSON `json:"propulsion"`
	Attitude      AttitudeJSON   `json:"attitude"`
	Filtered      ChannelsJSON   `json:"filtered"`
	Cycles        uint64         `json:"cycles"`
	ReadErrors    int            `json:"read_errors"`
	LastGain      float64        `json:"last_gain"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Config        ConfigJSON     `json:"config"`
}

// PropulsionJSON reports the thrust-integral latch.
type PropulsionJSON struct {
	State            string  `json:"state"`
	Shutdown         bool    `json:"shutdown"`
	Sum              float64 `json:"sum"`
	Threshold        float64 `json:"threshold"`
	ShutdownAtSecond *int64  `json:"shutdown_at_s,omitempty"`
}

// AttitudeJSON reports the attitude gate.
type AttitudeJSON struct {
	OK       bool    `json:"ok"`
	PitchDeg float64 `json:"pitch_deg"`
	TiltDeg  float64 `json:"tilt_deg"`
}

// ChannelsJSON is the filtered 6-axis state.
type ChannelsJSON struct {
	Ax float64 `json:"ax_g"`
	Ay float64 `json:"ay_g"`
	Az float64 `json:"az_g"`
	Gx float64 `json:"gx_dps"`
	Gy float64 `json:"gy_dps"`
	Gz float64 `json:"gz_dps"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	FrequencyHz int     `json:"frequency_hz"`
	AccelRange  float64 `json:"accel_range_g"`
	GyroRange   float64 `json:"gyro_range_dps"`
	FixedGain   float64 `json:"fixed_gain,omitempty"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	Simulated   bool    `json:"simulated,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	p := snap.Pipeline
	state := string(p.PropulsionState)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		Propulsion: PropulsionJSON{
			State:     state,
			Shutdown:  p.Propulsion,
			Sum:       p.Sum,
			Threshold: p.Threshold,
		},
		Attitude: AttitudeJSON{
			OK:       p.Attitude,
			PitchDeg: p.PitchDeg,
			TiltDeg:  p.TiltDeg,
		},
		Filtered: ChannelsJSON{
			Ax: p.Filtered.Ax, Ay: p.Filtered.Ay, Az: p.Filtered.Az,
			Gx: p.Filtered.Gx, Gy: p.Filtered.Gy, Gz: p.Filtered.Gz,
		},
		Cycles:        p.Cycles,
		ReadErrors:    snap.ReadErrors,
		LastGain:      snap.LastGain,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			FrequencyHz: snap.Config.FrequencyHz,
			AccelRange:  snap.Config.AccelRange,
			GyroRange:   snap.Config.GyroRange,
			FixedGain:   snap.Config.FixedGain,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Simulated:   snap.Config.Simulated,
		},
	}
	if p.PropulsionState == logic.StateLatched {
		at := p.ShutdownAtSecond
		inner.Propulsion.ShutdownAtSecond = &at
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
