package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/launcher-inertial/internal/logic"
	"github.com/sweeney/launcher-inertial/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"deg": func(v float64) string {
		return fmt.Sprintf("%.1f°", v)
	},
	"num": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Launcher Inertial</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Launcher Inertial{{if .Config.Simulated}} (simulated){{end}}</h1>

<h2>Signals</h2>
<table>
<tr><th>Propulsion shutdown</th><td id="propulsion" class="{{if .Pipeline.Propulsion}}on{{else}}off{{end}}">{{if .Pipeline.Propulsion}}SHUTDOWN{{else}}BURNING{{end}}</td></tr>
<tr><th>Attitude</th><td id="attitude" class="{{if .Pipeline.Attitude}}on{{else}}off{{end}}">{{if .Pipeline.Attitude}}OK{{else}}OUT OF WINDOW{{end}}</td></tr>
</table>

<h2>Propulsion</h2>
<table>
<tr><th>State</th><td>{{.PropulsionState}}</td></tr>
<tr><th>Impulse sum</th><td>{{num .Pipeline.Sum}} / {{num .Pipeline.Threshold}}</td></tr>
{{if .Latched}}<tr><th>Shutdown at</th><td>{{.Pipeline.ShutdownAtSecond}}s</td></tr>{{end}}
</table>

<h2>Attitude</h2>
<table>
<tr><th>Pitch</th><td>{{deg .Pipeline.PitchDeg}}</td></tr>
<tr><th>Tilt (smoothed)</th><td>{{deg .Pipeline.TiltDeg}}</td></tr>
</table>

<h2>Filtered IMU</h2>
<table>
<tr><th>Accel (g)</th><td>{{num .Pipeline.Filtered.Ax}} {{num .Pipeline.Filtered.Ay}} {{num .Pipeline.Filtered.Az}}</td></tr>
<tr><th>Gyro (deg/s)</th><td>{{num .Pipeline.Filtered.Gx}} {{num .Pipeline.Filtered.Gy}} {{num .Pipeline.Filtered.Gz}}</td></tr>
<tr><th>Cycles</th><td>{{.Pipeline.Cycles}}</td></tr>
<tr><th>Read errors</th><td>{{.ReadErrors}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sample rate</th><td>{{.Config.FrequencyHz}}Hz</td></tr>
<tr><th>Ranges</th><td>±{{.Config.AccelRange}}g, ±{{.Config.GyroRange}}deg/s</td></tr>
<tr><th>Gain</th><td>{{if eq .Config.FixedGain 0.0}}elapsed ({{.LastGain}}us){{else}}fixed {{.Config.FixedGain}}{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	state := string(snap.Pipeline.PropulsionState)
	if state == "" {
		state = "UNKNOWN"
	}
	data := struct {
		status.Snapshot
		Uptime          time.Duration
		PropulsionState string
		Latched         bool
	}{
		Snapshot:        snap,
		Uptime:          snap.Uptime(),
		PropulsionState: state,
		Latched:         snap.Pipeline.PropulsionState == logic.StateLatched,
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
