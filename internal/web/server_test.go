package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/launcher-inertial/internal/launcher"
	"github.com/sweeney/launcher-inertial/internal/logic"
	"github.com/sweeney/launcher-inertial/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		FrequencyHz: 25,
		AccelRange:  16,
		GyroRange:   250,
		HeartbeatMs: 60000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func latched() launcher.State {
	return launcher.State{
		PitchDeg:         72,
		TiltDeg:          71.25,
		Sum:              140,
		Threshold:        131,
		PropulsionState:  logic.StateLatched,
		ShutdownAtSecond: 4,
		Propulsion:       true,
		Attitude:         true,
		Cycles:           100,
	}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(latched(), 40000)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Propulsion.State != "LATCHED" {
		t.Errorf("propulsion state: got %q, want LATCHED", sj.Status.Propulsion.State)
	}
	if !sj.Status.Attitude.OK {
		t.Error("expected attitude OK")
	}
	if sj.Status.Attitude.TiltDeg != 71.25 {
		t.Errorf("tilt: got %v", sj.Status.Attitude.TiltDeg)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Config.FrequencyHz != 25 {
		t.Errorf("Config.FrequencyHz: got %d, want 25", sj.Status.Config.FrequencyHz)
	}
}

func TestJSONUnknownStateBeforeFirstCycle(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Propulsion.State != "UNKNOWN" {
		t.Errorf("state before first cycle: got %q, want UNKNOWN", sj.Status.Propulsion.State)
	}
	if sj.Status.Propulsion.ShutdownAtSecond != nil {
		t.Error("shutdown time should be absent before latch")
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(latched(), 40000)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	for _, want := range []string{"SHUTDOWN", "LATCHED", "Shutdown at", "4s", "71.2°"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "BURNING") {
		t.Error("expected BURNING before latch")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Propulsion.Shutdown {
		t.Error("expected no shutdown initially")
	}

	tr.Update(latched(), 40000)
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if !sj2.Status.Propulsion.Shutdown {
		t.Error("expected shutdown after update")
	}
	if sj2.Status.Cycles != 100 {
		t.Errorf("cycles: got %d, want 100", sj2.Status.Cycles)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}

func TestSignalsEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)

	tests := []struct {
		name   string
		state  launcher.State
		code   int
		body   string
		update bool
	}{
		{name: "before first cycle", code: 503},
		{name: "latched in window", state: latched(), update: true, code: 200, body: "propulsion=1\nattitude=1\n"},
		{name: "burning out of window", state: launcher.State{TiltDeg: 45, Cycles: 3}, update: true, code: 200, body: "propulsion=0\nattitude=0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.update {
				tr.Update(tt.state, 40000)
			}
			resp, err := http.Get(ts.URL + "/signals")
			if err != nil {
				t.Fatalf("GET /signals: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.code {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tt.code)
			}
			if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
				t.Errorf("Content-Type: got %q", resp.Header.Get("Content-Type"))
			}
			if tt.body == "" {
				return
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.body {
				t.Errorf("body: got %q, want %q", body, tt.body)
			}
		})
	}
}
