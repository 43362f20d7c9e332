// Package web serves the launcher's status over HTTP: an HTML page for the
// range operator, the full snapshot as JSON, and the two output signals as
// plain text for scripts polling from the pad.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/sweeney/launcher-inertial/internal/status"
)

// Server exposes a status.Tracker over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server on addr. Routes:
//
//	/, /index.html  status page
//	/index.json     status snapshot
//	/signals        propulsion and attitude outputs, 503 until the first cycle
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/index.html", s.handlePage)
	mux.HandleFunc("/index.json", s.handleStatus)
	mux.HandleFunc("/signals", s.handleSignals)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

// handleSignals writes one key=0|1 line per output. Before the loop has run
// a cycle the outputs are undefined, so it answers 503.
func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if snap.Pipeline.Cycles == 0 {
		http.Error(w, "no cycle yet", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintf(w, "propulsion=%d\nattitude=%d\n", bit(snap.Pipeline.Propulsion), bit(snap.Pipeline.Attitude))
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
