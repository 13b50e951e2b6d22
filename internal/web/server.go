// Package web serves the daemon's state over HTTP: an HTML page, the JSON
// status document and the current display contents as plain text.
package web

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/sweeney/temp-indicator/internal/logic"
	"github.com/sweeney/temp-indicator/internal/status"
)

// Server is the status HTTP server. Every response is built from a fresh
// tracker snapshot.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server on addr. It does not listen until ListenAndServe or
// Serve is called.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.Handle("/", s.get(s.handleIndex))
	mux.Handle("/index.json", s.get(s.handleJSON))
	mux.Handle("/display", s.get(s.handleDisplay))

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// get restricts h to GET and HEAD and marks the response uncacheable, since
// it changes every loop iteration.
func (s *Server) get(h func(http.ResponseWriter, *http.Request, status.Snapshot)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		h(w, r, s.tracker.Snapshot())
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, snap status.Snapshot) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, _ *http.Request, snap status.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleDisplay writes the two display lines. Before the first reading only
// the label is shown, as on the device.
func (s *Server) handleDisplay(w http.ResponseWriter, _ *http.Request, snap status.Snapshot) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	lines := []string{snap.Config.Label, ""}
	if snap.HasReading {
		lines[1] = logic.FormatReading(snap.Reading)
	}
	w.Write([]byte(strings.Join(lines, "\n") + "\n"))
}
