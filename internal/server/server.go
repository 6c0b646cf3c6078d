package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Server is the Retrace review server. It serves the loaded timeline, the
// dashboard, and a transport control over HTTP and WebSocket.
type Server struct {
	httpServer *http.Server
	session    *Session
	storage    storage.Storage
	hub        *Hub
	clock      clock.Clock
	mux        *http.ServeMux
	logger     *log.Logger
}

// Options configures optional server components.
type Options struct {
	// Hub enables /ws. When nil the server creates one.
	Hub *Hub
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// New creates a new Retrace server for session. st is used for listing
// and loading other timelines.
func New(addr string, session *Session, st storage.Storage, clk clock.Clock, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	hub := opts.Hub
	if hub == nil {
		hub = NewHub(session, logger)
	}
	session.SetBroadcaster(hub)

	s := &Server{
		session: session,
		storage: st,
		hub:     hub,
		clock:   clk,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           LoggingMiddleware(s.mux, logger, clk),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/timeline", s.handleTimeline)
	s.mux.HandleFunc("/api/timelines", s.handleTimelines)
	s.mux.HandleFunc("/api/load", s.handleLoad)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/control", s.handleControl)
	s.mux.HandleFunc("/dashboard/", s.handleDashboard)
	s.mux.HandleFunc("/ws", s.hub.HandleWebSocket)
}

// handleRoot serves a welcome message.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service":  "retrace",
		"status":   "running",
		"timeline": s.session.Name(),
		"time":     s.clock.Now().Format(time.RFC3339),
	})
}

// handleHealth returns server health status and the number of connected
// dashboards.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

// handleTimeline returns the loaded timeline, its stats and key events
// that fall outside the sampled range.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

// handleTimelines lists stored timelines.
func (s *Server) handleTimelines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names, err := s.storage.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"timelines": names})
}

// handleLoad switches the session to another stored timeline.
// Body: {"name": "save_2"}
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if err := storage.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.session.Load(r.Context(), req.Name); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, timeline.ErrStorageUnavailable):
			status = http.StatusNotFound
		case errors.Is(err, timeline.ErrMalformedData):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleState returns the transport state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleControl applies a transport command.
// Body: {"op": "play"|"pause"|"toggle"|"stop"|"seek", "fraction": 0.5}
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	snap, err := s.session.Handle(cmd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleDashboard serves the review page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(DashboardHTML))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.logger.Printf("[server] retrace server listening on %s", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
