package server

import (
	"log"
	"net/http"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs API and control requests with their status and
// latency. The WebSocket and health endpoints pass straight through.
func LoggingMiddleware(next http.Handler, logger *log.Logger, clk clock.Clock) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := clk.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Printf("[server] %s %s %d %s", r.Method, r.URL.Path, rec.status, clk.Since(start))
	})
}
