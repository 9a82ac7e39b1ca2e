package api

import (
	"bufio"
	"net"
	"net/http"
	"strings"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
)

// accessLogWriter wraps http.ResponseWriter to capture the status code.
type accessLogWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *accessLogWriter) WriteHeader(status int) {
	if rw.status == 0 {
		rw.status = status
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *accessLogWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// Flush passes through for streaming responses.
func (rw *accessLogWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack passes through for the websocket upgrade.
func (rw *accessLogWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	if rw.status == 0 {
		rw.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

// AccessLogger logs every request and records it in metrics (nil skips).
// Metrics scrapes are counted but not logged.
func AccessLogger(logger *logging.Logger, m *metrics.Registry, clk clock.Clock) func(http.Handler) http.Handler {
	clk = clock.OrReal(clk)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := clk.Now()
			rw := &accessLogWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)
			if rw.status == 0 {
				rw.status = http.StatusOK
			}
			duration := clk.Since(start)

			if m != nil {
				m.RecordHTTPRequest(r.Method, rw.status, duration)
			}
			if r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/assets/") {
				return
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"size", rw.size,
				"duration", duration,
				"remote", r.RemoteAddr,
			}
			switch {
			case rw.status >= 500:
				logger.Error("request", args...)
			case rw.status >= 400:
				logger.Warn("request", args...)
			default:
				logger.Info("request", args...)
			}
		})
	}
}
