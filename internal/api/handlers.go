package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/i18n"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
	"github.com/ShaKy8/CountdownToRetirement/internal/scheduler"
)

// apiMethods lists the methods each API path answers, for 405 responses.
var apiMethods = map[string]string{
	"/api/countdown": "GET, HEAD",
	"/api/target":    "POST, PUT, DELETE",
	"/api/ws":        "GET",
}

// TargetRequest is the body of POST /api/target. At takes an RFC 3339
// instant and wins over Target when both are set.
type TargetRequest struct {
	Target string     `json:"target,omitempty"`
	At     *time.Time `json:"at,omitempty"`
}

// TargetResponse is returned after a target change. Warning is set when the
// change took effect but could not be persisted.
type TargetResponse struct {
	Target    string        `json:"target"`
	Persisted bool          `json:"persisted"`
	Warning   string        `json:"warning,omitempty"`
	Countdown runner.Output `json:"countdown"`
}

// HealthResponse is returned by /healthz. Status is "ok", "degraded" when
// the last countdown tick failed, or "stopped" when the scheduler is down.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Name    string                 `json:"name"`
	Version string                 `json:"version"`
	Reached bool                   `json:"reached"`
	Tasks   []scheduler.TaskStatus `json:"tasks,omitempty"`
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.countdown.Snapshot())
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorCtx(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		WriteErrorCtx(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		t   time.Time
		err error
	)
	if req.At != nil {
		t, err = s.countdown.UpdateTime(*req.At)
	} else {
		t, err = s.countdown.Update(req.Target)
	}
	if reason, ok := countdown.ReasonOf(err); ok {
		p := i18n.GetPrinter(r.Context())
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  p.Sprintf(reason.Message()),
			Reason: string(reason),
		})
		return
	}

	resp := TargetResponse{
		Target:    countdown.FormatPersisted(t),
		Persisted: err == nil,
		Countdown: s.countdown.Snapshot(),
	}
	if err != nil {
		if !errors.Is(err, runner.ErrStoreWrite) {
			s.logger.Error("target update failed", "error", err)
			WriteErrorCtx(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		resp.Warning = i18n.GetPrinter(r.Context()).Sprintf("target date updated, but it could not be saved")
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearTarget(w http.ResponseWriter, r *http.Request) {
	err := s.countdown.Clear()
	out := s.countdown.Snapshot()
	resp := TargetResponse{
		Target:    countdown.FormatPersisted(out.Target),
		Persisted: err == nil,
		Countdown: out,
	}
	if err != nil {
		s.logger.Warn("target clear not persisted", "error", err)
		resp.Warning = i18n.GetPrinter(r.Context()).Sprintf("target date updated, but it could not be saved")
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	if allow, ok := apiMethods[strings.TrimSuffix(r.URL.Path, "/")]; ok {
		w.Header().Set("Allow", allow)
		WriteErrorCtx(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	WriteErrorCtx(w, r, http.StatusNotFound, "not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Name:    brand.Name,
		Version: brand.Version,
		Reached: s.countdown.Snapshot().IsReached,
	}
	code := http.StatusOK
	if s.tasks != nil {
		resp.Tasks = s.tasks.GetStatus()
		if tick, ok := s.tasks.GetTaskStatus(runner.TickTaskID); ok && tick.LastError != "" {
			resp.Status = "degraded"
		}
		if !s.tasks.IsRunning() {
			resp.Status = "stopped"
			code = http.StatusServiceUnavailable
		}
	}
	WriteJSON(w, code, resp)
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}
