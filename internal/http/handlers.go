package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/sweep"
)

// ProgressSource supplies the sweep snapshot served on /status.
type ProgressSource interface {
	Snapshot() sweep.Snapshot
}

// Handler serves the sweep status endpoints.
type Handler struct {
	progress ProgressSource
}

// NewHandler returns a Handler reading from progress.
func NewHandler(progress ProgressSource) *Handler {
	return &Handler{progress: progress}
}

// GetStatus returns the current sweep snapshot as JSON.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.progress.Snapshot()
	loggerFromRequest(r).Debug("status served", zap.String("status", string(snap.Status)), zap.Int("completed", snap.Completed))
	writeJSON(w, http.StatusOK, snap)
}

// GetHealth reports 200 while the sweep is pending or running and 503 once it failed.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.progress.Snapshot()
	if snap.Status == sweep.StatusFailed {
		writeError(w, r, http.StatusServiceUnavailable, "SWEEP_FAILED", snap.Failure)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(snap.Status)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": correlationID(r),
		},
	})
}
