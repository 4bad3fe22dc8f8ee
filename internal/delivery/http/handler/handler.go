package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/delivery/http/response"
	"github.com/user/stale-reviver/internal/usecase"
)

// ProgressSource exposes the state of the current run.
type ProgressSource interface {
	Snapshot() usecase.ProgressSnapshot
}

type Handler struct {
	progress ProgressSource
	logger   *zap.Logger
}

func NewHandler(progress ProgressSource, logger *zap.Logger) *Handler {
	return &Handler{
		progress: progress,
		logger:   logger,
	}
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	snap := h.progress.Snapshot()
	h.writeJSON(w, http.StatusOK, response.ProgressResponse{
		Total:   snap.Total,
		Done:    snap.Done,
		OK:      snap.OK,
		Failed:  snap.Failed,
		Running: snap.Running,
		Halted:  snap.Halted,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
