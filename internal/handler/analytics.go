package handler

import (
	"log/slog"
	"net/http"

	"github.com/waylink/waylink/internal/analytics"
	"github.com/waylink/waylink/internal/handler/dto"
	"github.com/waylink/waylink/internal/metrics"
	"github.com/waylink/waylink/internal/model"
)

// AnalyticsHandler handles analytics API requests.
type AnalyticsHandler struct {
	recorder *analytics.Recorder
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(recorder *analytics.Recorder, metricsRecorder metrics.Recorder, logger *slog.Logger) *AnalyticsHandler {
	if metricsRecorder == nil {
		metricsRecorder = metrics.NewNoop()
	}
	return &AnalyticsHandler{
		recorder: recorder,
		metrics:  metricsRecorder,
		logger:   logger.With("component", "handler.analytics"),
	}
}

// Events handles GET /api/v1/analytics/events?filter=all|valid|failed.
func (h *AnalyticsHandler) Events(w http.ResponseWriter, r *http.Request) {
	var events []model.DeepLinkEvent

	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "all":
		events = h.recorder.Events()
	case "valid":
		events = h.recorder.ValidEvents()
	case "failed":
		events = h.recorder.FailedEvents()
	default:
		h.writeError(w, http.StatusBadRequest, "INVALID_FILTER",
			"Invalid filter: "+filter+". Valid filters: all, valid, failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// Stats handles GET /api/v1/analytics/stats.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToStatsResponse(h.recorder.Stats()))
}

// Report handles GET /api/v1/analytics/report.
// The fixed layout is meant for operators; see the recorder for the format.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.recorder.Report()))
}

// Clear handles DELETE /api/v1/analytics/events. Admin only.
func (h *AnalyticsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared := h.recorder.Len()
	h.recorder.Clear()
	h.metrics.SetEventBufferLen(0)

	h.logger.Info("analytics_cleared", "events_dropped", cleared)

	w.WriteHeader(http.StatusNoContent)
}

// writeError writes a JSON error response.
func (h *AnalyticsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
