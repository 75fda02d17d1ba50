package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waylink/waylink/internal/analytics"
	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/handler/dto"
	"github.com/waylink/waylink/internal/metrics"
	"github.com/waylink/waylink/internal/model"
)

// FallbackHandler serves the browser fallback for universal links. A user
// without the app lands here; known in-app paths redirect to the web app,
// everything else is a 404.
type FallbackHandler struct {
	webAppURL string
	recorder  *analytics.Recorder
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewFallbackHandler creates a new FallbackHandler.
func NewFallbackHandler(webAppURL string, recorder *analytics.Recorder, metricsRecorder metrics.Recorder, logger *slog.Logger) *FallbackHandler {
	if metricsRecorder == nil {
		metricsRecorder = metrics.NewNoop()
	}
	return &FallbackHandler{
		webAppURL: webAppURL,
		recorder:  recorder,
		metrics:   metricsRecorder,
		logger:    logger,
	}
}

// Redirect handles GET /l/*.
func (h *FallbackHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	path := deeplink.NormalizePath("/" + chi.URLParam(r, "*"))

	route, ok := deeplink.MatchRoute(path)
	if !ok {
		// Record the dead link so operators can see what people follow.
		h.recorder.TrackValidationFailure(r.URL.RequestURI(), "Unsupported route: "+path, model.SourceForeground)
		h.metrics.IncEventRecorded("validation_failure")
		h.metrics.SetEventBufferLen(int64(h.recorder.Len()))

		h.logger.Info("fallback_unknown_path", "path", path)
		h.writeError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "No destination for this link")
		return
	}

	target := h.webAppURL + path
	if query := r.URL.RawQuery; query != "" {
		target += "?" + query
	}

	h.logger.Info("fallback_redirect",
		"path", path,
		"handler", route.Handler.String(),
	)

	w.Header().Set("Cache-Control", "private, max-age=0")
	http.Redirect(w, r, target, http.StatusFound)
}

// writeError writes a JSON error response for fallback failures.
func (h *FallbackHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")

	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
