package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/handler/dto"
	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/service"
)

// LinkHandler handles HTTP requests for deep-link operations.
type LinkHandler struct {
	svc     *service.Resolver
	builder *deeplink.Builder
	logger  *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.Resolver, builder *deeplink.Builder, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:     svc,
		builder: builder,
		logger:  logger,
	}
}

// Parse handles POST /api/v1/links/parse.
// It describes the link without dispatching or recording anything.
func (h *LinkHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req dto.ParseLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	out := h.svc.Parse(req.URL)
	writeJSON(w, http.StatusOK, dto.ToParseLinkResponse(out.Link, out.Handler, out.RequiresAuth))
}

// Resolve handles POST /api/v1/links/resolve.
// It parses the link, dispatches the matched handler unless the body opts
// out, and records the attempt in analytics.
func (h *LinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	// Absent source means an app shell resolving while running.
	source := model.Source(req.Source)
	if req.Source == "" {
		source = model.SourceForeground
	}

	input := service.ResolveInput{
		URL:           req.URL,
		Source:        source,
		Authenticated: true,
		Dispatch:      true,
	}
	if req.Authenticated != nil {
		input.Authenticated = *req.Authenticated
	}
	if req.Dispatch != nil {
		input.Dispatch = *req.Dispatch
	}

	out, err := h.svc.Resolve(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_resolved",
		"path", out.Link.Path,
		"valid", out.Link.IsValid,
		"handler", out.Handler.String(),
		"dispatched", out.Dispatched,
		"source", string(source),
	)

	writeJSON(w, http.StatusOK, dto.ToResolveLinkResponse(out.Link, out.Handler, out.Dispatched, out.NavOps, out.NavTime))
}

// Build handles GET and POST /api/v1/links/build.
// GET takes the path from the "path" query parameter and forwards every
// other query parameter into the built link; POST takes a JSON body.
func (h *LinkHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildLinkRequest

	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	} else {
		query := r.URL.Query()
		req.Path = query.Get("path")
		req.Query = make(map[string]string)
		for key, values := range query {
			if key == "path" || len(values) == 0 {
				continue
			}
			// Last-wins, matching parse semantics for duplicate keys.
			req.Query[key] = values[len(values)-1]
		}
	}

	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	url := h.builder.Build(req.Path, req.Query)
	writeJSON(w, http.StatusOK, dto.BuildLinkResponse{URL: url})
}

// handleServiceError maps service errors to HTTP responses.
func (h *LinkHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSource):
		h.writeError(w, http.StatusBadRequest, "INVALID_SOURCE", "Source must be initial, foreground, or background")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *LinkHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
