package handler

import (
	"net/http"

	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/handler/dto"
)

// RouteHandler exposes the route table for debug tooling.
type RouteHandler struct{}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler() *RouteHandler {
	return &RouteHandler{}
}

// List handles GET /api/v1/routes.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes := deeplink.Routes()

	response := dto.RouteListResponse{
		Routes: make([]dto.RouteInfo, 0, len(routes)),
		Count:  len(routes),
	}
	for _, route := range routes {
		response.Routes = append(response.Routes, dto.RouteInfo{
			Pattern:      route.Pattern.String(),
			Handler:      route.Handler.String(),
			RequiresAuth: route.RequiresAuth,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// Check handles GET /api/v1/routes/check?path=.
// Unmatched paths report requires_auth true: the auth gate fails closed.
func (h *RouteHandler) Check(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: "query parameter 'path' is required",
			Code:  "MISSING_PATH",
		})
		return
	}

	normalized := deeplink.NormalizePath(path)
	response := dto.RouteCheckResponse{
		Path:         normalized,
		RequiresAuth: true,
	}
	if route, ok := deeplink.MatchRoute(normalized); ok {
		response.Matches = true
		response.Handler = route.Handler.String()
		response.RequiresAuth = route.RequiresAuth
	}

	writeJSON(w, http.StatusOK, response)
}
