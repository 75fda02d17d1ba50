// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/navigation"
)

// maxLinkLength bounds the raw link strings accepted by the API.
const maxLinkLength = 2048

// ParseLinkRequest represents the request body for describing a link.
type ParseLinkRequest struct {
	URL string `json:"url"`
}

// Validate checks the request fields.
func (r ParseLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, maxLinkLength)),
	)
}

// ResolveLinkRequest represents the request body for resolving a link.
// Source defaults to "foreground"; Authenticated and Dispatch default to
// true when absent.
type ResolveLinkRequest struct {
	URL           string `json:"url"`
	Source        string `json:"source,omitempty"`
	Authenticated *bool  `json:"authenticated,omitempty"`
	Dispatch      *bool  `json:"dispatch,omitempty"`
}

// Validate checks the request fields.
func (r ResolveLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, maxLinkLength)),
		validation.Field(&r.Source, validation.In(
			string(model.SourceInitial),
			string(model.SourceForeground),
			string(model.SourceBackground),
		)),
	)
}

// BuildLinkRequest represents the request body for constructing a link.
type BuildLinkRequest struct {
	Path  string            `json:"path"`
	Query map[string]string `json:"query,omitempty"`
}

// Validate checks the request fields.
func (r BuildLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required, validation.Length(1, maxLinkLength)),
	)
}

// ParseLinkResponse describes a link without acting on it.
type ParseLinkResponse struct {
	Link         *model.ParsedDeepLink `json:"link"`
	Handler      string                `json:"handler,omitempty"`
	RequiresAuth bool                  `json:"requires_auth"`
}

// ResolveLinkResponse reports the outcome of one resolution attempt.
type ResolveLinkResponse struct {
	Link       *model.ParsedDeepLink `json:"link"`
	Handler    string                `json:"handler,omitempty"`
	Dispatched bool                  `json:"dispatched"`
	NavOps     []navigation.Op       `json:"nav_ops"`
	NavTimeMs  float64               `json:"nav_time_ms"`
}

// BuildLinkResponse carries a constructed external link.
type BuildLinkResponse struct {
	URL string `json:"url"`
}

// RouteInfo describes one route-table entry.
type RouteInfo struct {
	Pattern      string `json:"pattern"`
	Handler      string `json:"handler"`
	RequiresAuth bool   `json:"requires_auth"`
}

// RouteListResponse lists the route table.
type RouteListResponse struct {
	Routes []RouteInfo `json:"routes"`
	Count  int         `json:"count"`
}

// RouteCheckResponse reports whether a path matches a route.
// RequiresAuth is fail-closed true for unmatched paths.
type RouteCheckResponse struct {
	Path         string `json:"path"`
	Matches      bool   `json:"matches"`
	Handler      string `json:"handler,omitempty"`
	RequiresAuth bool   `json:"requires_auth"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToParseLinkResponse converts a described link to its response DTO.
func ToParseLinkResponse(link *model.ParsedDeepLink, handler model.HandlerName, requiresAuth bool) *ParseLinkResponse {
	return &ParseLinkResponse{
		Link:         link,
		Handler:      handler.String(),
		RequiresAuth: requiresAuth,
	}
}

// ToResolveLinkResponse converts a resolution outcome to its response DTO.
func ToResolveLinkResponse(link *model.ParsedDeepLink, handler model.HandlerName, dispatched bool, ops []navigation.Op, navTime time.Duration) *ResolveLinkResponse {
	if ops == nil {
		ops = []navigation.Op{}
	}
	return &ResolveLinkResponse{
		Link:       link,
		Handler:    handler.String(),
		Dispatched: dispatched,
		NavOps:     ops,
		NavTimeMs:  durationMs(navTime),
	}
}

// durationMs renders a duration in fractional milliseconds.
func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
