// Package model defines domain entities for the application.
package model

// HandlerName identifies a deep-link handler. The set is closed: routing
// resolves to one of these constants and dispatch switches over them
// exhaustively, so adding a route is a compile-time-checked change.
type HandlerName string

const (
	HandlerSessionDetail     HandlerName = "session-detail"
	HandlerSessionCreate     HandlerName = "session-create"
	HandlerSessionsList      HandlerName = "sessions-list"
	HandlerNotificationsList HandlerName = "notifications-list"
	HandlerSettings          HandlerName = "settings"
	HandlerChat              HandlerName = "chat"
	HandlerOAuthCallback     HandlerName = "oauth-callback"
)

// HandlerNames contains all registered handler names.
var HandlerNames = []HandlerName{
	HandlerSessionDetail,
	HandlerSessionCreate,
	HandlerSessionsList,
	HandlerNotificationsList,
	HandlerSettings,
	HandlerChat,
	HandlerOAuthCallback,
}

// IsValid checks if the handler name is one of the registered constants.
func (h HandlerName) IsValid() bool {
	for _, known := range HandlerNames {
		if h == known {
			return true
		}
	}
	return false
}

// String returns the handler name as a plain string.
func (h HandlerName) String() string {
	return string(h)
}

// Source describes the circumstance under which a link was received.
type Source string

const (
	// SourceInitial means the app was cold-launched via the link.
	SourceInitial Source = "initial"
	// SourceForeground means the link arrived while the app was running.
	SourceForeground Source = "foreground"
	// SourceBackground means the link arrived while backgrounded, now resumed.
	SourceBackground Source = "background"
)

// Sources contains all known sources in reporting order.
var Sources = []Source{SourceInitial, SourceForeground, SourceBackground}

// IsValid checks if the source is one of the known values.
func (s Source) IsValid() bool {
	return s == SourceInitial || s == SourceForeground || s == SourceBackground
}

// ParsedDeepLink is the structured result of parsing a raw deep-link URI.
// It is created fresh on every parse call and never mutated; failures are
// carried in IsValid/ErrorMessage rather than an error return.
type ParsedDeepLink struct {
	Scheme   string `json:"scheme"`
	Hostname string `json:"hostname,omitempty"` // set only for web-form links

	// Path is normalized: exactly one leading slash, no trailing slash
	// unless the path is the root, no run of consecutive slashes.
	Path string `json:"path"`

	// QueryParams holds percent-decoded values, last-wins on duplicates.
	QueryParams map[string]string `json:"query_params"`

	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Query returns the value for a query parameter, or "" when absent.
func (l *ParsedDeepLink) Query(key string) string {
	if l.QueryParams == nil {
		return ""
	}
	return l.QueryParams[key]
}
