package deeplink

import (
	"github.com/waylink/waylink/internal/model"
)

// RouteDefinition pairs a path pattern with the handler it resolves to,
// whether the destination sits behind the auth gate, and an optional
// predicate over the query parameters.
type RouteDefinition struct {
	Pattern        Pattern
	Handler        model.HandlerName
	RequiresAuth   bool
	ParamValidator func(params map[string]string) bool
}

// defaultRoutes is the static route table, built once and never mutated.
// Order is significant: matching walks the list and the first full-path
// match wins, so the /sessions/new literal is declared before the
// /sessions/{id} capture.
var defaultRoutes = []RouteDefinition{
	{
		Pattern:      Literal("/sessions"),
		Handler:      model.HandlerSessionsList,
		RequiresAuth: true,
	},
	{
		Pattern:      Literal("/sessions/new"),
		Handler:      model.HandlerSessionCreate,
		RequiresAuth: true,
	},
	{
		Pattern:        Capture("/sessions", "id"),
		Handler:        model.HandlerSessionDetail,
		RequiresAuth:   true,
		ParamValidator: validateSessionQuery,
	},
	{
		Pattern:        Literal("/notifications"),
		Handler:        model.HandlerNotificationsList,
		RequiresAuth:   true,
		ParamValidator: validateNotificationQuery,
	},
	{
		Pattern:      Literal("/chat"),
		Handler:      model.HandlerChat,
		RequiresAuth: true,
	},
	{
		Pattern:      Literal("/settings"),
		Handler:      model.HandlerSettings,
		RequiresAuth: true,
	},
	{
		Pattern:      Alternation("/settings", "section", "appearance", "notifications", "repos"),
		Handler:      model.HandlerSettings,
		RequiresAuth: true,
	},
	{
		Pattern:      Literal("/auth/callback"),
		Handler:      model.HandlerOAuthCallback,
		RequiresAuth: false,
	},
}

// Routes returns a copy of the route table for debug surfaces.
func Routes() []RouteDefinition {
	routes := make([]RouteDefinition, len(defaultRoutes))
	copy(routes, defaultRoutes)
	return routes
}

// MatchRoute returns the first route definition whose pattern matches
// the full normalized path.
func MatchRoute(path string) (RouteDefinition, bool) {
	for _, route := range defaultRoutes {
		if _, ok := route.Pattern.Match(path); ok {
			return route, true
		}
	}
	return RouteDefinition{}, false
}

// ExtractParams re-applies the pattern's captures against the path and
// returns the named segments. The map is empty when the pattern does
// not match.
func ExtractParams(path string, pattern Pattern) map[string]string {
	params, ok := pattern.Match(path)
	if !ok || params == nil {
		return map[string]string{}
	}
	return params
}

// ParamsFor matches the path against the route table and returns the
// captured segments of the winning route, or an empty map.
func ParamsFor(path string) map[string]string {
	route, ok := MatchRoute(path)
	if !ok {
		return map[string]string{}
	}
	return ExtractParams(path, route.Pattern)
}

// RequiresAuth reports whether the destination behind the path sits
// behind the auth gate. Unmatched paths report true: the auth gate
// fails closed even though Parse marks the same path invalid.
func RequiresAuth(path string) bool {
	route, ok := MatchRoute(path)
	if !ok {
		return true
	}
	return route.RequiresAuth
}

// HandlerNameFor returns the handler name the path resolves to.
func HandlerNameFor(path string) (model.HandlerName, bool) {
	route, ok := MatchRoute(path)
	if !ok {
		return "", false
	}
	return route.Handler, true
}

// AssociationPaths lists the universal-link path globs advertised in
// the domain association files, one or more per route.
func AssociationPaths() []string {
	var paths []string
	for _, route := range defaultRoutes {
		paths = append(paths, route.Pattern.associationPaths()...)
	}
	return paths
}
