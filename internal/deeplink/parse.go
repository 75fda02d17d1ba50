package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/waylink/waylink/internal/model"
)

// Fixed failure messages carried in ParsedDeepLink.ErrorMessage.
const (
	msgMissingPath   = "missing path"
	msgInvalidParams = "Invalid query parameters"
)

// webSchemes are the schemes treated as universal-link form: the host
// is the app domain, not part of the in-app path.
var webSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// Parse turns a raw deep-link string into a validated descriptor. It
// never returns an error: malformed input, unroutable paths and
// rejected parameters all land in IsValid/ErrorMessage.
func Parse(raw string) *model.ParsedDeepLink {
	u, err := url.Parse(raw)
	if err != nil {
		return invalidLink("", "", "", fmt.Sprintf("malformed link: %v", err))
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return invalidLink("", "", "", "malformed link: missing scheme")
	}

	var hostname, rawPath string
	if webSchemes[scheme] {
		hostname = u.Hostname()
		rawPath = u.Path
	} else {
		// Custom-scheme links carry the first path segment in the
		// authority: acp://sessions/new routes to /sessions/new. The
		// slashless form acp:sessions/new lands in Opaque.
		rawPath = u.Host + u.Path
		if rawPath == "" {
			rawPath = u.Opaque
		}
	}

	if rawPath == "" {
		return invalidLink(scheme, hostname, "", msgMissingPath)
	}

	path := NormalizePath(rawPath)

	params, err := parseQuery(u.RawQuery)
	if err != nil {
		return invalidLink(scheme, hostname, path, fmt.Sprintf("malformed query: %v", err))
	}

	route, ok := MatchRoute(path)
	if !ok {
		link := invalidLink(scheme, hostname, path, "Unsupported route: "+path)
		link.QueryParams = params
		return link
	}

	if route.ParamValidator != nil && !route.ParamValidator(params) {
		link := invalidLink(scheme, hostname, path, msgInvalidParams)
		link.QueryParams = params
		return link
	}

	return &model.ParsedDeepLink{
		Scheme:      scheme,
		Hostname:    hostname,
		Path:        path,
		QueryParams: params,
		IsValid:     true,
	}
}

// NormalizePath collapses runs of slashes, strips the trailing slash
// unless the path is the root, and guarantees exactly one leading
// slash. Normalizing an already-normalized path returns it unchanged.
func NormalizePath(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// parseQuery decodes the raw query into a flat map, the last value
// winning for duplicate keys.
func parseQuery(rawQuery string) (map[string]string, error) {
	params := make(map[string]string)
	if rawQuery == "" {
		return params, nil
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[len(vals)-1]
		}
	}
	return params, nil
}

func invalidLink(scheme, hostname, path, msg string) *model.ParsedDeepLink {
	return &model.ParsedDeepLink{
		Scheme:       scheme,
		Hostname:     hostname,
		Path:         path,
		QueryParams:  map[string]string{},
		ErrorMessage: msg,
	}
}
