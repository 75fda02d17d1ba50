package deeplink

import (
	"net/url"
	"strings"
)

// Builder constructs shareable deep links in the form appropriate for
// the build environment: the custom scheme for development builds, the
// universal-link form otherwise.
type Builder struct {
	scheme string
	host   string
	dev    bool
}

// NewBuilder creates a Builder for the given custom scheme and
// universal-link host.
func NewBuilder(scheme, universalHost string, dev bool) *Builder {
	return &Builder{
		scheme: scheme,
		host:   universalHost,
		dev:    dev,
	}
}

// Build renders an in-app path and optional query map into an external
// link string. The path is normalized first; query keys are encoded in
// sorted order so output is deterministic.
func (b *Builder) Build(path string, query map[string]string) string {
	path = NormalizePath(path)

	var sb strings.Builder
	if b.dev {
		sb.WriteString(b.scheme)
		sb.WriteString("://")
		sb.WriteString(strings.TrimPrefix(path, "/"))
	} else {
		sb.WriteString("https://")
		sb.WriteString(b.host)
		sb.WriteString(path)
	}

	if len(query) > 0 {
		values := url.Values{}
		for key, val := range query {
			values.Set(key, val)
		}
		sb.WriteString("?")
		sb.WriteString(values.Encode())
	}

	return sb.String()
}
