// Package deeplink implements deep-link parsing, route matching and
// link construction for the app's custom scheme and universal-link forms.
package deeplink

import (
	"regexp"
	"slices"
	"strings"
)

// patternKind tags the closed set of supported pattern variants.
type patternKind int

const (
	kindLiteral patternKind = iota
	kindCapture
	kindAlternation
)

// identSegmentRe is the character class a captured path segment must
// satisfy. Length limits are enforced by the identifier validators, not
// by the pattern.
var identSegmentRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Pattern is one of three path-matching variants: an exact literal path,
// a fixed prefix followed by one captured identifier segment, or a fixed
// prefix followed by one of an enumerated set of subsections. Keeping
// the set closed makes first-match-wins and capture extraction auditable
// as a single table-driven unit.
type Pattern struct {
	kind    patternKind
	literal string   // full path for literal patterns
	prefix  string   // leading segments for capture/alternation, ends with '/'
	param   string   // capture name, e.g. "id" or "section"
	choices []string // allowed tail segments for alternation patterns
}

// Literal returns a pattern matching exactly the given path.
func Literal(path string) Pattern {
	return Pattern{kind: kindLiteral, literal: path}
}

// Capture returns a pattern matching prefix plus one identifier segment,
// recorded under the given parameter name.
func Capture(prefix, param string) Pattern {
	return Pattern{kind: kindCapture, prefix: ensureTrailingSlash(prefix), param: param}
}

// Alternation returns a pattern matching prefix plus one of the given
// fixed subsections, recorded under the given parameter name.
func Alternation(prefix, param string, choices ...string) Pattern {
	return Pattern{kind: kindAlternation, prefix: ensureTrailingSlash(prefix), param: param, choices: choices}
}

// Match reports whether the normalized path satisfies the pattern and
// returns the captured segments. The full path must match, never a
// prefix of it.
func (p Pattern) Match(path string) (map[string]string, bool) {
	switch p.kind {
	case kindLiteral:
		if path == p.literal {
			return nil, true
		}
		return nil, false

	case kindCapture:
		rest, ok := strings.CutPrefix(path, p.prefix)
		if !ok || rest == "" || strings.Contains(rest, "/") {
			return nil, false
		}
		if !identSegmentRe.MatchString(rest) {
			return nil, false
		}
		return map[string]string{p.param: rest}, true

	case kindAlternation:
		rest, ok := strings.CutPrefix(path, p.prefix)
		if !ok || !slices.Contains(p.choices, rest) {
			return nil, false
		}
		return map[string]string{p.param: rest}, true
	}

	return nil, false
}

// String renders the pattern in route-table notation, e.g.
// "/sessions/{id}" or "/settings/{appearance|notifications|repos}".
func (p Pattern) String() string {
	switch p.kind {
	case kindLiteral:
		return p.literal
	case kindCapture:
		return p.prefix + "{" + p.param + "}"
	case kindAlternation:
		return p.prefix + "{" + strings.Join(p.choices, "|") + "}"
	}
	return ""
}

// associationPaths expands the pattern into the glob forms used by the
// universal-link domain association files.
func (p Pattern) associationPaths() []string {
	switch p.kind {
	case kindLiteral:
		return []string{p.literal}
	case kindCapture:
		return []string{p.prefix + "*"}
	case kindAlternation:
		paths := make([]string, 0, len(p.choices))
		for _, choice := range p.choices {
			paths = append(paths, p.prefix+choice)
		}
		return paths
	}
	return nil
}

func ensureTrailingSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
