package deeplink

import (
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	link := Parse("acp://sessions/abc123")

	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
	if link.Scheme != "acp" {
		t.Errorf("Scheme = %q, want acp", link.Scheme)
	}
	if link.Path != "/sessions/abc123" {
		t.Errorf("Path = %q, want /sessions/abc123", link.Path)
	}
	if link.Hostname != "" {
		t.Errorf("Hostname = %q, want empty for custom scheme", link.Hostname)
	}
	if link.QueryParams == nil {
		t.Fatal("QueryParams should never be nil")
	}
	if len(link.QueryParams) != 0 {
		t.Errorf("QueryParams = %v, want empty", link.QueryParams)
	}
	if link.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", link.ErrorMessage)
	}
}

func TestParse_UniversalLink(t *testing.T) {
	t.Parallel()

	link := Parse("https://links.acp.dev/sessions/abc123")

	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
	if link.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", link.Scheme)
	}
	if link.Hostname != "links.acp.dev" {
		t.Errorf("Hostname = %q, want links.acp.dev", link.Hostname)
	}
	if link.Path != "/sessions/abc123" {
		t.Errorf("Path = %q, want /sessions/abc123", link.Path)
	}
}

func TestParse_MissingPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"custom scheme no authority", "acp://"},
		{"scheme only", "acp:"},
		{"universal link bare domain", "https://links.acp.dev"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := Parse(tt.raw)
			if link.IsValid {
				t.Fatal("expected invalid link")
			}
			if !strings.Contains(link.ErrorMessage, "missing path") {
				t.Errorf("ErrorMessage = %q, want it to contain %q", link.ErrorMessage, "missing path")
			}
		})
	}
}

func TestParse_NormalizesSlashes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"duplicate and trailing", "acp://sessions//abc123/", "/sessions/abc123"},
		{"trailing only", "acp://sessions/", "/sessions"},
		{"universal duplicate", "https://links.acp.dev//settings/", "/settings"},
		{"triple slash", "acp://sessions///new", "/sessions/new"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := Parse(tt.raw)
			if link.Path != tt.want {
				t.Errorf("Path = %q, want %q", link.Path, tt.want)
			}
		})
	}
}

func TestParse_QueryParams(t *testing.T) {
	t.Parallel()

	link := Parse("acp://sessions/abc123?tab=logs&filter=error")

	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
	if got := link.QueryParams["tab"]; got != "logs" {
		t.Errorf("tab = %q, want logs", got)
	}
	if got := link.QueryParams["filter"]; got != "error" {
		t.Errorf("filter = %q, want error", got)
	}
	if len(link.QueryParams) != 2 {
		t.Errorf("len(QueryParams) = %d, want 2", len(link.QueryParams))
	}
}

func TestParse_QueryPercentDecoded(t *testing.T) {
	t.Parallel()

	link := Parse("acp://chat?session=a%20b%2Fc")

	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
	if got := link.QueryParams["session"]; got != "a b/c" {
		t.Errorf("session = %q, want %q", got, "a b/c")
	}
}

func TestParse_QueryLastWins(t *testing.T) {
	t.Parallel()

	link := Parse("acp://sessions?filter=first&filter=second")

	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
	if got := link.QueryParams["filter"]; got != "second" {
		t.Errorf("filter = %q, want second (last value wins)", got)
	}
}

func TestParse_UnsupportedRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"unknown path", "acp://unknown/path"},
		{"root only", "https://links.acp.dev/"},
		{"deep session path", "acp://sessions/abc/logs"},
		{"unknown settings section", "acp://settings/advanced"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := Parse(tt.raw)
			if link.IsValid {
				t.Fatal("expected invalid link")
			}
			if !strings.Contains(link.ErrorMessage, "Unsupported route") {
				t.Errorf("ErrorMessage = %q, want it to contain %q", link.ErrorMessage, "Unsupported route")
			}
		})
	}
}

func TestParse_UnsupportedRouteNamesPath(t *testing.T) {
	t.Parallel()

	link := Parse("acp://unknown/path")
	if link.ErrorMessage != "Unsupported route: /unknown/path" {
		t.Errorf("ErrorMessage = %q, want %q", link.ErrorMessage, "Unsupported route: /unknown/path")
	}
}

func TestParse_InvalidQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"session id fallback empty", "acp://sessions/abc?id="},
		{"session id fallback has space", "acp://sessions/abc?id=bad%20id"},
		{"session id fallback too long", "acp://sessions/abc?id=" + strings.Repeat("x", 101)},
		{"notification id with at sign", "acp://notifications?id=user%40host"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := Parse(tt.raw)
			if link.IsValid {
				t.Fatal("expected invalid link")
			}
			if link.ErrorMessage != "Invalid query parameters" {
				t.Errorf("ErrorMessage = %q, want %q", link.ErrorMessage, "Invalid query parameters")
			}
		})
	}
}

func TestParse_ValidIDFallback(t *testing.T) {
	t.Parallel()

	link := Parse("acp://sessions/abc?id=real-session_01")
	if !link.IsValid {
		t.Fatalf("expected valid link, got error %q", link.ErrorMessage)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"missing protocol scheme", "://sessions"},
		{"no scheme at all", "sessions/abc123"},
		{"invalid path escape", "acp://sessions/%zz"},
		{"control character", "acp://sess\x7fions"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := Parse(tt.raw)
			if link.IsValid {
				t.Fatal("expected invalid link")
			}
			if !strings.Contains(link.ErrorMessage, "malformed link") {
				t.Errorf("ErrorMessage = %q, want a malformed link message", link.ErrorMessage)
			}
		})
	}
}

func TestParse_MalformedQuery(t *testing.T) {
	t.Parallel()

	link := Parse("acp://sessions?tab=%zz")
	if link.IsValid {
		t.Fatal("expected invalid link")
	}
	if !strings.Contains(link.ErrorMessage, "malformed query") {
		t.Errorf("ErrorMessage = %q, want a malformed query message", link.ErrorMessage)
	}
}

func TestParse_LowercasesScheme(t *testing.T) {
	t.Parallel()

	link := Parse("ACP://sessions/abc123")
	if link.Scheme != "acp" {
		t.Errorf("Scheme = %q, want acp", link.Scheme)
	}
}

func TestParse_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "?", "#", "a", "acp://", "%%%", "https://",
		"acp://?x=1", "acp://#frag", strings.Repeat("/", 500),
	}

	for _, raw := range inputs {
		link := Parse(raw)
		if link == nil {
			t.Fatalf("Parse(%q) returned nil", raw)
		}
		if link.IsValid && link.ErrorMessage != "" {
			t.Errorf("Parse(%q): valid link carries error %q", raw, link.ErrorMessage)
		}
		if !link.IsValid && link.ErrorMessage == "" {
			t.Errorf("Parse(%q): invalid link missing error message", raw)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "/sessions/abc", "/sessions/abc"},
		{"no leading slash", "sessions/abc", "/sessions/abc"},
		{"duplicate slashes", "/sessions//abc", "/sessions/abc"},
		{"trailing slash", "/sessions/", "/sessions"},
		{"root stays root", "/", "/"},
		{"slashes only", "////", "/"},
		{"everything at once", "sessions///abc//", "/sessions/abc"},
		{"empty", "", "/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath(tt.in)
			if got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}

			// Idempotence: a second pass must return the identical string.
			if again := NormalizePath(got); again != got {
				t.Errorf("NormalizePath not idempotent: %q -> %q", got, again)
			}
		})
	}
}
