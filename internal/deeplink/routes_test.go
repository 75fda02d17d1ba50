package deeplink

import (
	"slices"
	"testing"

	"github.com/waylink/waylink/internal/model"
)

func TestMatchRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		wantHandler model.HandlerName
		wantMatch   bool
	}{
		{"/sessions", model.HandlerSessionsList, true},
		{"/sessions/new", model.HandlerSessionCreate, true},
		{"/sessions/abc123", model.HandlerSessionDetail, true},
		{"/sessions/a_b-c", model.HandlerSessionDetail, true},
		{"/notifications", model.HandlerNotificationsList, true},
		{"/chat", model.HandlerChat, true},
		{"/settings", model.HandlerSettings, true},
		{"/settings/appearance", model.HandlerSettings, true},
		{"/settings/notifications", model.HandlerSettings, true},
		{"/settings/repos", model.HandlerSettings, true},
		{"/auth/callback", model.HandlerOAuthCallback, true},
		{"/settings/advanced", "", false},
		{"/sessions/abc/logs", "", false},
		{"/sessions/abc!", "", false},
		{"/", "", false},
		{"/nope", "", false},
		{"/sessionsabc", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			route, ok := MatchRoute(tt.path)
			if ok != tt.wantMatch {
				t.Fatalf("MatchRoute(%q) ok = %v, want %v", tt.path, ok, tt.wantMatch)
			}
			if ok && route.Handler != tt.wantHandler {
				t.Errorf("MatchRoute(%q) handler = %q, want %q", tt.path, route.Handler, tt.wantHandler)
			}
		})
	}
}

func TestMatchRoute_LiteralBeforeCapture(t *testing.T) {
	t.Parallel()

	// "new" satisfies the capture charclass, so only declaration order
	// keeps /sessions/new on the creation handler.
	route, ok := MatchRoute("/sessions/new")
	if !ok {
		t.Fatal("expected a match")
	}
	if route.Handler != model.HandlerSessionCreate {
		t.Errorf("handler = %q, want %q", route.Handler, model.HandlerSessionCreate)
	}
}

func TestRequiresAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/auth/callback", false},
		{"/sessions/abc123", true},
		{"/sessions", true},
		{"/settings/appearance", true},
		{"/totally-unknown", true}, // fail closed
		{"/", true},                // fail closed
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := RequiresAuth(tt.path); got != tt.want {
				t.Errorf("RequiresAuth(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestHandlerNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		want   model.HandlerName
		wantOK bool
	}{
		{"/settings/appearance", model.HandlerSettings, true},
		{"/settings", model.HandlerSettings, true},
		{"/sessions/xyz", model.HandlerSessionDetail, true},
		{"/nope", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, ok := HandlerNameFor(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("HandlerNameFor(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("HandlerNameFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExtractParams(t *testing.T) {
	t.Parallel()

	idPattern := Capture("/sessions", "id")
	sectionPattern := Alternation("/settings", "section", "appearance", "notifications", "repos")

	tests := []struct {
		name    string
		path    string
		pattern Pattern
		want    map[string]string
	}{
		{"session id", "/sessions/abc123", idPattern, map[string]string{"id": "abc123"}},
		{"settings section", "/settings/repos", sectionPattern, map[string]string{"section": "repos"}},
		{"mismatch yields empty", "/notifications", idPattern, map[string]string{}},
		{"literal has no captures", "/sessions", Literal("/sessions"), map[string]string{}},
		{"partial prefix is not a match", "/sessions", idPattern, map[string]string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractParams(tt.path, tt.pattern)
			if got == nil {
				t.Fatal("ExtractParams should never return nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractParams(%q) = %v, want %v", tt.path, got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("param %q = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}

func TestParamsFor(t *testing.T) {
	t.Parallel()

	params := ParamsFor("/sessions/xyz-1")
	if params["id"] != "xyz-1" {
		t.Errorf("id = %q, want xyz-1", params["id"])
	}

	if params := ParamsFor("/nope"); len(params) != 0 {
		t.Errorf("unmatched path params = %v, want empty", params)
	}
}

func TestPattern_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern Pattern
		want    string
	}{
		{Literal("/sessions"), "/sessions"},
		{Capture("/sessions", "id"), "/sessions/{id}"},
		{Alternation("/settings", "section", "appearance", "notifications", "repos"), "/settings/{appearance|notifications|repos}"},
	}

	for _, tt := range tests {
		if got := tt.pattern.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAssociationPaths(t *testing.T) {
	t.Parallel()

	paths := AssociationPaths()

	for _, want := range []string{
		"/sessions",
		"/sessions/new",
		"/sessions/*",
		"/notifications",
		"/chat",
		"/settings",
		"/settings/appearance",
		"/auth/callback",
	} {
		if !slices.Contains(paths, want) {
			t.Errorf("AssociationPaths() missing %q", want)
		}
	}
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	routes := Routes()
	if len(routes) == 0 {
		t.Fatal("route table should not be empty")
	}

	routes[0].Handler = "tampered"

	fresh := Routes()
	if fresh[0].Handler == "tampered" {
		t.Error("mutating the returned slice must not affect the table")
	}
}
