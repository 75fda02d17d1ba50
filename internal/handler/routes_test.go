package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waylink/waylink/internal/handler/dto"
)

func TestRouteHandler_List(t *testing.T) {
	h := NewRouteHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.RouteListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Count != 8 {
		t.Errorf("expected 8 routes, got %d", response.Count)
	}
	if len(response.Routes) != response.Count {
		t.Errorf("count %d does not match %d routes", response.Count, len(response.Routes))
	}

	byPattern := make(map[string]dto.RouteInfo, len(response.Routes))
	for _, route := range response.Routes {
		byPattern[route.Pattern] = route
	}

	detail, ok := byPattern["/sessions/{id}"]
	if !ok {
		t.Fatal("missing /sessions/{id} route")
	}
	if detail.Handler != "session-detail" || !detail.RequiresAuth {
		t.Errorf("unexpected session detail route: %+v", detail)
	}

	callback, ok := byPattern["/auth/callback"]
	if !ok {
		t.Fatal("missing /auth/callback route")
	}
	if callback.RequiresAuth {
		t.Error("oauth callback must not require auth")
	}
}

func TestRouteHandler_Check(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantMatches  bool
		wantHandler  string
		wantRequires bool
	}{
		{
			name:         "session detail",
			path:         "/sessions/abc123",
			wantMatches:  true,
			wantHandler:  "session-detail",
			wantRequires: true,
		},
		{
			name:         "static before parameterized",
			path:         "/sessions/new",
			wantMatches:  true,
			wantHandler:  "session-create",
			wantRequires: true,
		},
		{
			name:         "oauth callback open",
			path:         "/auth/callback",
			wantMatches:  true,
			wantHandler:  "oauth-callback",
			wantRequires: false,
		},
		{
			name:         "missing leading slash normalized",
			path:         "notifications",
			wantMatches:  true,
			wantHandler:  "notifications-list",
			wantRequires: true,
		},
		{
			name:         "unknown path fails closed",
			path:         "/admin/secrets",
			wantMatches:  false,
			wantHandler:  "",
			wantRequires: true,
		},
	}

	h := NewRouteHandler()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/routes/check?path="+tc.path, nil)
			rec := httptest.NewRecorder()

			h.Check(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var response dto.RouteCheckResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Matches != tc.wantMatches {
				t.Errorf("matches = %v, want %v", response.Matches, tc.wantMatches)
			}
			if response.Handler != tc.wantHandler {
				t.Errorf("handler = %q, want %q", response.Handler, tc.wantHandler)
			}
			if response.RequiresAuth != tc.wantRequires {
				t.Errorf("requires_auth = %v, want %v", response.RequiresAuth, tc.wantRequires)
			}
		})
	}
}

func TestRouteHandler_Check_MissingPath(t *testing.T) {
	h := NewRouteHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes/check", nil)
	rec := httptest.NewRecorder()

	h.Check(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "MISSING_PATH" {
		t.Errorf("unexpected error code: %s", response.Code)
	}
}
