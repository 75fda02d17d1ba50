package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteAuthError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeAuthError(rec)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"code":"UNAUTHORIZED"`) {
		t.Errorf("Response should contain UNAUTHORIZED code, got: %s", body)
	}
}

func TestWriteScopeError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeScopeError(rec, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"code":"FORBIDDEN"`) {
		t.Errorf("Response should contain FORBIDDEN code, got: %s", body)
	}
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		authHeader  string
		tokenHeader string
		want        string
	}{
		{
			name:       "Bearer token",
			authHeader: "Bearer wl_live_abc123_secret",
			want:       "wl_live_abc123_secret",
		},
		{
			name:        "X-Client-Token header",
			tokenHeader: "wl_live_abc123_secret",
			want:        "wl_live_abc123_secret",
		},
		{
			name:        "Bearer takes precedence",
			authHeader:  "Bearer bearer_token",
			tokenHeader: "header_token",
			want:        "bearer_token",
		},
		{
			name: "No token",
			want: "",
		},
		{
			name:       "Invalid Bearer format",
			authHeader: "Basic abc123",
			want:       "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			if tc.tokenHeader != "" {
				req.Header.Set("X-Client-Token", tc.tokenHeader)
			}

			got := extractToken(req)
			if got != tc.want {
				t.Errorf("extractToken() = %q, want %q", got, tc.want)
			}
		})
	}
}
