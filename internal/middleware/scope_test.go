package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waylink/waylink/internal/auth"
	"github.com/waylink/waylink/internal/model"
)

func TestRequireScope_Authorized(t *testing.T) {
	testCases := []struct {
		name          string
		scopes        []string
		requiredScope string
		wantStatus    int
	}{
		{
			name:          "resolve scope allows resolve",
			scopes:        []string{model.ScopeResolve},
			requiredScope: model.ScopeResolve,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "analytics scope allows analytics",
			scopes:        []string{model.ScopeAnalytics},
			requiredScope: model.ScopeAnalytics,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "admin allows resolve",
			scopes:        []string{model.ScopeAdmin},
			requiredScope: model.ScopeResolve,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "admin allows analytics",
			scopes:        []string{model.ScopeAdmin},
			requiredScope: model.ScopeAnalytics,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "admin allows admin",
			scopes:        []string{model.ScopeAdmin},
			requiredScope: model.ScopeAdmin,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "multiple scopes work",
			scopes:        []string{model.ScopeResolve, model.ScopeAnalytics},
			requiredScope: model.ScopeAnalytics,
			wantStatus:    http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Create auth context
			authCtx := &model.AuthContext{
				TokenID:     "tok123",
				TokenPrefix: "ab12cd",
				ClientName:  "test-client",
				Scopes:      tc.scopes,
			}

			// Create handler that returns 200
			handler := RequireScope(tc.requiredScope)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			// Create request with auth context
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			ctx := auth.ContextWithAuth(req.Context(), authCtx)
			req = req.WithContext(ctx)

			// Record response
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequireScope_Forbidden(t *testing.T) {
	testCases := []struct {
		name          string
		scopes        []string
		requiredScope string
	}{
		{
			name:          "resolve cannot access analytics",
			scopes:        []string{model.ScopeResolve},
			requiredScope: model.ScopeAnalytics,
		},
		{
			name:          "resolve cannot access admin",
			scopes:        []string{model.ScopeResolve},
			requiredScope: model.ScopeAdmin,
		},
		{
			name:          "analytics cannot access admin",
			scopes:        []string{model.ScopeAnalytics},
			requiredScope: model.ScopeAdmin,
		},
		{
			name:          "analytics cannot access resolve",
			scopes:        []string{model.ScopeAnalytics},
			requiredScope: model.ScopeResolve,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			authCtx := &model.AuthContext{
				TokenID:     "tok123",
				TokenPrefix: "ab12cd",
				ClientName:  "test-client",
				Scopes:      tc.scopes,
			}

			handler := RequireScope(tc.requiredScope)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			ctx := auth.ContextWithAuth(req.Context(), authCtx)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestRequireScope_AnyOfMultiple(t *testing.T) {
	// A handler guarded by two scopes admits a token holding either one.
	authCtx := &model.AuthContext{
		TokenID:     "tok123",
		TokenPrefix: "ab12cd",
		ClientName:  "test-client",
		Scopes:      []string{model.ScopeAnalytics},
	}

	handler := RequireScope(model.ScopeResolve, model.ScopeAnalytics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := auth.ContextWithAuth(req.Context(), authCtx)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireScope_NoAuthContext(t *testing.T) {
	handler := RequireScope(model.ScopeResolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestConvenienceMiddleware(t *testing.T) {
	authCtx := &model.AuthContext{
		TokenID:     "tok123",
		TokenPrefix: "ab12cd",
		ClientName:  "test-client",
		Scopes:      []string{model.ScopeAdmin},
	}

	testCases := []struct {
		name       string
		middleware func() func(http.Handler) http.Handler
	}{
		{"RequireResolve", RequireResolve},
		{"RequireAnalytics", RequireAnalytics},
		{"RequireAdmin", RequireAdmin},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := tc.middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			ctx := auth.ContextWithAuth(req.Context(), authCtx)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// Admin should pass all
			if rec.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
		})
	}
}
