package model

import (
	"slices"
	"testing"
)

func TestClientToken_HasScope(t *testing.T) {
	testCases := []struct {
		name        string
		tokenScopes []string
		checkFor    string
		want        bool
	}{
		{
			name:        "has exact scope",
			tokenScopes: []string{ScopeResolve, ScopeAnalytics},
			checkFor:    ScopeResolve,
			want:        true,
		},
		{
			name:        "does not have scope",
			tokenScopes: []string{ScopeResolve},
			checkFor:    ScopeAnalytics,
			want:        false,
		},
		{
			name:        "admin implies resolve",
			tokenScopes: []string{ScopeAdmin},
			checkFor:    ScopeResolve,
			want:        true,
		},
		{
			name:        "admin implies analytics",
			tokenScopes: []string{ScopeAdmin},
			checkFor:    ScopeAnalytics,
			want:        true,
		},
		{
			name:        "empty scopes",
			tokenScopes: []string{},
			checkFor:    ScopeResolve,
			want:        false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token := &ClientToken{Scopes: tc.tokenScopes}
			got := token.HasScope(tc.checkFor)
			if got != tc.want {
				t.Errorf("HasScope(%s) = %v, want %v", tc.checkFor, got, tc.want)
			}
		})
	}
}

func TestAuthContext_HasScope(t *testing.T) {
	testCases := []struct {
		name     string
		scopes   []string
		checkFor string
		want     bool
	}{
		{
			name:     "has scope",
			scopes:   []string{ScopeResolve},
			checkFor: ScopeResolve,
			want:     true,
		},
		{
			name:     "admin grants all",
			scopes:   []string{ScopeAdmin},
			checkFor: ScopeAnalytics,
			want:     true,
		},
		{
			name:     "missing scope",
			scopes:   []string{ScopeResolve},
			checkFor: ScopeAdmin,
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &AuthContext{Scopes: tc.scopes}
			got := ctx.HasScope(tc.checkFor)
			if got != tc.want {
				t.Errorf("HasScope(%s) = %v, want %v", tc.checkFor, got, tc.want)
			}
		})
	}
}

func TestClientToken_IsRevoked(t *testing.T) {
	token := &ClientToken{}
	if token.IsRevoked() {
		t.Error("new token should not be revoked")
	}
}

func TestClientToken_GetRateLimitConfig(t *testing.T) {
	testCases := []struct {
		tier      string
		wantRPM   int
		wantBurst int
	}{
		{TierDefault, 120, 20},
		{TierInternal, 1200, 100},
		{TierUnlimited, 0, 0},
		{"unknown", 120, 20}, // Falls back to default
	}

	for _, tc := range testCases {
		t.Run(tc.tier, func(t *testing.T) {
			token := &ClientToken{RateLimitTier: tc.tier}
			config := token.GetRateLimitConfig()
			if config.RequestsPerMinute != tc.wantRPM {
				t.Errorf("RPM = %d, want %d", config.RequestsPerMinute, tc.wantRPM)
			}
			if config.Burst != tc.wantBurst {
				t.Errorf("Burst = %d, want %d", config.Burst, tc.wantBurst)
			}
		})
	}
}

func TestValidScopes(t *testing.T) {
	expected := []string{ScopeResolve, ScopeAnalytics, ScopeAdmin}
	for _, scope := range expected {
		if !slices.Contains(ValidScopes, scope) {
			t.Errorf("ValidScopes should contain %s", scope)
		}
	}
}

func TestClientToken_ToResponse(t *testing.T) {
	token := &ClientToken{
		ID:            "tok123",
		ClientName:    "qa-console",
		TokenPrefix:   "abc123",
		Scopes:        []string{ScopeResolve},
		RateLimitTier: TierDefault,
	}

	resp := token.ToResponse()
	if resp.ID != token.ID {
		t.Errorf("ID mismatch")
	}
	if resp.TokenPrefix != token.TokenPrefix {
		t.Errorf("TokenPrefix mismatch")
	}
	if resp.Revoked != false {
		t.Errorf("Revoked should be false for active token")
	}
}
