// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// Scope constants for client-token authorization.
const (
	ScopeResolve   = "resolve"
	ScopeAnalytics = "analytics"
	ScopeAdmin     = "admin"
)

// ValidScopes contains all valid scope values.
var ValidScopes = []string{ScopeResolve, ScopeAnalytics, ScopeAdmin}

// RateLimitTier constants.
const (
	TierDefault   = "default"
	TierInternal  = "internal"
	TierUnlimited = "unlimited"
)

// RateLimitConfig defines rate limit parameters per tier.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// TierConfigs maps tier names to their rate limit configurations.
var TierConfigs = map[string]RateLimitConfig{
	TierDefault:   {RequestsPerMinute: 120, Burst: 20},
	TierInternal:  {RequestsPerMinute: 1200, Burst: 100},
	TierUnlimited: {RequestsPerMinute: 0, Burst: 0}, // 0 means unlimited
}

// ClientToken represents a service client token entity.
type ClientToken struct {
	ID            string     `json:"id"`
	ClientName    string     `json:"client_name"`
	TokenHash     string     `json:"-"` // Never serialize
	TokenPrefix   string     `json:"token_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsRevoked returns true if the token has been revoked.
func (t *ClientToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// HasScope checks if the token has a specific scope.
// Admin scope implies all other scopes.
func (t *ClientToken) HasScope(scope string) bool {
	if slices.Contains(t.Scopes, ScopeAdmin) {
		return true
	}
	return slices.Contains(t.Scopes, scope)
}

// GetRateLimitConfig returns the rate limit configuration for this token.
func (t *ClientToken) GetRateLimitConfig() RateLimitConfig {
	if config, ok := TierConfigs[t.RateLimitTier]; ok {
		return config
	}
	return TierConfigs[TierDefault] // Default tier
}

// AuthContext holds authenticated request context.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	TokenID       string
	TokenPrefix   string
	ClientName    string
	Scopes        []string
	RateLimitTier string
}

// HasScope checks if the auth context has a specific scope.
func (a *AuthContext) HasScope(scope string) bool {
	if slices.Contains(a.Scopes, ScopeAdmin) {
		return true
	}
	return slices.Contains(a.Scopes, scope)
}

// TokenCreateRequest represents a request to create a new client token.
type TokenCreateRequest struct {
	ClientName    string   `json:"client_name"`
	Scopes        []string `json:"scopes"`
	RateLimitTier string   `json:"rate_limit_tier,omitempty"`
}

// TokenResponse represents the response for a client token (without secrets).
type TokenResponse struct {
	ID            string     `json:"id"`
	ClientName    string     `json:"client_name"`
	TokenPrefix   string     `json:"token_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	Revoked       bool       `json:"revoked"`
}

// ToResponse converts a ClientToken to TokenResponse.
func (t *ClientToken) ToResponse() TokenResponse {
	return TokenResponse{
		ID:            t.ID,
		ClientName:    t.ClientName,
		TokenPrefix:   t.TokenPrefix,
		Scopes:        t.Scopes,
		RateLimitTier: t.RateLimitTier,
		CreatedAt:     t.CreatedAt,
		LastUsedAt:    t.LastUsedAt,
		Revoked:       t.IsRevoked(),
	}
}

// TokenCreateResponse includes the plaintext token (shown only once).
type TokenCreateResponse struct {
	ID            string    `json:"id"`
	Token         string    `json:"token"` // Plaintext - display once only!
	ClientName    string    `json:"client_name"`
	TokenPrefix   string    `json:"token_prefix"`
	Scopes        []string  `json:"scopes"`
	RateLimitTier string    `json:"rate_limit_tier"`
	CreatedAt     time.Time `json:"created_at"`
}
