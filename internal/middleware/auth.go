package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waylink/waylink/internal/auth"
	"github.com/waylink/waylink/internal/cache"
	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/store"
)

const (
	// minAuthDuration is the floor for failed auth attempts so response
	// timing does not reveal which check rejected the token.
	minAuthDuration = 200 * time.Millisecond

	// lastUsedTimeout bounds the detached last_used_at update.
	lastUsedTimeout = 5 * time.Second
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Store  *store.Store
	Cache  *cache.Cache
}

// Auth returns a middleware that authenticates API requests.
// It extracts the client token from the Authorization header,
// verifies it, and injects the auth context into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			warnAuthFailure := func(reason string) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
			}

			// Extract token from header
			token := extractToken(r)
			if token == "" {
				warnAuthFailure("missing_token")
				padAuthFailure(startTime)
				writeAuthError(w)
				return
			}

			// Validate token format
			parsed, err := auth.ParseToken(token)
			if err != nil {
				warnAuthFailure("invalid_format")
				padAuthFailure(startTime)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(token)
			authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)

			if authCtx != nil {
				// Cache hit - use cached auth context
				cfg.Logger.Info("authentication successful",
					slog.String("token_id", authCtx.TokenID),
					slog.String("token_prefix", authCtx.TokenPrefix),
					slog.String("client", authCtx.ClientName),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Bool("cache_hit", true),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				ctx := auth.ContextWithAuth(r.Context(), authCtx)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Cache miss - lookup by prefix
			tokens, err := cfg.Store.GetTokensByPrefix(r.Context(), parsed.Prefix)
			if err != nil {
				cfg.Logger.Error("database error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				padAuthFailure(startTime)
				writeAuthError(w)
				return
			}

			if len(tokens) == 0 {
				warnAuthFailure("unknown_token")
				padAuthFailure(startTime)
				writeAuthError(w)
				return
			}

			// Verify against each candidate token (handles prefix collisions)
			var matched *model.ClientToken
			for _, candidate := range tokens {
				match, err := auth.VerifyToken(token, candidate.TokenHash)
				if err != nil {
					continue
				}
				if match {
					matched = candidate
					break
				}
			}

			if matched == nil {
				warnAuthFailure("invalid_token")
				padAuthFailure(startTime)
				writeAuthError(w)
				return
			}

			// Build auth context
			authCtx = &model.AuthContext{
				TokenID:       matched.ID,
				TokenPrefix:   matched.TokenPrefix,
				ClientName:    matched.ClientName,
				Scopes:        matched.Scopes,
				RateLimitTier: matched.RateLimitTier,
			}

			// Cache the result
			_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)

			// Update last_used_at asynchronously, detached from the
			// request context so it survives the response.
			go func(id string) {
				ctx, cancel := context.WithTimeout(context.Background(), lastUsedTimeout)
				defer cancel()
				_ = cfg.Store.UpdateTokenLastUsed(ctx, id)
			}(matched.ID)

			cfg.Logger.Info("authentication successful",
				slog.String("token_id", authCtx.TokenID),
				slog.String("token_prefix", authCtx.TokenPrefix),
				slog.String("client", authCtx.ClientName),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Bool("cache_hit", false),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// padAuthFailure sleeps until minAuthDuration has elapsed since start.
// Successful requests return at full speed; only rejections are padded.
func padAuthFailure(start time.Time) {
	elapsed := time.Since(start)
	if elapsed < minAuthDuration {
		time.Sleep(minAuthDuration - elapsed)
	}
}

// extractToken extracts the client token from the request.
// Supports both "Authorization: Bearer <token>" and "X-Client-Token: <token>" headers.
func extractToken(r *http.Request) string {
	// Try Authorization header first
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	// Fall back to X-Client-Token header
	return r.Header.Get("X-Client-Token")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing client token"}}`))
}
