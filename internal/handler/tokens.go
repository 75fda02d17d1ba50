package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/waylink/waylink/internal/auth"
	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/store"
)

// TokenHandler handles client-token management endpoints.
type TokenHandler struct {
	logger *slog.Logger
	store  *store.Store
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(logger *slog.Logger, st *store.Store) *TokenHandler {
	return &TokenHandler{
		logger: logger,
		store:  st,
	}
}

// Create handles POST /api/v1/tokens
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req model.TokenCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTokenError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if req.ClientName == "" {
		writeTokenError(w, http.StatusBadRequest, "INVALID_REQUEST", "Client name is required")
		return
	}

	for _, scope := range req.Scopes {
		if !slices.Contains(model.ValidScopes, scope) {
			writeTokenError(w, http.StatusBadRequest, "INVALID_SCOPE",
				"Invalid scope: "+scope+". Valid scopes: resolve, analytics, admin")
			return
		}
	}

	// Default to resolve scope if none provided
	if len(req.Scopes) == 0 {
		req.Scopes = []string{model.ScopeResolve}
	}

	if req.RateLimitTier == "" {
		req.RateLimitTier = model.TierDefault
	}
	if _, ok := model.TierConfigs[req.RateLimitTier]; !ok {
		writeTokenError(w, http.StatusBadRequest, "INVALID_TIER",
			"Invalid rate limit tier: "+req.RateLimitTier+". Valid tiers: default, internal, unlimited")
		return
	}

	generated, err := auth.GenerateToken(auth.EnvLive)
	if err != nil {
		h.logger.Error("failed to generate client token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate client token")
		return
	}

	token := &model.ClientToken{
		ID:            ulid.Make().String(),
		ClientName:    req.ClientName,
		TokenHash:     generated.Hash,
		TokenPrefix:   generated.Prefix,
		Scopes:        req.Scopes,
		RateLimitTier: req.RateLimitTier,
		CreatedAt:     time.Now(),
	}

	if err := h.store.CreateToken(ctx, token); err != nil {
		h.logger.Error("failed to create client token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create client token")
		return
	}

	h.logger.Info("client token created",
		slog.String("token_id", token.ID),
		slog.String("token_prefix", token.TokenPrefix),
		slog.String("client_name", token.ClientName),
		slog.String("created_by", authCtx.ClientName),
	)

	// Return response with plaintext token (shown once only!)
	response := model.TokenCreateResponse{
		ID:            token.ID,
		Token:         generated.Plaintext,
		ClientName:    token.ClientName,
		TokenPrefix:   token.TokenPrefix,
		Scopes:        token.Scopes,
		RateLimitTier: token.RateLimitTier,
		CreatedAt:     token.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(response)
}

// List handles GET /api/v1/tokens
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokens, err := h.store.ListTokens(ctx)
	if err != nil {
		h.logger.Error("failed to list client tokens", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list client tokens")
		return
	}

	// Convert to response format (without secrets)
	responses := make([]model.TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		responses = append(responses, token.ToResponse())
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tokens": responses})
}

// Revoke handles DELETE /api/v1/tokens/{id}
//
// A cached auth verdict for a revoked token stays valid until its cache
// TTL expires; revocation is immediate only at the store.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokenID := chi.URLParam(r, "id")
	if tokenID == "" {
		writeTokenError(w, http.StatusBadRequest, "INVALID_REQUEST", "Token ID is required")
		return
	}

	if err := h.store.RevokeToken(ctx, tokenID); err != nil {
		// Return 404 for both not found and already revoked (security)
		if errors.Is(err, store.ErrTokenNotFound) {
			writeTokenError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Client token not found or already revoked")
			return
		}
		h.logger.Error("failed to revoke client token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke client token")
		return
	}

	h.logger.Info("client token revoked",
		slog.String("token_id", tokenID),
		slog.String("revoked_by", authCtx.ClientName),
	)

	w.WriteHeader(http.StatusNoContent)
}

// writeTokenError writes a JSON error response.
func writeTokenError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
