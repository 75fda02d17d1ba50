package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/waylink/waylink/internal/model"
)

// Common errors for client token store operations.
var (
	ErrTokenNotFound = errors.New("client token not found")
)

// CreateToken inserts a new client token into the database.
func (s *Store) CreateToken(ctx context.Context, token *model.ClientToken) error {
	query := `
		INSERT INTO client_tokens (id, client_name, token_hash, token_prefix, scopes, rate_limit_tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		token.ID,
		token.ClientName,
		token.TokenHash,
		token.TokenPrefix,
		pq.Array(token.Scopes),
		token.RateLimitTier,
		token.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create client token: %w", err)
	}

	return nil
}

// GetTokenByID retrieves a client token by its ID.
func (s *Store) GetTokenByID(ctx context.Context, id string) (*model.ClientToken, error) {
	query := `
		SELECT id, client_name, token_hash, token_prefix, scopes, rate_limit_tier, revoked_at, last_used_at, created_at
		FROM client_tokens
		WHERE id = $1
	`

	return s.scanToken(s.pool.QueryRow(ctx, query, id))
}

// GetTokensByPrefix retrieves all active client tokens matching a prefix.
// Used during authentication to find candidate tokens for verification.
func (s *Store) GetTokensByPrefix(ctx context.Context, prefix string) ([]*model.ClientToken, error) {
	query := `
		SELECT id, client_name, token_hash, token_prefix, scopes, rate_limit_tier, revoked_at, last_used_at, created_at
		FROM client_tokens
		WHERE token_prefix = $1 AND revoked_at IS NULL
	`

	rows, err := s.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get client tokens by prefix: %w", err)
	}
	defer rows.Close()

	var tokens []*model.ClientToken
	for rows.Next() {
		token, err := s.scanTokenFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client tokens: %w", err)
	}

	return tokens, nil
}

// ListTokens retrieves all client tokens, newest first.
func (s *Store) ListTokens(ctx context.Context) ([]*model.ClientToken, error) {
	query := `
		SELECT id, client_name, token_hash, token_prefix, scopes, rate_limit_tier, revoked_at, last_used_at, created_at
		FROM client_tokens
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list client tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*model.ClientToken
	for rows.Next() {
		token, err := s.scanTokenFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client tokens: %w", err)
	}

	return tokens, nil
}

// RevokeToken revokes a client token by setting revoked_at.
func (s *Store) RevokeToken(ctx context.Context, id string) error {
	query := `
		UPDATE client_tokens
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := s.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke client token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	return nil
}

// UpdateTokenLastUsed updates the last_used_at timestamp.
// Should be called asynchronously after successful authentication.
func (s *Store) UpdateTokenLastUsed(ctx context.Context, id string) error {
	query := `
		UPDATE client_tokens
		SET last_used_at = $2
		WHERE id = $1
	`

	_, err := s.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update client token last used: %w", err)
	}

	return nil
}

// scanToken scans a single row into a ClientToken model.
func (s *Store) scanToken(row pgx.Row) (*model.ClientToken, error) {
	var token model.ClientToken
	var scopes []string

	err := row.Scan(
		&token.ID,
		&token.ClientName,
		&token.TokenHash,
		&token.TokenPrefix,
		pq.Array(&scopes),
		&token.RateLimitTier,
		&token.RevokedAt,
		&token.LastUsedAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to scan client token: %w", err)
	}

	token.Scopes = scopes
	return &token, nil
}

// scanTokenFromRows scans a row from pgx.Rows into a ClientToken model.
func (s *Store) scanTokenFromRows(rows pgx.Rows) (*model.ClientToken, error) {
	var token model.ClientToken
	var scopes []string

	err := rows.Scan(
		&token.ID,
		&token.ClientName,
		&token.TokenHash,
		&token.TokenPrefix,
		pq.Array(&scopes),
		&token.RateLimitTier,
		&token.RevokedAt,
		&token.LastUsedAt,
		&token.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	token.Scopes = scopes
	return &token, nil
}
