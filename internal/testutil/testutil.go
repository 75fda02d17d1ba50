package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/waylink/waylink/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731945

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSessionsSchema drops and recreates the sessions schema for tests.
func ResetSessionsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_sessions")
}

// ResetClientTokensSchema drops and recreates the client_tokens schema for tests.
func ResetClientTokensSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_client_tokens")
}

// resetSchema applies a migration's down file then its up file.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".down.sql"))
	if err != nil {
		return fmt.Errorf("read %s down migration: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply %s down migration: %w", name, err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".up.sql"))
	if err != nil {
		return fmt.Errorf("read %s up migration: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply %s up migration: %w", name, err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestSession creates a test session digest with sensible defaults.
func NewTestSession(t testing.TB, id string) *model.SessionDigest {
	t.Helper()
	now := time.Now().UTC()
	return &model.SessionDigest{
		ID:        id,
		Title:     "Test session " + id,
		Status:    model.SessionStatusRunning,
		Repo:      "acme/widgets",
		Tags:      []string{"test"},
		UpdatedAt: now,
		CreatedAt: now,
	}
}

// NewTestClientToken creates a test client token with sensible defaults.
func NewTestClientToken(t testing.TB, clientName string) *model.ClientToken {
	t.Helper()
	now := time.Now().UTC()
	return &model.ClientToken{
		ID:            fmt.Sprintf("tok-%d", now.UnixNano()),
		ClientName:    clientName,
		TokenHash:     fmt.Sprintf("hash-%d", now.UnixNano()),
		TokenPrefix:   "ab12cd",
		Scopes:        []string{model.ScopeResolve, model.ScopeAnalytics},
		RateLimitTier: model.TierDefault,
		CreatedAt:     now,
	}
}

// NewTestClientTokenWithTier creates a test client token with a specific tier.
func NewTestClientTokenWithTier(t testing.TB, clientName string, tier string) *model.ClientToken {
	t.Helper()
	token := NewTestClientToken(t, clientName)
	token.RateLimitTier = tier
	return token
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
