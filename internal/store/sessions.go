package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/waylink/waylink/internal/dispatch"
	"github.com/waylink/waylink/internal/model"
)

// Common errors for session store operations.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// recentSessionsLimit caps the session list payload served to the
// prefetch cache.
const recentSessionsLimit = 50

// CreateSession inserts a new session digest into the database.
func (s *Store) CreateSession(ctx context.Context, session *model.SessionDigest) error {
	query := `
		INSERT INTO sessions (id, title, status, repo, tags, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		session.ID,
		session.Title,
		session.Status,
		session.Repo,
		pq.Array(session.Tags),
		session.UpdatedAt,
		session.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// SessionByID retrieves a session digest by its ID.
func (s *Store) SessionByID(ctx context.Context, id string) (*model.SessionDigest, error) {
	query := `
		SELECT id, title, status, repo, tags, updated_at, created_at
		FROM sessions
		WHERE id = $1
	`

	return s.scanSession(s.pool.QueryRow(ctx, query, id))
}

// RecentSessions retrieves the most recently updated sessions.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]*model.SessionDigest, error) {
	if limit <= 0 {
		limit = recentSessionsLimit
	}

	query := `
		SELECT id, title, status, repo, tags, updated_at, created_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.SessionDigest
	for rows.Next() {
		session, err := s.scanSessionFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// RecentSessionIDs retrieves the IDs of the most recently updated sessions.
// Used by the cache warmer to decide which session details to prefetch.
func (s *Store) RecentSessionIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = recentSessionsLimit
	}

	query := `
		SELECT id
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list session IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session IDs: %w", err)
	}

	return ids, nil
}

// TouchSession bumps a session's updated_at and status, keeping the
// recency ordering used by RecentSessions accurate.
func (s *Store) TouchSession(ctx context.Context, id string, status model.SessionStatus) error {
	query := `
		UPDATE sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// sessionListPayload is the JSON shape stored in the prefetch cache for
// the sessions list screen.
type sessionListPayload struct {
	Sessions []*model.SessionDigest `json:"sessions"`
	Count    int                    `json:"count"`
}

// SessionDetail returns a loader that fetches one session digest and
// marshals it for the prefetch cache.
func (s *Store) SessionDetail(id string) dispatch.LoaderFunc {
	return func(ctx context.Context) ([]byte, error) {
		session, err := s.SessionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(session)
	}
}

// Sessions returns a loader that fetches the recent session list and
// marshals it for the prefetch cache.
func (s *Store) Sessions() dispatch.LoaderFunc {
	return func(ctx context.Context) ([]byte, error) {
		sessions, err := s.RecentSessions(ctx, recentSessionsLimit)
		if err != nil {
			return nil, err
		}
		if sessions == nil {
			sessions = []*model.SessionDigest{}
		}
		return json.Marshal(sessionListPayload{Sessions: sessions, Count: len(sessions)})
	}
}

// scanSession scans a single row into a SessionDigest model.
func (s *Store) scanSession(row pgx.Row) (*model.SessionDigest, error) {
	var session model.SessionDigest
	var tags []string

	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.Status,
		&session.Repo,
		pq.Array(&tags),
		&session.UpdatedAt,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session.Tags = tags
	return &session, nil
}

// scanSessionFromRows scans a row from pgx.Rows into a SessionDigest model.
func (s *Store) scanSessionFromRows(rows pgx.Rows) (*model.SessionDigest, error) {
	var session model.SessionDigest
	var tags []string

	err := rows.Scan(
		&session.ID,
		&session.Title,
		&session.Status,
		&session.Repo,
		pq.Array(&tags),
		&session.UpdatedAt,
		&session.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	session.Tags = tags
	return &session, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique
// constraint violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
