// Package session implements the Session repository on the embedded store.
// The completed set and the shuffle permutation are stored as JSON columns:
// both are opaque to SQL and always read and written whole.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	"github.com/jessedraper/partydeck/internal/domain"
)

// Repo provides session persistence.
type Repo struct {
	db *sql.DB
}

// New creates a new session repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const sessionColumns = `id, category_id, current_index, completed_ids, shuffle, player_count, status, started_at, ended_at`

const createSQL = `
INSERT INTO sessions (id, category_id, current_index, completed_ids, shuffle, player_count, status, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `
UPDATE sessions
SET current_index = ?, completed_ids = ?, shuffle = ?, player_count = ?, status = ?, ended_at = ?
WHERE id = ?`

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE id = ?`

const getRestorableSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE status IN ('ACTIVE', 'PAUSED')
ORDER BY started_at DESC
LIMIT 1`

const countSQL = `SELECT count(*) FROM sessions`

const listSQL = `
SELECT ` + sessionColumns + `
FROM sessions
ORDER BY started_at DESC
LIMIT ? OFFSET ?`

const statsSQL = `
SELECT count(*),
       count(CASE WHEN status = 'COMPLETED' THEN 1 END)
FROM sessions
WHERE category_id = ?`

const lastPlayedSQL = `
SELECT started_at
FROM sessions
WHERE category_id = ?
ORDER BY started_at DESC
LIMIT 1`

const deleteAllSQL = `DELETE FROM sessions`

// Create inserts a new session.
func (r *Repo) Create(ctx context.Context, s *domain.Session) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	completed, shuffle, err := encodeJSONColumns(s)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, createSQL,
		s.ID.String(), s.CategoryID.String(), s.CurrentIndex, completed, shuffle,
		s.PlayerCount, string(s.Status), s.StartedAt.UTC(), nullableTime(s.EndedAt),
	)
	if err != nil {
		return sqlite.MapError(err, "session", s.ID)
	}

	return nil
}

// Update persists the mutable portion of a session.
// Returns domain.ErrNotFound if the session row is missing.
func (r *Repo) Update(ctx context.Context, s *domain.Session) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	completed, shuffle, err := encodeJSONColumns(s)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, updateSQL,
		s.CurrentIndex, completed, shuffle, s.PlayerCount, string(s.Status),
		nullableTime(s.EndedAt), s.ID.String(),
	)
	if err != nil {
		return sqlite.MapError(err, "session", s.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s: %w", s.ID, domain.ErrNotFound)
	}

	return nil
}

// GetByID returns a session by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	s, err := scanSession(q.QueryRowContext(ctx, getByIDSQL, id.String()))
	if err != nil {
		return nil, sqlite.MapError(err, "session", id)
	}

	return s, nil
}

// GetMostRecentRestorable returns the most recently started session that is
// still ACTIVE or PAUSED. Returns domain.ErrNotFound when none exists.
func (r *Repo) GetMostRecentRestorable(ctx context.Context) (*domain.Session, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	s, err := scanSession(q.QueryRowContext(ctx, getRestorableSQL))
	if err != nil {
		return nil, sqlite.MapError(err, "session", uuid.Nil)
	}

	return s, nil
}

// List returns sessions with pagination (ordered by started_at DESC).
// Returns sessions, total count, and error.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]*domain.Session, int, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var total int
	if err := q.QueryRowContext(ctx, countSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := q.QueryContext(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, total, nil
}

// StatsByCategory aggregates play statistics for one category.
func (r *Repo) StatsByCategory(ctx context.Context, categoryID uuid.UUID) (domain.PlayStats, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	stats := domain.PlayStats{CategoryID: categoryID}

	err := q.QueryRowContext(ctx, statsSQL, categoryID.String()).
		Scan(&stats.TimesPlayed, &stats.TimesDone)
	if err != nil {
		return domain.PlayStats{}, fmt.Errorf("session stats: %w", err)
	}

	var last time.Time
	err = q.QueryRowContext(ctx, lastPlayedSQL, categoryID.String()).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// never played
	case err != nil:
		return domain.PlayStats{}, fmt.Errorf("session stats: %w", err)
	default:
		stats.LastPlayedAt = &last
	}

	return stats, nil
}

// DeleteAll removes every session. Used only by the data-reset path.
func (r *Repo) DeleteAll(ctx context.Context) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, deleteAllSQL); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s             domain.Session
		id, catID     string
		completedJSON string
		shuffleJSON   sql.NullString
		status        string
		endedAt       sql.NullTime
	)

	err := row.Scan(&id, &catID, &s.CurrentIndex, &completedJSON, &shuffleJSON,
		&s.PlayerCount, &status, &s.StartedAt, &endedAt)
	if err != nil {
		return nil, err
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if s.CategoryID, err = uuid.Parse(catID); err != nil {
		return nil, fmt.Errorf("parse session category id: %w", err)
	}

	s.Status = domain.SessionStatus(status)
	if !s.Status.IsValid() {
		return nil, fmt.Errorf("session %s: unknown status %q", s.ID, status)
	}

	var completedIDs []uuid.UUID
	if err := json.Unmarshal([]byte(completedJSON), &completedIDs); err != nil {
		return nil, fmt.Errorf("decode completed set: %w", err)
	}
	s.Completed = make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, cid := range completedIDs {
		s.Completed[cid] = struct{}{}
	}

	if shuffleJSON.Valid {
		if err := json.Unmarshal([]byte(shuffleJSON.String), &s.Shuffle); err != nil {
			return nil, fmt.Errorf("decode shuffle: %w", err)
		}
	}

	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}

	return &s, nil
}

func encodeJSONColumns(s *domain.Session) (completed string, shuffle any, err error) {
	raw, err := json.Marshal(s.CompletedIDs())
	if err != nil {
		return "", nil, fmt.Errorf("encode completed set: %w", err)
	}
	completed = string(raw)

	if s.Shuffle == nil {
		return completed, nil, nil
	}

	rawShuffle, err := json.Marshal(s.Shuffle)
	if err != nil {
		return "", nil, fmt.Errorf("encode shuffle: %w", err)
	}

	return completed, string(rawShuffle), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
