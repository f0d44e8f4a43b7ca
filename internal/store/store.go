// Package store keeps per-browser-session carousel state in SQLite.
// The database runs in memory: sessions live only as long as the
// process, nothing survives a restart.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/Jean-Jawed/4Films/internal/carousel"
)

// DefaultDSN is a shared in-memory database.
const DefaultDSN = "file:sessions?mode=memory&cache=shared"

type Store struct {
	sqldb *sql.DB
	db    *bun.DB
}

type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:cs"`

	Token       string `bun:"token,pk"`
	State       []byte `bun:"state,notnull"`
	DispatchSeq int64  `bun:"dispatch_seq,notnull"`
	AppliedSeq  int64  `bun:"applied_seq,notnull"`
	UpdatedAt   string `bun:"updated_at,notnull"`
}

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A shared in-memory database disappears once its last connection
	// closes; a single pooled connection keeps it alive.
	sqldb.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	if err := initSchema(ctx, sqldb); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{sqldb: sqldb, db: bdb}, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	dispatch_seq INTEGER NOT NULL DEFAULT 0,
	applied_seq INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// State returns the carousel state of a session. Unknown tokens yield
// the empty state.
func (s *Store) State(ctx context.Context, token string) (carousel.State, error) {
	var sess Session
	err := s.db.NewSelect().Model(&sess).Where("token = ?", token).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return carousel.State{}, nil
	}
	if err != nil {
		return carousel.State{}, err
	}

	var state carousel.State
	if err := json.Unmarshal(sess.State, &state); err != nil {
		return carousel.State{}, fmt.Errorf("decode session state: %w", err)
	}
	return state, nil
}

// SetState stores the carousel state of a session, creating it on first
// use.
func (s *Store) SetState(ctx context.Context, token string, state carousel.State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	sess := &Session{
		Token:     token,
		State:     encoded,
		UpdatedAt: now(),
	}
	_, err = s.db.NewInsert().
		Model(sess).
		On("CONFLICT (token) DO UPDATE").
		Set("state = EXCLUDED.state, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// BeginFetch tags a new outbound fetch for the session and returns its
// sequence number. The latest dispatched number wins at completion.
func (s *Store) BeginFetch(ctx context.Context, token string) (int64, error) {
	const query = `
INSERT INTO sessions (token, state, dispatch_seq, applied_seq, updated_at)
VALUES (?, '{}', 1, 0, ?)
ON CONFLICT (token) DO UPDATE SET
	dispatch_seq = dispatch_seq + 1,
	updated_at = excluded.updated_at
RETURNING dispatch_seq
`
	var seq int64
	if err := s.sqldb.QueryRowContext(ctx, query, token, now()).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// CompleteFetch applies a fetched state only when seq is still the
// latest dispatched sequence for the session. Stale completions are
// discarded and reported as not applied.
func (s *Store) CompleteFetch(ctx context.Context, token string, seq int64, state carousel.State) (bool, error) {
	encoded, err := json.Marshal(state)
	if err != nil {
		return false, fmt.Errorf("encode session state: %w", err)
	}

	res, err := s.db.NewUpdate().
		Model((*Session)(nil)).
		Set("state = ?", string(encoded)).
		Set("applied_seq = ?", seq).
		Set("updated_at = ?", now()).
		Where("token = ?", token).
		Where("dispatch_seq = ?", seq).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Sweep deletes sessions idle for longer than ttl and returns how many
// were removed.
func (s *Store) Sweep(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl).Format(time.RFC3339)
	res, err := s.db.NewDelete().
		Model((*Session)(nil)).
		Where("updated_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
