package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one document row per agent id in table memory_state.
type SQLiteStore struct {
	db      *sql.DB
	agentID string
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath, agentID string) (*SQLiteStore, error) {
	if agentID == "" {
		return nil, errors.New("sqlite store: empty agent id")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &SQLiteStore{db: db, agentID: agentID}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS memory_state (
		id          TEXT PRIMARY KEY,
		state       TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) (*Document, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM memory_state WHERE id = ?`, s.agentID,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query memory_state: %w", err)
	}
	return decode([]byte(state))
}

func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	b, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO memory_state (id, state, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		s.agentID, string(b), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert memory_state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memory_state WHERE id = ?`, s.agentID); err != nil {
		return fmt.Errorf("delete memory_state: %w", err)
	}
	return nil
}
