package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notesync-web/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const appStateSchema = `
CREATE TABLE IF NOT EXISTS app_state (
	session_id TEXT PRIMARY KEY,
	data       TEXT    NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_app_state_expires ON app_state(expires_at);
`

type sqliteAppStateRepository struct {
	db *sql.DB
}

// OpenSQLiteAppStateRepository opens (creating if needed) the database at
// path and prepares the schema.
func OpenSQLiteAppStateRepository(path string) (AppStateRepository, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(appStateSchema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create app state schema: %w", err)
	}

	return &sqliteAppStateRepository{db: db}, db, nil
}

func (r *sqliteAppStateRepository) Get(ctx context.Context, sessionID string) (*domain.AppState, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE session_id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app state: %w", err)
	}

	var state domain.AppState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to decode app state: %w", err)
	}
	return &state, nil
}

func (r *sqliteAppStateRepository) Save(ctx context.Context, state *domain.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode app state: %w", err)
	}

	var expires int64
	if !state.ExpiresAt.IsZero() {
		expires = state.ExpiresAt.Unix()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_state (session_id, data, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			data = excluded.data,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		state.SessionID, string(data), expires, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}

func (r *sqliteAppStateRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete app state: %w", err)
	}
	return nil
}

func (r *sqliteAppStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE expires_at > 0 AND expires_at < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired app state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
