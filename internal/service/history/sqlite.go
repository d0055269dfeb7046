package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Store with on-disk persistence so stress trends
// survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary creates) the history database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			tenant TEXT NOT NULL,
			session_id TEXT NOT NULL,
			content TEXT NOT NULL,
			emotion TEXT NOT NULL,
			stress_level INTEGER NOT NULL,
			polarity REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_tenant_created
			ON entries (tenant, created_at DESC);
	`)
	return err
}

// Append records a scored entry.
func (s *SQLiteStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, tenant, session_id, content, emotion, stress_level, polarity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Tenant, entry.SessionID, entry.Content,
		entry.Emotion, entry.StressLevel, entry.Polarity, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for the tenant, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, tenant string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant, session_id, content, emotion, stress_level, polarity, created_at
		FROM entries WHERE tenant = ?
		ORDER BY created_at DESC LIMIT ?`,
		tenant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.Tenant, &entry.SessionID, &entry.Content,
			&entry.Emotion, &entry.StressLevel, &entry.Polarity, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
