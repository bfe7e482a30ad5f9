package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"boardkit.dev/boardkit/internal/workitem"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	definition TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS items (
	run_id  TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq     INTEGER NOT NULL,
	type    TEXT NOT NULL,
	item_id TEXT,
	title   TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// SQLiteStore keeps the manifest in a SQLite database. Only one run is
// stored at a time; Save replaces it.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest database %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize manifest schema: %w", err)
	}
	return &SQLiteStore{path: path, db: db}, nil
}

// Location returns the database path
func (s *SQLiteStore) Location() string {
	return s.path
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load returns the stored run, or false when the database holds none
func (s *SQLiteStore) Load(ctx context.Context) (workitem.Manifest, bool, error) {
	var (
		m         workitem.Manifest
		createdAt string
	)
	row := s.db.QueryRowContext(ctx, `SELECT run_id, created_at, definition FROM runs ORDER BY created_at DESC LIMIT 1`)
	if err := row.Scan(&m.RunID, &createdAt, &m.Definition); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workitem.Manifest{}, false, nil
		}
		return workitem.Manifest{}, false, fmt.Errorf("query manifest run: %w", err)
	}
	if createdAt != "" {
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return workitem.Manifest{}, false, corrupt(s.path, err)
		}
		m.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, item_id, title FROM items WHERE run_id = ? ORDER BY seq`, m.RunID)
	if err != nil {
		return workitem.Manifest{}, false, fmt.Errorf("query manifest items: %w", err)
	}
	defer rows.Close()

	m.Items = []workitem.Record{}
	for rows.Next() {
		var (
			typeName string
			itemID   sql.NullString
			rec      workitem.Record
		)
		if err := rows.Scan(&typeName, &itemID, &rec.Title); err != nil {
			return workitem.Manifest{}, false, fmt.Errorf("scan manifest item: %w", err)
		}
		rec.Type, err = workitem.ParseType(typeName)
		if err != nil {
			return workitem.Manifest{}, false, corrupt(s.path, err)
		}
		if itemID.Valid {
			rec.ID = workitem.Some(workitem.ID(itemID.String))
		}
		m.Items = append(m.Items, rec)
	}
	if err := rows.Err(); err != nil {
		return workitem.Manifest{}, false, fmt.Errorf("iterate manifest items: %w", err)
	}
	return m, true, nil
}

// Save replaces the stored run with m in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, m workitem.Manifest) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin manifest transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear manifest items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear manifest runs: %w", err)
	}

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (run_id, created_at, definition) VALUES (?, ?, ?)`,
		m.RunID, createdAt.Format(time.RFC3339), m.Definition); err != nil {
		return fmt.Errorf("insert manifest run: %w", err)
	}

	for i, rec := range m.Items {
		var itemID sql.NullString
		if id, ok := rec.ID.Get(); ok {
			itemID = sql.NullString{String: string(id), Valid: true}
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO items (run_id, seq, type, item_id, title) VALUES (?, ?, ?, ?, ?)`,
			m.RunID, i, rec.Type.String(), itemID, rec.Title); err != nil {
			return fmt.Errorf("insert manifest item %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit manifest: %w", err)
	}
	return nil
}
