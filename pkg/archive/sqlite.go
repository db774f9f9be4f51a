package archive

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

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS renders (
		id TEXT PRIMARY KEY,
		graph6 TEXT NOT NULL,
		vertices INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		highlight TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL,
		hash TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_renders_created_at ON renders(created_at);
`

// SQLite is an archive stored in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save implements Archive. Saving an existing ID replaces the record.
func (s *SQLite) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO renders (id, graph6, vertices, edges, highlight, format, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Graph6, rec.Vertices, rec.Edges, rec.Highlight, rec.Format, rec.Hash, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements Archive.
func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordFields+` FROM renders WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List implements Archive.
func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordFields+` FROM renders ORDER BY created_at DESC, id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const recordFields = `id, graph6, vertices, edges, highlight, format, hash, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec     Record
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.Graph6, &rec.Vertices, &rec.Edges,
		&rec.Highlight, &rec.Format, &rec.Hash, &created); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}

var _ Archive = (*SQLite)(nil)
