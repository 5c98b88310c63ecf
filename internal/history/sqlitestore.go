package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jolsen/png2ico/internal/paths"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path and creates
// the schema if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS conversions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp    TEXT    NOT NULL,
    source       TEXT    NOT NULL,
    dest         TEXT    NOT NULL,
    sizes_csv    TEXT    NOT NULL DEFAULT '',
    duration_ms  INTEGER NOT NULL DEFAULT 0,
    ok           INTEGER NOT NULL,
    error        TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_conversions_timestamp ON conversions(timestamp DESC);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Record(e Entry) error {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	okInt := 0
	if e.OK {
		okInt = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO conversions (timestamp, source, dest, sizes_csv, duration_ms, ok, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339), e.Source, e.Dest, joinSizes(e.Sizes),
		e.Duration.Milliseconds(), okInt, e.Error,
	)
	return err
}

func (s *SQLiteStore) Entries(limit int) ([]Entry, error) {
	query := `SELECT id, timestamp, source, dest, sizes_csv, duration_ms, ok, error
		FROM conversions ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tsStr, sizesCSV string
		var durMS int64
		var okInt int
		if err := rows.Scan(&e.ID, &tsStr, &e.Source, &e.Dest, &sizesCSV, &durMS, &okInt, &e.Error); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		e.Time = ts
		e.Sizes = splitSizes(sizesCSV)
		e.Duration = time.Duration(durMS) * time.Millisecond
		e.OK = okInt != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM conversions WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM conversions`); err != nil {
		return err
	}
	// sqlite_sequence only exists once an AUTOINCREMENT insert has happened.
	s.db.Exec(`DELETE FROM sqlite_sequence WHERE name = 'conversions'`)
	return nil
}
