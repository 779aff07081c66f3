// Package sqlite persists contact form inquiries in an embedded SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Connection pool sizes. SQLite allows one writer at a time, so the writer
// pool is pinned to a single connection and "database is locked" never
// surfaces to callers.
const (
	writerConns = 1
	readerConns = 4
)

// filePragmas apply to on-disk databases. WAL lets the reader pool run
// alongside the writer.
var filePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
}

// DB holds separate reader and writer pools over one SQLite file.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the inquiry database at dbPath, creating the file if needed.
func NewDB(dbPath string) (*DB, error) {
	return open(buildDSN("file:"+dbPath, nil, filePragmas), dbPath)
}

// buildDSN appends query parameters and _pragma entries to target in the
// form modernc.org/sqlite expects.
func buildDSN(target string, params []string, pragmas []string) string {
	query := make([]string, 0, len(params)+len(pragmas))
	query = append(query, params...)
	for _, p := range pragmas {
		query = append(query, "_pragma="+p)
	}
	if len(query) == 0 {
		return target
	}
	return target + "?" + strings.Join(query, "&")
}

func open(dsn, dbPath string) (*DB, error) {
	writer, err := openPool(dsn, writerConns)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}

	reader, err := openPool(dsn, readerConns)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: dbPath}, nil
}

func openPool(dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	pool.SetMaxOpenConns(maxConns)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Path returns the database file the pools were opened on.
func (db *DB) Path() string {
	return db.path
}

// Close closes both pools and returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
