package sqlite

import (
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database private to the calling test.
// The shared cache lets the reader and writer pools see the same data.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// journal_mode(WAL) does not apply to in-memory databases.
	dsn := buildDSN(
		"file:"+url.PathEscape(t.Name()),
		[]string{"mode=memory", "cache=shared"},
		[]string{"busy_timeout(5000)", "foreign_keys(ON)"},
	)

	db, err := open(dsn, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}
