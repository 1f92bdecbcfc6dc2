package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	// SQLite driver registration.
	_ "github.com/mattn/go-sqlite3"
)

// Config holds the SQLite store settings.
type Config struct {
	// Path is the database file path, or ":memory:" for an in-memory store.
	Path string
	// WALMode enables write-ahead logging for better concurrent access.
	WALMode bool
	// BusyTimeout is the SQLite busy timeout in milliseconds.
	BusyTimeout int
}

// Store is a SQLite-backed objstore.Store.
//
// Thread Safety: database/sql manages a connection pool; all methods are safe
// for concurrent use.
type Store struct {
	db *sql.DB
}

// schema creates the three namespace tables. Idempotent.
const schema = `
	CREATE TABLE IF NOT EXISTS objects (
		id     TEXT PRIMARY KEY,
		kind   TEXT NOT NULL,
		common TEXT NOT NULL DEFAULT '{}',
		native TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_objects_kind ON objects(kind);

	CREATE TABLE IF NOT EXISTS states (
		id  TEXT PRIMARY KEY,
		val TEXT,
		ack INTEGER NOT NULL DEFAULT 0,
		ts  INTEGER NOT NULL,
		lc  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS host_logs (
		seq      INTEGER PRIMARY KEY AUTOINCREMENT,
		ts       INTEGER NOT NULL,
		severity TEXT NOT NULL,
		source   TEXT NOT NULL,
		message  TEXT NOT NULL,
		host     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_host_logs_ts ON host_logs(ts);
`

// Open opens (creating if necessary) the SQLite store at cfg.Path and applies
// the schema.
//
// Parameters:
//   - ctx: Context for cancellation
//   - cfg: Store configuration
//
// Returns:
//   - *Store: Ready store
//   - error: If the database cannot be opened or the schema applied
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitestore: path is required")
	}

	dsn := cfg.Path + "?_foreign_keys=on"
	if cfg.WALMode {
		dsn += "&_journal_mode=WAL"
	}
	if cfg.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_busy_timeout=%d", cfg.BusyTimeout)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying store schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
