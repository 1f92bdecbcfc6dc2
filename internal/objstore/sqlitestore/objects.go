package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// ObjectsByKind returns all entries of one kind keyed by identifier.
func (s *Store) ObjectsByKind(ctx context.Context, kind objstore.ObjectKind) (map[string]objstore.ObjectEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, common, native FROM objects WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying objects by kind: %w", err)
	}
	defer rows.Close()

	return collectObjects(rows)
}

// Object returns a single entry by identifier.
// Returns objstore.ErrNotFound if the identifier does not exist.
func (s *Store) Object(ctx context.Context, id string) (objstore.ObjectEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, common, native FROM objects WHERE id = ?`, id)

	entry, err := scanObject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return objstore.ObjectEntry{}, objstore.ErrNotFound
		}
		return objstore.ObjectEntry{}, fmt.Errorf("querying object %s: %w", id, err)
	}
	return entry, nil
}

// ObjectsByPattern returns all entries whose identifier matches the
// glob-style pattern. The fixed prefix before the first wildcard narrows the
// SQL scan; the exact match runs in Go.
func (s *Store) ObjectsByPattern(ctx context.Context, pattern string) (map[string]objstore.ObjectEntry, error) {
	prefix := pattern
	if i := strings.IndexByte(pattern, '*'); i >= 0 {
		prefix = pattern[:i]
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, common, native FROM objects WHERE id >= ? AND id < ? ORDER BY id`,
		prefix, prefix+"￿")
	if err != nil {
		return nil, fmt.Errorf("querying objects by pattern: %w", err)
	}
	defer rows.Close()

	all, err := collectObjects(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string]objstore.ObjectEntry)
	for id, entry := range all {
		if objstore.MatchPattern(pattern, id) {
			out[id] = entry
		}
	}
	return out, nil
}

// PutObject inserts or replaces an object entry. Used for seeding standalone
// installations and by tests.
func (s *Store) PutObject(ctx context.Context, entry objstore.ObjectEntry) error {
	if entry.ID == "" {
		return objstore.ErrInvalidID
	}

	common, err := json.Marshal(entry.Common)
	if err != nil {
		return fmt.Errorf("marshalling common: %w", err)
	}
	native, err := json.Marshal(entry.Native)
	if err != nil {
		return fmt.Errorf("marshalling native: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO objects (id, kind, common, native) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET kind = excluded.kind,
			common = excluded.common, native = excluded.native`,
		entry.ID, string(entry.Kind), string(common), string(native))
	if err != nil {
		return fmt.Errorf("storing object %s: %w", entry.ID, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (objstore.ObjectEntry, error) {
	var (
		entry        objstore.ObjectEntry
		kind         string
		commonJSON   string
		nativeJSON   string
	)
	if err := row.Scan(&entry.ID, &kind, &commonJSON, &nativeJSON); err != nil {
		return objstore.ObjectEntry{}, err
	}

	entry.Kind = objstore.ObjectKind(kind)
	if err := json.Unmarshal([]byte(commonJSON), &entry.Common); err != nil {
		return objstore.ObjectEntry{}, fmt.Errorf("unmarshalling common for %s: %w", entry.ID, err)
	}
	if nativeJSON != "" && nativeJSON != "null" {
		if err := json.Unmarshal([]byte(nativeJSON), &entry.Native); err != nil {
			return objstore.ObjectEntry{}, fmt.Errorf("unmarshalling native for %s: %w", entry.ID, err)
		}
	}
	return entry, nil
}

func collectObjects(rows *sql.Rows) (map[string]objstore.ObjectEntry, error) {
	out := make(map[string]objstore.ObjectEntry)
	for rows.Next() {
		entry, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		out[entry.ID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return out, nil
}
