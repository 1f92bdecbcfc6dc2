package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// State returns the live value for a state identifier.
// Returns objstore.ErrNotFound for states that were never written.
func (s *Store) State(ctx context.Context, id string) (objstore.StateValue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT val, ack, ts, lc FROM states WHERE id = ?`, id)

	var (
		valJSON sql.NullString
		ack     int
		sv      objstore.StateValue
	)
	if err := row.Scan(&valJSON, &ack, &sv.TS, &sv.LC); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return objstore.StateValue{}, objstore.ErrNotFound
		}
		return objstore.StateValue{}, fmt.Errorf("querying state %s: %w", id, err)
	}

	sv.Ack = ack != 0
	if valJSON.Valid && valJSON.String != "" {
		if err := json.Unmarshal([]byte(valJSON.String), &sv.Val); err != nil {
			return objstore.StateValue{}, fmt.Errorf("unmarshalling state value %s: %w", id, err)
		}
	}
	return sv, nil
}

// SetState writes a live value. The last-change timestamp advances only when
// the stored value actually changes; the last-update timestamp advances on
// every write.
func (s *Store) SetState(ctx context.Context, id string, val any, ack bool) error {
	if id == "" {
		return objstore.ErrInvalidID
	}

	valJSON, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshalling state value: %w", err)
	}
	now := objstore.NowMillis()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning state write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	var prevVal sql.NullString
	var prevLC int64
	changed := true
	err = tx.QueryRowContext(ctx, `SELECT val, lc FROM states WHERE id = ?`, id).
		Scan(&prevVal, &prevLC)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first write
	case err != nil:
		return fmt.Errorf("reading previous state %s: %w", id, err)
	default:
		changed = !prevVal.Valid || prevVal.String != string(valJSON)
	}

	lc := now
	if !changed {
		lc = prevLC
	}

	ackInt := 0
	if ack {
		ackInt = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO states (id, val, ack, ts, lc) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET val = excluded.val, ack = excluded.ack,
			ts = excluded.ts, lc = excluded.lc`,
		id, string(valJSON), ackInt, now, lc)
	if err != nil {
		return fmt.Errorf("writing state %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state write: %w", err)
	}
	return nil
}
