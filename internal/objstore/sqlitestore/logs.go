package sqlitestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// defaultLogLimit caps host log queries that do not specify a limit.
const defaultLogLimit = 1000

// HostLogs queries the host log table, newest first.
func (s *Store) HostLogs(ctx context.Context, q objstore.LogQuery) ([]objstore.LogEntry, error) {
	var (
		where []string
		args  []any
	)
	if q.From > 0 {
		where = append(where, "ts >= ?")
		args = append(args, q.From)
	}
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}

	query := `SELECT ts, severity, source, message, host FROM host_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying host logs: %w", err)
	}
	defer rows.Close()

	var out []objstore.LogEntry
	for rows.Next() {
		var e objstore.LogEntry
		if err := rows.Scan(&e.TS, &e.Severity, &e.Source, &e.Message, &e.Host); err != nil {
			return nil, fmt.Errorf("scanning host log: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating host logs: %w", err)
	}
	return out, nil
}

// AppendLog records one host log entry. Used by seeding and tests; standalone
// installations may also point other processes at the same table.
func (s *Store) AppendLog(ctx context.Context, e objstore.LogEntry) error {
	if e.TS == 0 {
		e.TS = objstore.NowMillis()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO host_logs (ts, severity, source, message, host) VALUES (?, ?, ?, ?, ?)`,
		e.TS, e.Severity, e.Source, e.Message, e.Host)
	if err != nil {
		return fmt.Errorf("appending host log: %w", err)
	}
	return nil
}
