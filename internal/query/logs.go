package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// DefaultLogLimit caps get_logs when the caller does not specify a limit.
const DefaultLogLimit = 200

// LogParams filter the get_logs operation.
type LogParams struct {
	// Levels keeps only records of the listed severities. Empty keeps all.
	Levels []string `json:"level"`
	// From excludes records older than this unix-millisecond timestamp.
	From int64 `json:"from_ts"`
	// Adapter restricts records to one source.
	Adapter string `json:"adapter"`
	Limit   int    `json:"limit"`
}

// LogRecord is one normalised get_logs result entry.
type LogRecord struct {
	TS      int64  `json:"ts"`
	Level   string `json:"level"`
	Source  string `json:"source"`
	Message string `json:"message"`
	Host    string `json:"host"`
}

// GetLogs delegates to the store's host log query, then applies the
// severity filter client-side and reshapes each record.
func (e *Executor) GetLogs(ctx context.Context, p LogParams) ([]LogRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	entries, err := e.store.HostLogs(ctx, objstore.LogQuery{
		From:   p.From,
		Source: p.Adapter,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("querying host logs: %w", err)
	}

	var levels map[string]bool
	if len(p.Levels) > 0 {
		levels = make(map[string]bool, len(p.Levels))
		for _, l := range p.Levels {
			levels[strings.ToLower(l)] = true
		}
	}

	records := []LogRecord{}
	for _, entry := range entries {
		if levels != nil && !levels[strings.ToLower(entry.Severity)] {
			continue
		}
		records = append(records, LogRecord{
			TS:      entry.TS,
			Level:   entry.Severity,
			Source:  entry.Source,
			Message: entry.Message,
			Host:    entry.Host,
		})
	}
	return records, nil
}
