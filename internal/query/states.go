package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// StateRecord is one entry of the get_states payload. A missing state is a
// well-formed record with a null value, not an error; a failing fetch sets
// Error and leaves the other records intact.
type StateRecord struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
	Ack   bool   `json:"ack"`
	TS    int64  `json:"ts"`
	LC    *int64 `json:"lc,omitempty"`
	Error string `json:"error,omitempty"`
}

// GetStates fetches the live values for the given identifiers. The reads are
// independent and idempotent, so they are issued concurrently and joined;
// the result preserves the request order, one record per requested id.
func (e *Executor) GetStates(ctx context.Context, ids []string) ([]StateRecord, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids must not be empty")
	}

	records := make([]StateRecord, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			records[i] = e.fetchState(ctx, id)
		}(i, id)
	}
	wg.Wait()
	return records, nil
}

// fetchState reads one live value, mapping absence to a null-valued record
// with the current timestamp and failure to a flagged record.
func (e *Executor) fetchState(ctx context.Context, id string) StateRecord {
	rec := StateRecord{ID: id}

	sv, err := e.store.State(ctx, id)
	switch {
	case errors.Is(err, objstore.ErrNotFound):
		rec.TS = objstore.NowMillis()
	case err != nil:
		rec.Error = err.Error()
	default:
		rec.Value = sv.Val
		rec.Ack = sv.Ack
		rec.TS = sv.TS
		if sv.LC != sv.TS {
			lc := sv.LC
			rec.LC = &lc
		}
	}
	return rec
}

// SetStateResult echoes an accepted state write.
type SetStateResult struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// SetState writes one live value. The write is fire-once: a failure is
// reported without retry and without transactional coupling to anything
// else. Accepted writes are forwarded to the optional mirror.
func (e *Executor) SetState(ctx context.Context, id string, value any, ack bool) (SetStateResult, error) {
	if id == "" {
		return SetStateResult{}, fmt.Errorf("id must not be empty")
	}

	if err := e.store.SetState(ctx, id, value, ack); err != nil {
		return SetStateResult{}, fmt.Errorf("writing state %s: %w", id, err)
	}
	if e.mirror != nil {
		e.mirror.RecordStateWrite(id, value, ack)
	}
	return SetStateResult{ID: id, Value: value}, nil
}
