package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// instancePrefix is the namespace of adapter instance entries.
const instancePrefix = "system.adapter."

// AdapterInstance is one list_adapters result entry.
type AdapterInstance struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Title     string  `json:"title,omitempty"`
	Alive     bool    `json:"alive"`
	Connected bool    `json:"connected"`
	Uptime    float64 `json:"uptime"`
}

// ListAdapters enumerates instance entries and decorates each with its
// liveness states. The three auxiliary reads per instance are mutually
// independent and issued concurrently; a failing read makes that one field
// absent (false/zero) rather than failing the instance or the batch.
func (e *Executor) ListAdapters(ctx context.Context) ([]AdapterInstance, error) {
	entries, err := e.store.ObjectsByKind(ctx, objstore.KindInstance)
	if err != nil {
		return nil, fmt.Errorf("loading instances: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]AdapterInstance, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, entry objstore.ObjectEntry) {
			defer wg.Done()
			out[i] = e.instanceRecord(ctx, entry)
		}(i, entries[id])
	}
	wg.Wait()
	return out, nil
}

// instanceRecord builds one instance record, joining the three concurrent
// liveness fetches.
func (e *Executor) instanceRecord(ctx context.Context, entry objstore.ObjectEntry) AdapterInstance {
	rec := AdapterInstance{
		ID:    entry.ID,
		Name:  strings.TrimPrefix(entry.ID, instancePrefix),
		Title: entry.Common.Name.Resolve(e.lang, e.fallback),
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		rec.Alive = e.boolState(ctx, entry.ID+".alive")
	}()
	go func() {
		defer wg.Done()
		rec.Connected = e.boolState(ctx, entry.ID+".connected")
	}()
	go func() {
		defer wg.Done()
		rec.Uptime = e.floatState(ctx, entry.ID+".uptime")
	}()
	wg.Wait()
	return rec
}

// boolState reads a state and coerces it to bool; any failure reads as
// false.
func (e *Executor) boolState(ctx context.Context, id string) bool {
	sv, err := e.store.State(ctx, id)
	if err != nil {
		return false
	}
	return coerceBool(sv.Val)
}

// floatState reads a state and coerces it to float64; any failure reads as
// zero.
func (e *Executor) floatState(ctx context.Context, id string) float64 {
	sv, err := e.store.State(ctx, id)
	if err != nil {
		return 0
	}
	f, _ := coerceFloat(sv.Val)
	return f
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val == "true" || val == "1" || val == "on"
	default:
		return false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
