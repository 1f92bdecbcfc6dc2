package query

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-objgw/internal/classify"
	"github.com/nerrad567/gray-logic-objgw/internal/device"
	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// DefaultListLimit caps list_devices and search_objects when the caller
// does not specify a limit.
const DefaultListLimit = 100

// WriteMirror receives a copy of every accepted state write. Used to feed
// the optional InfluxDB history; implementations must be non-blocking.
type WriteMirror interface {
	RecordStateWrite(id string, val any, ack bool)
}

// Executor runs the gateway's query operations.
//
// Thread Safety: Executor is stateless apart from its immutable
// configuration; all methods are safe for concurrent use.
type Executor struct {
	store    objstore.Store
	builder  *device.Builder
	lang     string
	fallback string
	mirror   WriteMirror
	started  time.Time
}

// New creates an Executor.
//
// Parameters:
//   - store: External object/state store
//   - classifier: Device classification capability
//   - lang: Preferred display language
//   - fallback: Second fallback language after English
func New(store objstore.Store, classifier classify.Classifier, lang, fallback string) *Executor {
	return &Executor{
		store:    store,
		builder:  device.NewBuilder(store, classifier, lang, fallback),
		lang:     lang,
		fallback: fallback,
		started:  time.Now(),
	}
}

// SetMirror attaches an optional write mirror. A nil mirror disables
// mirroring.
func (e *Executor) SetMirror(m WriteMirror) {
	e.mirror = m
}

// ListDevicesParams are the parameters of the list_devices operation.
type ListDevicesParams struct {
	Room   string `json:"room"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ListDevicesResult is the list_devices payload. Total counts the
// room-filtered list before pagination.
type ListDevicesResult struct {
	Devices []device.Device `json:"devices"`
	Total   int             `json:"total"`
}

// ListDevices builds the full device view, applies the room filter, then
// paginates. Classification and enrichment always run over the complete
// attached-state set before any slicing.
func (e *Executor) ListDevices(ctx context.Context, p ListDevicesParams) (ListDevicesResult, error) {
	snap, err := objstore.LoadSnapshot(ctx, e.store)
	if err != nil {
		return ListDevicesResult{}, fmt.Errorf("loading snapshot: %w", err)
	}

	devices := e.builder.Build(ctx, snap, p.Room)

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(devices)
	page := paginate(devices, offset, limit)
	return ListDevicesResult{Devices: page, Total: total}, nil
}

// paginate slices list[offset : offset+limit] with out-of-range clamping.
func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
