package device

import (
	"context"
	"errors"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// enrichStates resolves each attached identifier against the snapshot and
// fetches its live value. Identifiers that are not state-kind entries are
// dropped; a never-written state yields a null-valued record; a failing
// fetch records the reason on that one entry and enrichment continues.
func (b *Builder) enrichStates(ctx context.Context, snap objstore.Snapshot, attached []string) []DeviceState {
	var out []DeviceState
	for _, sid := range attached {
		entry, ok := snap[sid]
		if !ok || entry.Kind != objstore.KindState {
			continue
		}

		ds := DeviceState{
			ID:       sid,
			Name:     b.stateName(entry),
			Role:     entry.Common.Role,
			Unit:     entry.Common.Unit,
			DataType: entry.Common.Type,
		}

		sv, err := b.store.State(ctx, sid)
		switch {
		case errors.Is(err, objstore.ErrNotFound):
			// declared but never written — a valid outcome
		case err != nil:
			ds.Error = err.Error()
		default:
			ds.Value = sv.Val
			ds.Ack = sv.Ack
			ds.TS = sv.TS
			if sv.LC != sv.TS {
				lc := sv.LC
				ds.LC = &lc
			}
		}
		out = append(out, ds)
	}
	return out
}

// stateName resolves a state's display name, falling back to the last
// identifier segment.
func (b *Builder) stateName(entry objstore.ObjectEntry) string {
	if name := entry.Common.Name.Resolve(b.lang, b.fallback); name != "" {
		return name
	}
	if i := strings.LastIndexByte(entry.ID, '.'); i >= 0 {
		return entry.ID[i+1:]
	}
	return entry.ID
}
