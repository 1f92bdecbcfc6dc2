package objstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateID is returned by LoadSnapshot when two kinds claim the same
// identifier. The namespace guarantees global uniqueness, so a collision is
// an invariant violation and never silently dropped.
var ErrDuplicateID = errors.New("objstore: duplicate identifier across kinds")

// Snapshot is a flat in-memory view of the object namespace keyed by
// identifier, as of one load. It is never mutated after loading; every query
// builds its own.
type Snapshot map[string]ObjectEntry

// snapshotKinds are the kinds merged into a snapshot, in load order.
var snapshotKinds = []ObjectKind{KindState, KindChannel, KindDevice, KindEnum}

// LoadSnapshot pulls the full current object namespace (states, channels,
// devices, enums) from the store into a single mapping.
//
// There is no partial-snapshot fallback: any failing bulk read fails the
// load. An identifier appearing under two kinds fails with ErrDuplicateID.
func LoadSnapshot(ctx context.Context, store Store) (Snapshot, error) {
	snap := make(Snapshot)
	for _, kind := range snapshotKinds {
		entries, err := store.ObjectsByKind(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s objects: %w", kind, err)
		}
		for id, entry := range entries {
			if prev, ok := snap[id]; ok {
				return nil, fmt.Errorf("%w: %s is both %s and %s",
					ErrDuplicateID, id, prev.Kind, entry.Kind)
			}
			snap[id] = entry
		}
	}
	return snap, nil
}

// SortedIDs returns all identifiers in lexicographic order. Snapshot
// iteration uses this order so results are stable across repeated calls on
// an unchanged snapshot.
func (s Snapshot) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedIDsByKind returns the identifiers of entries matching any of the
// given kinds, in lexicographic order.
func (s Snapshot) SortedIDsByKind(kinds ...ObjectKind) []string {
	var ids []string
	for id, entry := range s {
		for _, k := range kinds {
			if entry.Kind == k {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}
