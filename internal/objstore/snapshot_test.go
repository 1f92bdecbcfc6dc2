package objstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// kindStore is a minimal Store for snapshot tests.
type kindStore struct {
	Store // panics on unused methods

	byKind  map[ObjectKind]map[string]ObjectEntry
	failOn  ObjectKind
	loadErr error
}

func (k *kindStore) ObjectsByKind(_ context.Context, kind ObjectKind) (map[string]ObjectEntry, error) {
	if k.failOn == kind && k.loadErr != nil {
		return nil, k.loadErr
	}
	return k.byKind[kind], nil
}

func TestLoadSnapshotMergesAllKinds(t *testing.T) {
	store := &kindStore{byKind: map[ObjectKind]map[string]ObjectEntry{
		KindState: {
			"zigbee.0.dev1.temperature": {ID: "zigbee.0.dev1.temperature", Kind: KindState},
		},
		KindChannel: {
			"zigbee.0.dev1.env": {ID: "zigbee.0.dev1.env", Kind: KindChannel},
		},
		KindDevice: {
			"zigbee.0.dev1": {ID: "zigbee.0.dev1", Kind: KindDevice},
		},
		KindEnum: {
			"enum.rooms.living": {ID: "enum.rooms.living", Kind: KindEnum},
		},
	}}

	snap, err := LoadSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snap) != 4 {
		t.Errorf("snapshot has %d entries, want 4", len(snap))
	}
	ids := snap.SortedIDs()
	if ids[0] != "enum.rooms.living" {
		t.Errorf("sorted order starts with %q", ids[0])
	}
}

func TestLoadSnapshotDuplicateID(t *testing.T) {
	store := &kindStore{byKind: map[ObjectKind]map[string]ObjectEntry{
		KindState:   {"zigbee.0.x": {ID: "zigbee.0.x", Kind: KindState}},
		KindChannel: {"zigbee.0.x": {ID: "zigbee.0.x", Kind: KindChannel}},
	}}

	_, err := LoadSnapshot(context.Background(), store)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestLoadSnapshotNoPartialFallback(t *testing.T) {
	store := &kindStore{
		byKind: map[ObjectKind]map[string]ObjectEntry{
			KindState: {"a.0.b": {ID: "a.0.b", Kind: KindState}},
		},
		failOn:  KindDevice,
		loadErr: fmt.Errorf("store down"),
	}

	if _, err := LoadSnapshot(context.Background(), store); err == nil {
		t.Error("expected error when one bulk read fails")
	}
}

func TestSortedIDsByKind(t *testing.T) {
	snap := Snapshot{
		"b.0.grp":   {ID: "b.0.grp", Kind: KindChannel},
		"a.0.grp":   {ID: "a.0.grp", Kind: KindDevice},
		"a.0.grp.s": {ID: "a.0.grp.s", Kind: KindState},
	}
	ids := snap.SortedIDsByKind(KindChannel, KindDevice)
	if len(ids) != 2 || ids[0] != "a.0.grp" || ids[1] != "b.0.grp" {
		t.Errorf("SortedIDsByKind = %v", ids)
	}
}
