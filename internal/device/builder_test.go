package device

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-objgw/internal/classify"
	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// mockStore is a test implementation of objstore.Store.
type mockStore struct {
	mu      sync.Mutex
	objects map[string]objstore.ObjectEntry
	states  map[string]objstore.StateValue
	// failStates forces State() errors for specific identifiers.
	failStates map[string]error
	logs       []objstore.LogEntry
}

func newMockStore() *mockStore {
	return &mockStore{
		objects:    make(map[string]objstore.ObjectEntry),
		states:     make(map[string]objstore.StateValue),
		failStates: make(map[string]error),
	}
}

func (m *mockStore) putObject(e objstore.ObjectEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[e.ID] = e
}

func (m *mockStore) putState(id string, sv objstore.StateValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = sv
}

func (m *mockStore) ObjectsByKind(_ context.Context, kind objstore.ObjectKind) (map[string]objstore.ObjectEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]objstore.ObjectEntry)
	for id, e := range m.objects {
		if e.Kind == kind {
			out[id] = e
		}
	}
	return out, nil
}

func (m *mockStore) Object(_ context.Context, id string) (objstore.ObjectEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.objects[id]; ok {
		return e, nil
	}
	return objstore.ObjectEntry{}, objstore.ErrNotFound
}

func (m *mockStore) ObjectsByPattern(_ context.Context, pattern string) (map[string]objstore.ObjectEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]objstore.ObjectEntry)
	for id, e := range m.objects {
		if objstore.MatchPattern(pattern, id) {
			out[id] = e
		}
	}
	return out, nil
}

func (m *mockStore) State(_ context.Context, id string) (objstore.StateValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failStates[id]; ok {
		return objstore.StateValue{}, err
	}
	if sv, ok := m.states[id]; ok {
		return sv, nil
	}
	return objstore.StateValue{}, objstore.ErrNotFound
}

func (m *mockStore) SetState(_ context.Context, id string, val any, ack bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := objstore.NowMillis()
	sv := objstore.StateValue{Val: val, Ack: ack, TS: now, LC: now}
	if prev, ok := m.states[id]; ok && reflect.DeepEqual(prev.Val, val) {
		sv.LC = prev.LC
	}
	m.states[id] = sv
	return nil
}

func (m *mockStore) HostLogs(_ context.Context, q objstore.LogQuery) ([]objstore.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []objstore.LogEntry
	for i := len(m.logs) - 1; i >= 0; i-- {
		e := m.logs[i]
		if q.From > 0 && e.TS < q.From {
			continue
		}
		if q.Source != "" && e.Source != q.Source {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// seedSensor populates a zigbee temperature/humidity device like the ones a
// zigbee adapter publishes.
func seedSensor(m *mockStore) {
	m.putObject(objstore.ObjectEntry{
		ID: "zigbee.0.dev1", Kind: objstore.KindDevice,
		Native: map[string]any{"vendor": "Xiaomi", "model": "WSDCGQ11LM"},
	})
	m.putObject(objstore.ObjectEntry{
		ID: "zigbee.0.dev1.temperature", Kind: objstore.KindState,
		Common: objstore.Common{Role: "value.temperature", Unit: "°C", Type: "number"},
	})
	m.putObject(objstore.ObjectEntry{
		ID: "zigbee.0.dev1.humidity", Kind: objstore.KindState,
		Common: objstore.Common{Role: "value.humidity", Unit: "%", Type: "number"},
	})
	m.putState("zigbee.0.dev1.temperature", objstore.StateValue{Val: 22.6, Ack: true, TS: 5000, LC: 5000})
	m.putState("zigbee.0.dev1.humidity", objstore.StateValue{Val: 48.1, Ack: true, TS: 5000, LC: 4000})
}

func loadSnap(t *testing.T, m *mockStore) objstore.Snapshot {
	t.Helper()
	snap, err := objstore.LoadSnapshot(context.Background(), m)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	return snap
}

func TestBuildSensorDevice(t *testing.T) {
	store := newMockStore()
	seedSensor(store)
	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")

	devices := b.Build(context.Background(), loadSnap(t, store), "")
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}

	dev := devices[0]
	if dev.ID != "device:zigbee.0.dev1" {
		t.Errorf("id = %q", dev.ID)
	}
	if dev.Type != "temperature" {
		t.Errorf("type = %q, want temperature", dev.Type)
	}
	if !reflect.DeepEqual(dev.Roles, []string{"value.temperature", "value.humidity"}) {
		t.Errorf("roles = %v", dev.Roles)
	}
	if len(dev.States) != 2 {
		t.Fatalf("got %d states, want 2", len(dev.States))
	}
	if dev.Vendor == nil || *dev.Vendor != "Xiaomi" {
		t.Errorf("vendor = %v", dev.Vendor)
	}
	if dev.Model == nil || *dev.Model != "WSDCGQ11LM" {
		t.Errorf("model = %v", dev.Model)
	}
	if !reflect.DeepEqual(dev.Tags, []string{"zigbee"}) {
		t.Errorf("tags = %v", dev.Tags)
	}

	// Temperature: lc == ts, so the field is omitted.
	temp := dev.States[0]
	if temp.ID != "zigbee.0.dev1.temperature" {
		t.Fatalf("first state = %q", temp.ID)
	}
	if temp.Value != 22.6 || !temp.Ack || temp.TS != 5000 {
		t.Errorf("temperature live value = %+v", temp)
	}
	if temp.LC != nil {
		t.Errorf("lc should be omitted when equal to ts, got %d", *temp.LC)
	}

	// Humidity: lc differs, so it is present.
	hum := dev.States[1]
	if hum.LC == nil || *hum.LC != 4000 {
		t.Errorf("humidity lc = %v, want 4000", hum.LC)
	}
}

func TestBuildDiscardsGroupsWithoutStates(t *testing.T) {
	store := newMockStore()
	seedSensor(store)
	store.putObject(objstore.ObjectEntry{ID: "zigbee.0.ghost", Kind: objstore.KindDevice})

	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")
	devices := b.Build(context.Background(), loadSnap(t, store), "")

	for _, d := range devices {
		if d.ID == "device:zigbee.0.ghost" {
			t.Error("group without attached states must not appear")
		}
		if len(d.States) == 0 {
			t.Errorf("device %s emitted with empty state list", d.ID)
		}
	}
}

func TestBuildRoomFilter(t *testing.T) {
	store := newMockStore()
	seedSensor(store)
	store.putObject(objstore.ObjectEntry{
		ID: "hue.0.light2", Kind: objstore.KindChannel,
	})
	store.putObject(objstore.ObjectEntry{
		ID: "hue.0.light2.on", Kind: objstore.KindState,
		Common: objstore.Common{Role: "switch.light"},
	})
	store.putState("hue.0.light2.on", objstore.StateValue{Val: true, TS: 1, LC: 1})
	store.putObject(objstore.ObjectEntry{
		ID: "enum.rooms.living", Kind: objstore.KindEnum,
		Common: objstore.Common{
			Name:    objstore.NewText("Living Room"),
			Members: []string{"zigbee.0.dev1"},
		},
	})

	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")
	snap := loadSnap(t, store)

	all := b.Build(context.Background(), snap, "")
	if len(all) != 2 {
		t.Fatalf("unfiltered: got %d devices, want 2", len(all))
	}

	living := b.Build(context.Background(), snap, "Living Room")
	if len(living) != 1 || living[0].ID != "device:zigbee.0.dev1" {
		t.Fatalf("room filter: got %+v", living)
	}
	if living[0].Room != "Living Room" {
		t.Errorf("room annotation = %q", living[0].Room)
	}

	none := b.Build(context.Background(), snap, "Nonexistent")
	if len(none) != 0 {
		t.Errorf("nonexistent room: got %d devices, want 0", len(none))
	}
}

func TestBuildPartialEnrichmentFailure(t *testing.T) {
	store := newMockStore()
	seedSensor(store)
	store.failStates["zigbee.0.dev1.humidity"] = fmt.Errorf("connection reset")

	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")
	devices := b.Build(context.Background(), loadSnap(t, store), "")
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}

	states := devices[0].States
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2 (failure must not drop the record)", len(states))
	}
	var failed, ok int
	for _, s := range states {
		if s.Error != "" {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 1 {
		t.Errorf("failed=%d ok=%d, want 1/1", failed, ok)
	}
}

func TestBuildNeverWrittenStateIsNullNotError(t *testing.T) {
	store := newMockStore()
	store.putObject(objstore.ObjectEntry{ID: "zwave.0.node3", Kind: objstore.KindDevice})
	store.putObject(objstore.ObjectEntry{
		ID: "zwave.0.node3.motion", Kind: objstore.KindState,
		Common: objstore.Common{Role: "sensor.motion"},
	})

	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")
	devices := b.Build(context.Background(), loadSnap(t, store), "")
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	s := devices[0].States[0]
	if s.Error != "" {
		t.Errorf("never-written state must not be an error: %q", s.Error)
	}
	if s.Value != nil {
		t.Errorf("value = %v, want nil", s.Value)
	}
}

func TestBuildOrderIsStable(t *testing.T) {
	store := newMockStore()
	seedSensor(store)
	store.putObject(objstore.ObjectEntry{ID: "alpha.0.devA", Kind: objstore.KindChannel})
	store.putObject(objstore.ObjectEntry{
		ID: "alpha.0.devA.on", Kind: objstore.KindState,
		Common: objstore.Common{Role: "switch"},
	})
	store.putState("alpha.0.devA.on", objstore.StateValue{Val: false, TS: 1, LC: 1})

	b := NewBuilder(store, classify.NewRoleClassifier(), "en", "")
	snap := loadSnap(t, store)

	first := b.Build(context.Background(), snap, "")
	if first[0].ID != "device:alpha.0.devA" {
		t.Errorf("expected sorted emission order, got %s first", first[0].ID)
	}
	for i := 0; i < 5; i++ {
		again := b.Build(context.Background(), snap, "")
		if !reflect.DeepEqual(again, first) {
			t.Fatal("repeated Build on unchanged snapshot differs")
		}
	}
}

func TestGroupID(t *testing.T) {
	if got := GroupID("device:zigbee.0.dev1"); got != "zigbee.0.dev1" {
		t.Errorf("GroupID = %q", got)
	}
	if got := GroupID("zigbee.0.dev1"); got != "zigbee.0.dev1" {
		t.Errorf("GroupID without prefix = %q", got)
	}
}
