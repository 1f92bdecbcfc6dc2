package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nerrad567/gray-logic-objgw/internal/classify"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
	"github.com/nerrad567/gray-logic-objgw/internal/query"
)

// stubStore is a minimal objstore.Store for dispatcher tests.
type stubStore struct {
	objects map[string]objstore.ObjectEntry
	states  map[string]objstore.StateValue
}

func newStubStore() *stubStore {
	return &stubStore{
		objects: make(map[string]objstore.ObjectEntry),
		states:  make(map[string]objstore.StateValue),
	}
}

func (s *stubStore) ObjectsByKind(_ context.Context, kind objstore.ObjectKind) (map[string]objstore.ObjectEntry, error) {
	out := make(map[string]objstore.ObjectEntry)
	for id, e := range s.objects {
		if e.Kind == kind {
			out[id] = e
		}
	}
	return out, nil
}

func (s *stubStore) Object(_ context.Context, id string) (objstore.ObjectEntry, error) {
	if e, ok := s.objects[id]; ok {
		return e, nil
	}
	return objstore.ObjectEntry{}, objstore.ErrNotFound
}

func (s *stubStore) ObjectsByPattern(_ context.Context, pattern string) (map[string]objstore.ObjectEntry, error) {
	out := make(map[string]objstore.ObjectEntry)
	for id, e := range s.objects {
		if objstore.MatchPattern(pattern, id) {
			out[id] = e
		}
	}
	return out, nil
}

func (s *stubStore) State(_ context.Context, id string) (objstore.StateValue, error) {
	if sv, ok := s.states[id]; ok {
		return sv, nil
	}
	return objstore.StateValue{}, objstore.ErrNotFound
}

func (s *stubStore) SetState(_ context.Context, id string, val any, ack bool) error {
	now := objstore.NowMillis()
	s.states[id] = objstore.StateValue{Val: val, Ack: ack, TS: now, LC: now}
	return nil
}

func (s *stubStore) HostLogs(_ context.Context, _ objstore.LogQuery) ([]objstore.LogEntry, error) {
	return nil, nil
}

func newTestDispatcher(store objstore.Store) *Dispatcher {
	exec := query.New(store, classify.NewRoleClassifier(), "en", "")
	return New(exec, logging.Discard())
}

func TestDispatchUnknownMethod(t *testing.T) {
	d := newTestDispatcher(newStubStore())

	env := d.Dispatch(context.Background(), "bogus_method", json.RawMessage(`{}`))
	if env.OK {
		t.Fatal("unknown method must fail")
	}
	if env.Error != "Unknown method: bogus_method" {
		t.Errorf("error = %q", env.Error)
	}
	if env.Data != nil {
		t.Errorf("failure envelope must carry no data, got %v", env.Data)
	}
}

func TestDispatchMissingMethod(t *testing.T) {
	d := newTestDispatcher(newStubStore())

	env := d.Dispatch(context.Background(), "", nil)
	if env.OK {
		t.Fatal("empty method must fail")
	}
	if env.Error != "Missing required parameter: method" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestDispatchListDevices(t *testing.T) {
	store := newStubStore()
	store.objects["zigbee.0.dev1"] = objstore.ObjectEntry{ID: "zigbee.0.dev1", Kind: objstore.KindDevice}
	store.objects["zigbee.0.dev1.temperature"] = objstore.ObjectEntry{
		ID: "zigbee.0.dev1.temperature", Kind: objstore.KindState,
		Common: objstore.Common{Role: "value.temperature"},
	}
	store.states["zigbee.0.dev1.temperature"] = objstore.StateValue{Val: 21.5, TS: 1, LC: 1}

	d := newTestDispatcher(store)
	env := d.Dispatch(context.Background(), "list_devices", nil)
	if !env.OK {
		t.Fatalf("list_devices failed: %s", env.Error)
	}
	result, ok := env.Data.(query.ListDevicesResult)
	if !ok {
		t.Fatalf("data has type %T", env.Data)
	}
	if result.Total != 1 || len(result.Devices) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestDispatchGetStatesValidation(t *testing.T) {
	d := newTestDispatcher(newStubStore())
	ctx := context.Background()

	for _, params := range []string{``, `{}`, `{"ids": []}`} {
		env := d.Dispatch(ctx, "get_states", json.RawMessage(params))
		if env.OK {
			t.Errorf("params %q: expected validation failure", params)
		}
		if env.Error != "Missing required parameter: ids" {
			t.Errorf("params %q: error = %q", params, env.Error)
		}
	}
}

func TestDispatchSetState(t *testing.T) {
	store := newStubStore()
	d := newTestDispatcher(store)
	ctx := context.Background()

	env := d.Dispatch(ctx, "set_state", json.RawMessage(`{"id":"hue.0.light1.on","value":true,"ack":true}`))
	if !env.OK {
		t.Fatalf("set_state failed: %s", env.Error)
	}
	echo, ok := env.Data.(query.SetStateResult)
	if !ok {
		t.Fatalf("data has type %T", env.Data)
	}
	if echo.ID != "hue.0.light1.on" || echo.Value != true {
		t.Errorf("echo = %+v", echo)
	}

	sv := store.states["hue.0.light1.on"]
	if sv.Val != true || !sv.Ack {
		t.Errorf("stored = %+v", sv)
	}
}

func TestDispatchSetStateValidation(t *testing.T) {
	d := newTestDispatcher(newStubStore())
	ctx := context.Background()

	env := d.Dispatch(ctx, "set_state", json.RawMessage(`{"value":1}`))
	if env.OK || env.Error != "Missing required parameter: id" {
		t.Errorf("missing id: env = %+v", env)
	}

	env = d.Dispatch(ctx, "set_state", json.RawMessage(`{"id":"a.0.x"}`))
	if env.OK || env.Error != "Missing required parameter: value" {
		t.Errorf("missing value: env = %+v", env)
	}

	// An explicit null is a present value, not a missing one.
	env = d.Dispatch(ctx, "set_state", json.RawMessage(`{"id":"a.0.x","value":null}`))
	if !env.OK {
		t.Errorf("null value: env = %+v", env)
	}
}

func TestDispatchMalformedParams(t *testing.T) {
	d := newTestDispatcher(newStubStore())

	env := d.Dispatch(context.Background(), "list_devices", json.RawMessage(`{"limit":"ten"}`))
	if env.OK {
		t.Fatal("malformed params must fail")
	}
	if got := env.Error; len(got) < len("Malformed parameters") || got[:len("Malformed parameters")] != "Malformed parameters" {
		t.Errorf("error = %q", got)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := newTestDispatcher(newStubStore())
	d.methods["explode"] = func(context.Context, json.RawMessage) (any, error) {
		panic("kaboom")
	}

	env := d.Dispatch(context.Background(), "explode", nil)
	if env.OK {
		t.Fatal("panicking method must yield a failure envelope")
	}
	if env.Error != "Internal error" || env.Message != "kaboom" {
		t.Errorf("env = %+v", env)
	}
}

func TestDispatchServerError(t *testing.T) {
	d := newTestDispatcher(newStubStore())
	d.methods["fail"] = func(context.Context, json.RawMessage) (any, error) {
		return nil, fmt.Errorf("store offline")
	}

	env := d.Dispatch(context.Background(), "fail", nil)
	if env.OK || env.Error != "store offline" {
		t.Errorf("env = %+v", env)
	}
}

func TestDispatchEnvelopeMarshals(t *testing.T) {
	d := newTestDispatcher(newStubStore())

	env := d.Dispatch(context.Background(), "system_info", nil)
	// No host entry registered, so this fails server-side; either way the
	// envelope must marshal cleanly.
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := decoded["ok"]; !present {
		t.Error("envelope must always carry ok")
	}
}

func TestMethods(t *testing.T) {
	d := newTestDispatcher(newStubStore())
	names := d.Methods()
	want := []string{
		"get_logs", "get_states", "list_adapters", "list_devices",
		"search_objects", "set_state", "system_info",
	}
	if len(names) != len(want) {
		t.Fatalf("methods = %v", names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("methods[%d] = %q, want %q", i, names[i], name)
		}
	}
}
