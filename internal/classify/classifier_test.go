package classify

import (
	"reflect"
	"testing"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

func stateEntry(id, role string) objstore.ObjectEntry {
	return objstore.ObjectEntry{
		ID:     id,
		Kind:   objstore.KindState,
		Common: objstore.Common{Role: role},
	}
}

func TestClassifyTemperatureSensor(t *testing.T) {
	snap := objstore.Snapshot{
		"zigbee.0.dev1":             {ID: "zigbee.0.dev1", Kind: objstore.KindDevice},
		"zigbee.0.dev1.temperature": stateEntry("zigbee.0.dev1.temperature", "value.temperature"),
		"zigbee.0.dev1.humidity":    stateEntry("zigbee.0.dev1.humidity", "value.humidity"),
	}

	controls := NewRoleClassifier().Classify(snap, "zigbee.0.dev1")
	if len(controls) != 2 {
		t.Fatalf("got %d controls, want 2", len(controls))
	}
	if controls[0].Type != "temperature" {
		t.Errorf("first control type = %q, want temperature", controls[0].Type)
	}
	if !reflect.DeepEqual(controls[0].States, []string{"zigbee.0.dev1.temperature"}) {
		t.Errorf("temperature states = %v", controls[0].States)
	}
	if controls[1].Type != "humidity" {
		t.Errorf("second control type = %q, want humidity", controls[1].Type)
	}
}

func TestClassifyActuatorOutranksSensor(t *testing.T) {
	snap := objstore.Snapshot{
		"hue.0.light2":            {ID: "hue.0.light2", Kind: objstore.KindChannel},
		"hue.0.light2.on":         stateEntry("hue.0.light2.on", "switch.light"),
		"hue.0.light2.brightness": stateEntry("hue.0.light2.brightness", "level.dimmer"),
		"hue.0.light2.power":      stateEntry("hue.0.light2.power", "value.power"),
	}

	controls := NewRoleClassifier().Classify(snap, "hue.0.light2")
	if len(controls) < 2 {
		t.Fatalf("got %d controls", len(controls))
	}
	if controls[0].Type != "dimmer" {
		t.Errorf("primary control = %q, want dimmer", controls[0].Type)
	}

	// Every state attaches to exactly one control.
	seen := make(map[string]int)
	for _, c := range controls {
		for _, s := range c.States {
			seen[s]++
		}
	}
	if len(seen) != 3 {
		t.Errorf("%d distinct states claimed, want 3", len(seen))
	}
	for s, n := range seen {
		if n != 1 {
			t.Errorf("state %s claimed %d times", s, n)
		}
	}
}

func TestClassifyUnmatchedRolesGetUntypedControl(t *testing.T) {
	snap := objstore.Snapshot{
		"custom.0.thing":     {ID: "custom.0.thing", Kind: objstore.KindChannel},
		"custom.0.thing.foo": stateEntry("custom.0.thing.foo", "weird.role"),
	}

	controls := NewRoleClassifier().Classify(snap, "custom.0.thing")
	if len(controls) != 1 {
		t.Fatalf("got %d controls, want 1", len(controls))
	}
	if controls[0].Type != "" {
		t.Errorf("catch-all control type = %q, want empty", controls[0].Type)
	}
	if len(controls[0].States) != 1 {
		t.Errorf("catch-all states = %v", controls[0].States)
	}
}

func TestClassifyGroupWithoutStates(t *testing.T) {
	snap := objstore.Snapshot{
		"zigbee.0.empty": {ID: "zigbee.0.empty", Kind: objstore.KindDevice},
	}
	if controls := NewRoleClassifier().Classify(snap, "zigbee.0.empty"); controls != nil {
		t.Errorf("expected nil controls, got %v", controls)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	snap := objstore.Snapshot{
		"zigbee.0.dev1":       {ID: "zigbee.0.dev1", Kind: objstore.KindDevice},
		"zigbee.0.dev1.b":     stateEntry("zigbee.0.dev1.b", "value.temperature"),
		"zigbee.0.dev1.a":     stateEntry("zigbee.0.dev1.a", "value.temperature"),
		"zigbee.0.dev1.other": stateEntry("zigbee.0.dev1.other", "sensor.motion"),
	}

	first := NewRoleClassifier().Classify(snap, "zigbee.0.dev1")
	for i := 0; i < 5; i++ {
		if got := NewRoleClassifier().Classify(snap, "zigbee.0.dev1"); !reflect.DeepEqual(got, first) {
			t.Fatalf("classification not deterministic: %v vs %v", got, first)
		}
	}
	if !reflect.DeepEqual(first[0].States, []string{"zigbee.0.dev1.a", "zigbee.0.dev1.b"}) {
		t.Errorf("states not in sorted order: %v", first[0].States)
	}
}
