package classify

import (
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// Control is one typed function surface detected on a grouping entry.
type Control struct {
	// Type is the primary type tag ("light", "temperature", …). Empty for
	// the catch-all control holding states no rule claimed.
	Type string
	// States lists the contributing state identifiers in deterministic
	// (sorted) order.
	States []string
}

// Classifier detects typed controls on a grouping entry.
//
// Implementations must be pure and side-effect free: the same snapshot and
// identifier always yield the same controls.
type Classifier interface {
	Classify(snap objstore.Snapshot, id string) []Control
}

// roleRule maps state roles onto a control type. Matching is by exact role
// or by role prefix (trailing dot).
type roleRule struct {
	controlType string
	roles       []string
}

// roleRules in precedence order: the first rule with any matching state
// becomes the device's primary control. Actuators outrank sensors so a
// dimmable light with a power meter classifies as a dimmer, not a meter.
var roleRules = []roleRule{
	{"dimmer", []string{"level.dimmer", "level.brightness"}},
	{"light", []string{"switch.light", "switch"}},
	{"blind", []string{"level.blind", "level.tilt", "switch.blind"}},
	{"lock", []string{"switch.lock", "lock."}},
	{"thermostat", []string{"level.temperature", "thermo."}},
	{"media", []string{"media.", "button.play", "button.pause"}},
	{"temperature", []string{"value.temperature"}},
	{"humidity", []string{"value.humidity"}},
	{"motion", []string{"sensor.motion"}},
	{"contact", []string{"sensor.door", "sensor.window", "sensor.contact"}},
	{"smoke", []string{"sensor.alarm.fire", "sensor.smoke"}},
	{"leak", []string{"sensor.alarm.flood", "sensor.leak"}},
	{"powerMeter", []string{"value.power", "value.energy", "value.current", "value.voltage"}},
	{"battery", []string{"value.battery", "indicator.lowbat"}},
	{"button", []string{"button"}},
	{"sensor", []string{"sensor."}},
}

// RoleClassifier classifies grouping entries by the roles of their
// descendant states.
type RoleClassifier struct{}

// NewRoleClassifier returns the default role-based classifier.
func NewRoleClassifier() *RoleClassifier {
	return &RoleClassifier{}
}

// Classify collects the state entries beneath id and partitions them by role
// rule. Rules are visited in precedence order; every matching rule yields a
// control. States no rule claims end up in a trailing untyped control so
// they still attach to the device.
func (c *RoleClassifier) Classify(snap objstore.Snapshot, id string) []Control {
	states := descendantStates(snap, id)
	if len(states) == 0 {
		return nil
	}

	claimed := make(map[string]bool, len(states))
	var controls []Control
	for _, rule := range roleRules {
		var matched []string
		for _, sid := range states {
			if claimed[sid] {
				continue
			}
			if roleMatches(rule, snap[sid].Common.Role) {
				matched = append(matched, sid)
			}
		}
		if len(matched) > 0 {
			for _, sid := range matched {
				claimed[sid] = true
			}
			controls = append(controls, Control{Type: rule.controlType, States: matched})
		}
	}

	var rest []string
	for _, sid := range states {
		if !claimed[sid] {
			rest = append(rest, sid)
		}
	}
	if len(rest) > 0 {
		controls = append(controls, Control{States: rest})
	}
	return controls
}

// descendantStates returns the state-kind identifiers beneath id in sorted
// order, the group itself included when it is a state.
func descendantStates(snap objstore.Snapshot, id string) []string {
	var out []string
	for _, sid := range snap.SortedIDs() {
		if snap[sid].Kind != objstore.KindState {
			continue
		}
		if objstore.Contains(id, sid) {
			out = append(out, sid)
		}
	}
	return out
}

func roleMatches(rule roleRule, role string) bool {
	if role == "" {
		return false
	}
	for _, r := range rule.roles {
		if strings.HasSuffix(r, ".") {
			if strings.HasPrefix(role, r) || role == strings.TrimSuffix(r, ".") {
				return true
			}
			continue
		}
		if role == r {
			return true
		}
	}
	return false
}
