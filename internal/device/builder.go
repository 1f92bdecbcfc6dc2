package device

import (
	"context"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/classify"
	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
	"github.com/nerrad567/gray-logic-objgw/internal/rooms"
)

// Builder assembles the device view from a namespace snapshot.
//
// A Builder is cheap and stateless between calls; the store is only touched
// for live-value enrichment.
type Builder struct {
	store      objstore.Store
	classifier classify.Classifier
	lang       string
	fallback   string
}

// NewBuilder creates a Builder.
//
// Parameters:
//   - store: Live value source for enrichment
//   - classifier: Classification capability (see classify package)
//   - lang: Preferred display language
//   - fallback: Second fallback language after English
func NewBuilder(store objstore.Store, classifier classify.Classifier, lang, fallback string) *Builder {
	return &Builder{store: store, classifier: classifier, lang: lang, fallback: fallback}
}

// Build computes the ordered device list for a snapshot.
//
// When roomFilter is non-empty, grouping entries outside that room's
// membership are skipped before any classification work; a room name that
// matches no enumeration yields an empty list, not an error. Pagination is
// not applied here — callers slice the returned list.
func (b *Builder) Build(ctx context.Context, snap objstore.Snapshot, roomFilter string) []Device {
	roomResolver := rooms.New(snap, rooms.RoomPrefix, b.lang, b.fallback)

	var filterMembers map[string]struct{}
	if roomFilter != "" {
		filterMembers = roomResolver.Members(roomFilter)
		if filterMembers == nil {
			return []Device{}
		}
	}

	devices := []Device{}
	for _, id := range snap.SortedIDsByKind(objstore.KindChannel, objstore.KindDevice) {
		if filterMembers != nil && !rooms.Covers(filterMembers, id) {
			continue
		}

		dev, ok := b.buildOne(ctx, snap, roomResolver, id)
		if !ok {
			continue
		}
		devices = append(devices, dev)
	}
	return devices
}

// buildOne assembles a single device from a grouping entry. Reports ok=false
// when classification yields nothing or no attached identifier resolves to a
// state entry.
func (b *Builder) buildOne(ctx context.Context, snap objstore.Snapshot, roomResolver *rooms.Resolver, id string) (Device, bool) {
	controls := b.classifier.Classify(snap, id)
	if len(controls) == 0 {
		return Device{}, false
	}

	// The first control names the device type; the attached-state set unions
	// across all controls. The asymmetry is deliberate and load-bearing:
	// secondary control types are discarded, their states are not.
	devType := controls[0].Type
	if devType == "" {
		devType = TypeUnknown
	}

	var attached []string
	seen := make(map[string]bool)
	for _, c := range controls {
		for _, sid := range c.States {
			if !seen[sid] {
				seen[sid] = true
				attached = append(attached, sid)
			}
		}
	}

	states := b.enrichStates(ctx, snap, attached)
	if len(states) == 0 {
		return Device{}, false
	}

	entry := snap[id]
	dev := Device{
		ID:     IDPrefix + id,
		Name:   b.displayName(entry),
		Type:   devType,
		Roles:  collectRoles(states),
		States: states,
		Tags:   []string{entry.Tag()},
	}
	if room, ok := roomResolver.NameOf(id); ok {
		dev.Room = room
	}
	if vendor, ok := firstNativeString(entry, "vendor", "manufacturer"); ok {
		dev.Vendor = &vendor
	}
	if model, ok := firstNativeString(entry, "model", "product"); ok {
		dev.Model = &model
	}
	return dev, true
}

// displayName resolves an entry's name with the fixed fallback order,
// ending at the last identifier segment.
func (b *Builder) displayName(entry objstore.ObjectEntry) string {
	if name := entry.Common.Name.Resolve(b.lang, b.fallback); name != "" {
		return name
	}
	if i := strings.LastIndexByte(entry.ID, '.'); i >= 0 {
		return entry.ID[i+1:]
	}
	return entry.ID
}

// collectRoles unions the roles of the enriched states in insertion order.
func collectRoles(states []DeviceState) []string {
	roles := []string{}
	seen := make(map[string]bool)
	for _, s := range states {
		if s.Role == "" || seen[s.Role] {
			continue
		}
		seen[s.Role] = true
		roles = append(roles, s.Role)
	}
	return roles
}

// firstNativeString returns the first present string field among keys.
func firstNativeString(entry objstore.ObjectEntry, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := entry.NativeString(k); ok {
			return v, true
		}
	}
	return "", false
}
