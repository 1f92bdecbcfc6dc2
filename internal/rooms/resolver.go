// Package rooms resolves room and function enumerations from a namespace
// snapshot.
//
// Rooms are enum entries namespaced under "enum.rooms"; each carries a
// membership list of identifiers. Membership is hierarchical: a member covers
// all of its descendants, so "zigbee.0.dev1" in a room places
// "zigbee.0.dev1.temperature" in that room as well.
package rooms

import (
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// Enumeration namespace prefixes.
const (
	RoomPrefix     = "enum.rooms"
	FunctionPrefix = "enum.functions"
)

// Resolver answers membership queries for one enumeration namespace over one
// snapshot. It is cheap to build and discarded with the snapshot.
type Resolver struct {
	lang     string
	fallback string
	// enums in lexicographic identifier order. Name ties between two enums
	// therefore resolve to the smallest identifier, deterministically.
	enums []objstore.ObjectEntry
}

// New indexes the enum entries of snap under the given prefix
// ("enum.rooms", "enum.functions").
//
// Parameters:
//   - snap: Namespace snapshot to index
//   - prefix: Enumeration namespace prefix
//   - lang: Preferred display language
//   - fallback: Second fallback language after English
func New(snap objstore.Snapshot, prefix, lang, fallback string) *Resolver {
	r := &Resolver{lang: lang, fallback: fallback}
	for _, id := range snap.SortedIDs() {
		entry := snap[id]
		if entry.Kind != objstore.KindEnum || !objstore.Contains(prefix, id) || id == prefix {
			continue
		}
		r.enums = append(r.enums, entry)
	}
	return r
}

// Members returns the membership set of the first enumeration whose display
// name matches the given name case-insensitively. Every localised variant of
// an entry's name is checked, not only the resolved one. Returns nil when no
// enumeration matches.
func (r *Resolver) Members(name string) map[string]struct{} {
	for _, e := range r.enums {
		if !nameMatches(e, name) {
			continue
		}
		set := make(map[string]struct{}, len(e.Common.Members))
		for _, m := range e.Common.Members {
			set[m] = struct{}{}
		}
		return set
	}
	return nil
}

// NameOf returns the resolved display name of the first enumeration covering
// the given identifier (prefix-containment over members), or ok=false when
// none does.
func (r *Resolver) NameOf(id string) (string, bool) {
	for _, e := range r.enums {
		for _, m := range e.Common.Members {
			if objstore.Contains(m, id) {
				return r.displayName(e), true
			}
		}
	}
	return "", false
}

// Covers reports whether a grouping identifier belongs to a membership set.
// The test accepts an exact member match, any ancestor/descendant
// relationship with a member, or a member under the same parent group —
// classification must not lose a device merely because the enumeration
// lists a sibling state instead of the group itself.
func Covers(members map[string]struct{}, id string) bool {
	if members == nil {
		return false
	}
	if _, ok := members[id]; ok {
		return true
	}
	parent := objstore.Parent(id)
	for m := range members {
		if objstore.Related(m, id) {
			return true
		}
		if parent != "" && objstore.Parent(m) == parent {
			return true
		}
	}
	return false
}

// displayName resolves an enumeration's display name, falling back to the
// last identifier segment when no name is set.
func (r *Resolver) displayName(e objstore.ObjectEntry) string {
	if name := e.Common.Name.Resolve(r.lang, r.fallback); name != "" {
		return name
	}
	if i := strings.LastIndexByte(e.ID, '.'); i >= 0 {
		return e.ID[i+1:]
	}
	return e.ID
}

// nameMatches reports whether any localised variant of the entry's name (or
// its identifier tail) equals name case-insensitively.
func nameMatches(e objstore.ObjectEntry, name string) bool {
	for _, v := range e.Common.Name.Variants() {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	if i := strings.LastIndexByte(e.ID, '.'); i >= 0 {
		return strings.EqualFold(e.ID[i+1:], name)
	}
	return false
}
