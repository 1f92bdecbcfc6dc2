package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
	"github.com/nerrad567/gray-logic-objgw/internal/rooms"
)

// SearchParams filter the search_objects operation. All filters are
// conjunctive; empty fields are inactive.
type SearchParams struct {
	// Query is a case-insensitive substring match on the identifier.
	Query string `json:"query"`
	// Role must match the state's role exactly.
	Role string `json:"role"`
	// Room restricts matches to members of that room enumeration.
	Room  string `json:"room"`
	Limit int    `json:"limit"`
}

// ObjectMatch is one search_objects result entry.
type ObjectMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	Unit string `json:"unit,omitempty"`
	Room string `json:"room,omitempty"`
}

// SearchObjects filters state-kind entries by identifier substring, exact
// role, and room membership. Accumulation stops as soon as the limit is
// reached — results are not exhaustive beyond that point.
func (e *Executor) SearchObjects(ctx context.Context, p SearchParams) ([]ObjectMatch, error) {
	snap, err := objstore.LoadSnapshot(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	roomResolver := rooms.New(snap, rooms.RoomPrefix, e.lang, e.fallback)
	var roomMembers map[string]struct{}
	if p.Room != "" {
		roomMembers = roomResolver.Members(p.Room)
		if roomMembers == nil {
			return []ObjectMatch{}, nil
		}
	}

	needle := strings.ToLower(p.Query)
	matches := []ObjectMatch{}
	for _, id := range snap.SortedIDsByKind(objstore.KindState) {
		entry := snap[id]
		if needle != "" && !strings.Contains(strings.ToLower(id), needle) {
			continue
		}
		if p.Role != "" && entry.Common.Role != p.Role {
			continue
		}
		if roomMembers != nil && !withinMembers(roomMembers, id) {
			continue
		}

		m := ObjectMatch{
			ID:   id,
			Name: resolveName(entry, e.lang, e.fallback),
			Role: entry.Common.Role,
			Unit: entry.Common.Unit,
		}
		if room, ok := roomResolver.NameOf(id); ok {
			m.Room = room
		}
		matches = append(matches, m)
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// withinMembers reports whether any member covers id by prefix containment.
// Unlike the grouping test in the device builder, search has no
// common-parent widening: a state is in a room only if it or an ancestor is
// listed.
func withinMembers(members map[string]struct{}, id string) bool {
	if _, ok := members[id]; ok {
		return true
	}
	for m := range members {
		if objstore.Contains(m, id) {
			return true
		}
	}
	return false
}

// resolveName resolves an entry's display name, falling back to the last
// identifier segment.
func resolveName(entry objstore.ObjectEntry, lang, fallback string) string {
	if name := entry.Common.Name.Resolve(lang, fallback); name != "" {
		return name
	}
	if i := strings.LastIndexByte(entry.ID, '.'); i >= 0 {
		return entry.ID[i+1:]
	}
	return entry.ID
}
