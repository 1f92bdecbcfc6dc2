// Package device computes the logical device view of the object namespace.
//
// The namespace itself has no "this is one device" marker: it is a flat set
// of states, channels, devices and enumerations. This package infers device
// identity by iterating grouping entries (channel/device kind), classifying
// each through the classify capability, annotating room membership, and
// enriching the attached states with their current live values.
//
// # Architecture
//
//	Snapshot (objstore.LoadSnapshot)
//	    │
//	    ▼
//	Builder.Build ──▶ classify.Classifier (typed controls per grouping entry)
//	    │
//	    ├──▶ rooms.Resolver (room filter + room annotation)
//	    │
//	    └──▶ enrichment   (objstore.Store.State per attached identifier)
//	    ▼
//	[]Device (pure view, recomputed per query, no storage or lifecycle)
//
// # Invariants
//
//   - A device appears only when its enriched state list is non-empty.
//   - Emission order follows sorted grouping identifiers, so a fixed
//     snapshot always yields the same list.
//   - Pagination is the caller's concern and always slices the fully built,
//     room-filtered list; classification always sees the complete
//     attached-state set.
//   - One failing live-value fetch marks only that state's record; the
//     remaining states and devices are unaffected.
package device
