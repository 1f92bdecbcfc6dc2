// Package query implements the gateway's query operations against the
// external object/state store.
//
// Every operation recomputes its view from the store's current content —
// there is no cache and no staleness window beyond the snapshot load of the
// call itself. Operations follow two failure disciplines: batch operations
// (get states, device enrichment, adapter liveness) isolate per-item
// failures into the affected record, while system info fails as a whole
// because a partial answer would be meaningless.
package query
