// Package objstore defines the object/state namespace model consumed by the
// Gray Logic Object Gateway and the Store interface over the external store
// that holds it.
//
// The namespace is flat: every entry is addressed by a dot-delimited
// hierarchical identifier such as "zigbee.0.0x00158d0001a2b3c4.temperature".
// Hierarchy is implicit — A is a descendant of B iff A's identifier equals
// B's or starts with B's identifier followed by a dot. Entries carry a kind
// (state, channel, device, enum, instance, host), a display name that may be
// localised per language, and kind-specific metadata.
//
// Live values (value, acknowledged flag, timestamps) are stored separately
// from object metadata and fetched per state identifier.
//
// # Key Types
//
//   - ObjectEntry: static metadata for one namespace entry
//   - LocalizedText: display name as plain string or language map
//   - StateValue: current value/ack/timestamps for a state identifier
//   - Store: the external store boundary (bulk reads, single reads, writes,
//     host log queries)
//
// The gateway never persists anything of its own; every query recomputes its
// view from the current content of the Store.
package objstore
