// Package sqlitestore provides a SQLite-backed implementation of
// objstore.Store for standalone installations and tests.
//
// The external object/state store is normally a separate system; this
// backend lets the gateway run self-contained by holding the namespace in a
// local SQLite file (or ":memory:" for tests). Object metadata, live values
// and host logs live in three tables:
//
//	objects(id, kind, common, native)
//	states(id, val, ack, ts, lc)
//	host_logs(ts, severity, source, message, host)
//
// common, native and val are stored as JSON text. The schema is applied on
// Open with CREATE TABLE IF NOT EXISTS, so the file can be seeded externally
// or populated through PutObject/AppendLog.
package sqlitestore
