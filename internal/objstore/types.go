package objstore

import (
	"context"
	"strings"
	"time"
)

// ObjectKind classifies a namespace entry.
type ObjectKind string

// Object kinds handled by the gateway.
const (
	// KindState is an individually addressed data point with a live value.
	KindState ObjectKind = "state"
	// KindChannel groups related states under a common identifier prefix.
	KindChannel ObjectKind = "channel"
	// KindDevice groups channels/states belonging to one physical device.
	KindDevice ObjectKind = "device"
	// KindEnum is a named membership set (rooms, functions).
	KindEnum ObjectKind = "enum"
	// KindInstance is a running adapter instance entry.
	KindInstance ObjectKind = "instance"
	// KindHost is a host entry carrying platform metadata.
	KindHost ObjectKind = "host"
)

// Common holds the kind-independent metadata shared by all entries.
type Common struct {
	Name LocalizedText `json:"name"`
	Role string        `json:"role,omitempty"`
	Unit string        `json:"unit,omitempty"`
	// Type is the declared value type of a state ("number", "string",
	// "boolean", "mixed").
	Type string `json:"type,omitempty"`
	// Members lists the identifiers belonging to an enum entry.
	Members []string `json:"members,omitempty"`
}

// ObjectEntry is the static metadata for one entry of the object namespace.
type ObjectEntry struct {
	ID     string         `json:"id"`
	Kind   ObjectKind     `json:"kind"`
	Common Common         `json:"common"`
	Native map[string]any `json:"native,omitempty"`
}

// NativeString performs a capability-checked lookup of a string field in the
// loosely typed Native metadata. Absent or non-string values report ok=false
// rather than failing.
func (e ObjectEntry) NativeString(key string) (string, bool) {
	if e.Native == nil {
		return "", false
	}
	v, ok := e.Native[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Tag returns the leading namespace segment of the entry's identifier,
// conventionally the originating adapter/source name ("zigbee" for
// "zigbee.0.dev1").
func (e ObjectEntry) Tag() string {
	return Namespace(e.ID)
}

// StateValue is the live value triple for a state identifier.
// Timestamps are unix milliseconds.
type StateValue struct {
	Val any   `json:"val"`
	Ack bool  `json:"ack"`
	TS  int64 `json:"ts"`
	LC  int64 `json:"lc"`
}

// LogEntry is one normalised host log record.
type LogEntry struct {
	TS       int64  `json:"ts"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
	Host     string `json:"host"`
}

// LogQuery filters a host log retrieval at the store boundary.
type LogQuery struct {
	// From excludes records older than this unix-millisecond timestamp.
	// Zero means no lower bound.
	From int64
	// Source restricts records to one adapter/source. Empty means all.
	Source string
	// Limit caps the number of returned records. Zero means store default.
	Limit int
}

// Store is the boundary to the external object/state store.
//
// All calls are individually failable; absent entries are reported as
// ErrNotFound, infrastructure failures as other errors. Implementations must
// be safe for concurrent use.
type Store interface {
	// ObjectsByKind returns all entries of one kind keyed by identifier.
	ObjectsByKind(ctx context.Context, kind ObjectKind) (map[string]ObjectEntry, error)

	// Object returns a single entry by identifier.
	Object(ctx context.Context, id string) (ObjectEntry, error)

	// ObjectsByPattern returns all entries whose identifier matches the
	// glob-style pattern ("system.adapter.*"). A single trailing or embedded
	// '*' wildcard is supported.
	ObjectsByPattern(ctx context.Context, pattern string) (map[string]ObjectEntry, error)

	// State returns the live value for a state identifier.
	State(ctx context.Context, id string) (StateValue, error)

	// SetState writes a live value. The write is fire-once: no retry and no
	// transactional coupling with any other operation.
	SetState(ctx context.Context, id string, val any, ack bool) error

	// HostLogs queries the host log ring.
	HostLogs(ctx context.Context, q LogQuery) ([]LogEntry, error)
}

// Contains reports whether id lies within the subtree rooted at root: equal
// identifiers match, as does any identifier prefixed by root plus a dot.
func Contains(root, id string) bool {
	if root == id {
		return true
	}
	return strings.HasPrefix(id, root+".")
}

// Related reports whether two identifiers are in an ancestor/descendant
// relationship in either direction.
func Related(a, b string) bool {
	return Contains(a, b) || Contains(b, a)
}

// Parent returns the identifier with its last segment removed, or "" when
// there is no dot.
func Parent(id string) string {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return ""
	}
	return id[:i]
}

// Namespace returns the leading segment of an identifier ("zigbee" for
// "zigbee.0.dev1"), or the identifier itself when it has no dot.
func Namespace(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// MatchPattern reports whether an identifier matches a glob-style pattern
// with '*' wildcards. Used by Store implementations for bulk pattern reads.
func MatchPattern(pattern, id string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == id
	}
	if !strings.HasPrefix(id, parts[0]) {
		return false
	}
	rest := id[len(parts[0]):]
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return strings.HasSuffix(rest, parts[len(parts)-1])
}

// NowMillis returns the current time as unix milliseconds, the timestamp unit
// used throughout the live value model.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
