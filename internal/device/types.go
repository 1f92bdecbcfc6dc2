package device

// IDPrefix marks synthetic device identifiers derived from grouping entries:
// "device:zigbee.0.dev1" for the group "zigbee.0.dev1".
const IDPrefix = "device:"

// TypeUnknown is the classified type of a device whose primary control
// carries no type tag.
const TypeUnknown = "unknown"

// Device is the derived view of one grouping entry. It is computed fresh per
// query and has no identity or lifecycle beyond the query that produced it.
type Device struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Room   string        `json:"room,omitempty"`
	Type   string        `json:"type"`
	Vendor *string       `json:"vendor,omitempty"`
	Model  *string       `json:"model,omitempty"`
	Roles  []string      `json:"roles"`
	States []DeviceState `json:"states"`
	// Tags holds the leading namespace segment of the grouping identifier,
	// conventionally the originating adapter name.
	Tags []string `json:"tags,omitempty"`
}

// DeviceState combines a state's static metadata with its current live
// value.
type DeviceState struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Unit     string `json:"unit,omitempty"`
	DataType string `json:"datatype,omitempty"`
	Value    any    `json:"value"`
	Ack      bool   `json:"ack"`
	TS       int64  `json:"ts"`
	// LC is present only when the last-change timestamp differs from the
	// last-update timestamp; an equal value would be redundant payload.
	LC *int64 `json:"lc,omitempty"`
	// Error carries the failure reason when fetching this state's live
	// value failed. The rest of the device is unaffected.
	Error string `json:"error,omitempty"`
}

// GroupID strips the synthetic prefix from a device identifier, returning
// the grouping entry identifier it was derived from.
func GroupID(deviceID string) string {
	if len(deviceID) > len(IDPrefix) && deviceID[:len(IDPrefix)] == IDPrefix {
		return deviceID[len(IDPrefix):]
	}
	return deviceID
}
