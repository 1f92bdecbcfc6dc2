package influxdb

import (
	"encoding/json"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// stateMeasurement is the measurement name for mirrored state writes.
const stateMeasurement = "state_writes"

// RecordStateWrite mirrors an accepted state write as a time-series point.
//
// This satisfies the executor's WriteMirror interface. The write is
// non-blocking; points are batched and sent asynchronously. Calls on a
// closed or disconnected client are dropped silently.
//
// Parameters:
//   - id: Dot-delimited state ID (e.g., "hue.0.light1.on")
//   - val: The written value (bool, number, string, or structured JSON)
//   - ack: Whether the write carried the acknowledged flag
func (c *Client) RecordStateWrite(id string, val any, ack bool) {
	if !c.IsConnected() {
		return
	}

	fields := valueFields(val)
	fields["ack"] = ack

	point := write.NewPoint(
		stateMeasurement,
		map[string]string{
			"object_id": id,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// valueFields maps a state value onto typed InfluxDB fields. A field per
// JSON type keeps the schema stable; mixing types in one field would make
// Influx reject points once the first type is established.
func valueFields(val any) map[string]any {
	switch v := val.(type) {
	case nil:
		return map[string]any{"value_null": true}
	case bool:
		return map[string]any{"value_bool": v}
	case float64:
		return map[string]any{"value": v}
	case float32:
		return map[string]any{"value": float64(v)}
	case int:
		return map[string]any{"value": float64(v)}
	case int64:
		return map[string]any{"value": float64(v)}
	case string:
		return map[string]any{"value_str": v}
	default:
		// Objects and arrays are stored as their JSON encoding.
		encoded, err := json.Marshal(v)
		if err != nil {
			return map[string]any{"value_str": "unencodable"}
		}
		return map[string]any{"value_json": string(encoded)}
	}
}
