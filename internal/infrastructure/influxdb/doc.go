// Package influxdb mirrors accepted state writes into InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with the gateway's
// patterns for connection management, point writing, and health monitoring.
//
// # Purpose
//
// The gateway's object store is a live snapshot; it has no history. When
// InfluxDB is enabled, every accepted set_state write is mirrored as a
// time-series point so value changes can be charted and audited later.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "objgw",
//	    Bucket:  "state_history",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	executor.SetMirror(client)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size,
// flush_interval). A state write never blocks on the network.
package influxdb
