package mqtt

import "fmt"

// DefaultPrefix is the topic prefix used when none is configured.
const DefaultPrefix = "objgw"

// Topics builds the gateway's MQTT topic names under a configurable prefix.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{Prefix: "objgw"}
//	topics.RPCRequest("req-abc123")
//	// Returns: "objgw/rpc/request/req-abc123"
type Topics struct {
	Prefix string
}

// prefix returns the configured prefix, or DefaultPrefix when empty.
func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultPrefix
	}
	return t.Prefix
}

// RPCRequest returns the topic on which one RPC request arrives.
//
// Example: objgw/rpc/request/req-abc123
func (t Topics) RPCRequest(correlationID string) string {
	return fmt.Sprintf("%s/rpc/request/%s", t.prefix(), correlationID)
}

// RPCResponse returns the topic on which the response to one request is
// published.
//
// Example: objgw/rpc/response/req-abc123
func (t Topics) RPCResponse(correlationID string) string {
	return fmt.Sprintf("%s/rpc/response/%s", t.prefix(), correlationID)
}

// AllRPCRequests returns a pattern matching every inbound RPC request.
//
// Pattern: objgw/rpc/request/+
func (t Topics) AllRPCRequests() string {
	return fmt.Sprintf("%s/rpc/request/+", t.prefix())
}

// SystemStatus returns the gateway status topic (online/offline, LWT).
//
// Example: objgw/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}
