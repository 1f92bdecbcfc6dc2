// Package mqtt provides MQTT client connectivity for the object gateway.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The gateway exposes its RPC dispatcher over MQTT as an alternative to
// HTTP: callers publish a request to a correlation-ID topic and receive
// the envelope on the matching response topic.
//
//	RPC caller ↔ MQTT Broker ↔ Object Gateway
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all inbound RPC requests
//	err = client.Subscribe(client.TopicFor().AllRPCRequests(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a response
//	topic := client.TopicFor().RPCResponse("req-abc123")
//	client.Publish(topic, envelopeJSON, 1, false)
package mqtt
