// Package mqttrpc exposes the RPC dispatcher over MQTT.
//
// Clients publish a JSON request to <prefix>/rpc/request/<correlationID>
// and receive the response envelope on <prefix>/rpc/response/<correlationID>.
// The correlation ID is chosen by the caller and carried in the topic, so
// the request payload only needs the method name and parameters:
//
//	{"method": "get_states", "params": {"ids": ["hue.0.light1.on"]}}
//
// Each request is dispatched on its own goroutine, so a slow query never
// blocks the broker connection or other in-flight requests.
package mqttrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-objgw/internal/rpc"
)

// MQTTClient is the broker surface the bridge needs.
// Satisfied by *mqtt.Client, mockable in tests.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	IsConnected() bool
}

// Bridge routes RPC requests arriving over MQTT to the dispatcher and
// publishes the response envelopes back to the broker.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	dispatcher *rpc.Dispatcher
	client     MQTTClient
	topics     mqtt.Topics
	qos        byte
	logger     *logging.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// request is the wire format of an inbound RPC request.
type request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// New creates an MQTT RPC bridge. It does not subscribe until Start is called.
func New(dispatcher *rpc.Dispatcher, client MQTTClient, topics mqtt.Topics, qos byte, logger *logging.Logger) (*Bridge, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("mqttrpc: dispatcher is required")
	}
	if client == nil {
		return nil, fmt.Errorf("mqttrpc: mqtt client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("mqttrpc: logger is required")
	}

	return &Bridge{
		dispatcher: dispatcher,
		client:     client,
		topics:     topics,
		qos:        qos,
		logger:     logger.With("component", "mqttrpc"),
	}, nil
}

// Start subscribes to the request topic pattern. The context bounds the
// lifetime of all dispatched requests; cancelling it (or calling Stop)
// aborts in-flight queries.
func (b *Bridge) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	pattern := b.topics.AllRPCRequests()
	if err := b.client.Subscribe(pattern, b.qos, b.handleRequest); err != nil {
		b.cancel()
		return fmt.Errorf("mqttrpc: subscribe %s: %w", pattern, err)
	}

	b.logger.Info("mqtt rpc bridge started", "pattern", pattern, "qos", b.qos)
	return nil
}

// Stop unsubscribes from the request topic and waits for in-flight
// requests to finish. Safe to call multiple times.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		if err := b.client.Unsubscribe(b.topics.AllRPCRequests()); err != nil {
			b.logger.Warn("mqtt rpc bridge unsubscribe failed", "error", err)
		}
		if b.cancel != nil {
			b.cancel()
		}
		b.wg.Wait()
		b.logger.Info("mqtt rpc bridge stopped")
	})
}

// handleRequest is the MQTT message handler for inbound RPC requests.
// The error return feeds the client's handler logging; request-level
// failures are reported to the caller via the response envelope instead.
func (b *Bridge) handleRequest(topic string, payload []byte) error {
	correlationID := topic[strings.LastIndex(topic, "/")+1:]
	if correlationID == "" || correlationID == "+" {
		return fmt.Errorf("mqttrpc: request topic %q has no correlation id", topic)
	}

	var req request
	if err := json.Unmarshal(payload, &req); err != nil {
		b.respond(correlationID, rpc.Failure(fmt.Sprintf("Malformed request: %v", err)))
		return nil
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		env := b.dispatcher.Dispatch(b.ctx, req.Method, req.Params)
		b.respond(correlationID, env)
	}()

	return nil
}

// respond publishes an envelope to the response topic for the given
// correlation ID. Publish failures are logged, not retried; the caller
// times out and resends if it still cares.
func (b *Bridge) respond(correlationID string, env rpc.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("mqtt rpc response marshal failed", "correlation_id", correlationID, "error", err)
		return
	}

	topic := b.topics.RPCResponse(correlationID)
	if err := b.client.Publish(topic, payload, b.qos, false); err != nil {
		b.logger.Error("mqtt rpc response publish failed", "topic", topic, "error", err)
	}
}
