package mqtt

import (
	"errors"
	"testing"
)

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopics(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		expected string
	}{
		{
			name: "rpc request",
			build: func() string {
				return Topics{Prefix: "objgw"}.RPCRequest("req-123")
			},
			expected: "objgw/rpc/request/req-123",
		},
		{
			name: "rpc response",
			build: func() string {
				return Topics{Prefix: "objgw"}.RPCResponse("req-123")
			},
			expected: "objgw/rpc/response/req-123",
		},
		{
			name: "all rpc requests",
			build: func() string {
				return Topics{Prefix: "objgw"}.AllRPCRequests()
			},
			expected: "objgw/rpc/request/+",
		},
		{
			name: "system status",
			build: func() string {
				return Topics{Prefix: "objgw"}.SystemStatus()
			},
			expected: "objgw/system/status",
		},
		{
			name: "custom prefix",
			build: func() string {
				return Topics{Prefix: "site-a/gateway"}.RPCRequest("r")
			},
			expected: "site-a/gateway/rpc/request/r",
		},
		{
			name: "empty prefix falls back to default",
			build: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "objgw/system/status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Validation Tests (no broker required)
// =============================================================================

func TestPublishValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}

	if err := c.Publish("objgw/test", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: err = %v, want ErrInvalidQoS", err)
	}

	big := make([]byte, maxPayloadSize+1)
	if err := c.Publish("objgw/test", big, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: err = %v, want ErrPublishFailed", err)
	}

	if err := c.Publish("objgw/test", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: err = %v, want ErrNotConnected", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}

	if err := c.Subscribe("objgw/test", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: err = %v, want ErrInvalidQoS", err)
	}

	if err := c.Subscribe("objgw/test", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: err = %v, want ErrSubscribeFailed", err)
	}

	if err := c.Subscribe("objgw/test", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: err = %v, want ErrNotConnected", err)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}

	if err := c.Unsubscribe("objgw/test"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: err = %v, want ErrNotConnected", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", c.SubscriptionCount())
	}

	c.subscriptions["objgw/rpc/request/+"] = subscription{topic: "objgw/rpc/request/+", qos: 1}

	if !c.HasSubscription("objgw/rpc/request/+") {
		t.Error("HasSubscription() = false for tracked topic")
	}
	if c.HasSubscription("objgw/other") {
		t.Error("HasSubscription() = true for untracked topic")
	}
	if c.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", c.SubscriptionCount())
	}
}

func TestCloseWithoutConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client: %v", err)
	}
}
