package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-objgw/internal/query"
)

// handlerFunc decodes a raw parameter object and runs one operation.
type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher routes a method name plus parameter object to the matching
// query operation and wraps the outcome in an Envelope. It is stateless per
// call and transport-agnostic: HTTP, WebSocket and MQTT frontends all feed
// the same Dispatch entry point.
type Dispatcher struct {
	exec    *query.Executor
	logger  *logging.Logger
	methods map[string]handlerFunc
}

// New creates a Dispatcher over the given executor.
func New(exec *query.Executor, logger *logging.Logger) *Dispatcher {
	d := &Dispatcher{
		exec:   exec,
		logger: logger.With("component", "rpc"),
	}
	d.methods = map[string]handlerFunc{
		"list_devices":   d.listDevices,
		"get_states":     d.getStates,
		"set_state":      d.setState,
		"search_objects": d.searchObjects,
		"list_adapters":  d.listAdapters,
		"system_info":    d.systemInfo,
		"get_logs":       d.getLogs,
	}
	return d
}

// Methods returns the registered method names, sorted.
func (d *Dispatcher) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates the method name, runs the operation, and converts the
// outcome into an Envelope. Parameter validation failures and unknown
// methods become client-error envelopes before the operation runs; any
// other failure, including a panic inside an operation, becomes a
// server-error envelope. A caller always receives a well-formed Envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in rpc method",
				"method", method,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			env = FailureWithMessage("Internal error", fmt.Sprint(r))
		}
	}()

	if method == "" {
		return Failure("Missing required parameter: method")
	}
	handler, ok := d.methods[method]
	if !ok {
		return Failure("Unknown method: " + method)
	}

	data, err := handler(ctx, params)
	if err != nil {
		if isClientError(err) {
			return Failure(err.Error())
		}
		d.logger.Error("rpc method failed", "method", method, "error", err)
		return Failure(err.Error())
	}
	return Success(data)
}

// decodeParams unmarshals the raw parameter object into dst. An absent or
// empty parameter object is valid and leaves dst zeroed.
func decodeParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return badRequest("Malformed parameters: %v", err)
	}
	return nil
}

func (d *Dispatcher) listDevices(ctx context.Context, params json.RawMessage) (any, error) {
	var p query.ListDevicesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return d.exec.ListDevices(ctx, p)
}

func (d *Dispatcher) getStates(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		IDs []string `json:"ids"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if len(p.IDs) == 0 {
		return nil, missingParam("ids")
	}
	return d.exec.GetStates(ctx, p.IDs)
}

func (d *Dispatcher) setState(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
		// Raw keeps presence detectable: an explicit null is a valid
		// value, an absent field is not.
		Value json.RawMessage `json:"value"`
		Ack   bool            `json:"ack"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, missingParam("id")
	}
	if len(p.Value) == 0 {
		return nil, missingParam("value")
	}
	var value any
	if err := json.Unmarshal(p.Value, &value); err != nil {
		return nil, badRequest("Malformed parameters: %v", err)
	}
	return d.exec.SetState(ctx, p.ID, value, p.Ack)
}

func (d *Dispatcher) searchObjects(ctx context.Context, params json.RawMessage) (any, error) {
	var p query.SearchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return d.exec.SearchObjects(ctx, p)
}

func (d *Dispatcher) listAdapters(ctx context.Context, params json.RawMessage) (any, error) {
	if err := decodeParams(params, &struct{}{}); err != nil {
		return nil, err
	}
	return d.exec.ListAdapters(ctx)
}

func (d *Dispatcher) systemInfo(ctx context.Context, params json.RawMessage) (any, error) {
	if err := decodeParams(params, &struct{}{}); err != nil {
		return nil, err
	}
	return d.exec.SystemInfo(ctx)
}

func (d *Dispatcher) getLogs(ctx context.Context, params json.RawMessage) (any, error) {
	var p query.LogParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return d.exec.GetLogs(ctx, p)
}
