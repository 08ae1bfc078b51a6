// Package bus carries request/response messages between the three isolated
// execution contexts (content, popup, background). Contexts share no memory:
// every payload crosses the boundary as serialized JSON, so a handler can
// never mutate the sender's data.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actions understood across contexts.
const (
	ActionCheckJobPage = "checkJobPage"
	ActionScrapeJob    = "scrapeJob"
	ActionSaveJob      = "saveJob"
)

// Context names.
const (
	ContextContent    = "content"
	ContextPopup      = "popup"
	ContextBackground = "background"
)

// ErrNoReceiver is the transport-level failure for a request whose target
// context is not registered; it is equivalent to no response arriving.
var ErrNoReceiver = errors.New("no receiver registered for target context")

// Request is the envelope delivered to a context's handler.
type Request struct {
	ID      uuid.UUID       `json:"id"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Bind unmarshals the request payload into v.
func (r Request) Bind(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(r.Payload, v)
}

// HandlerError is an explicit error response from the receiving context, as
// opposed to a transport failure.
type HandlerError struct {
	Action  string
	Message string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
}

// Handler processes one request and returns the response value, which is
// serialized back across the boundary. Exactly one response per request.
type Handler func(ctx context.Context, req Request) (any, error)

type response struct {
	payload json.RawMessage
	errMsg  string
}

type delivery struct {
	req   Request
	reply chan response
}

type endpoint struct {
	inbox chan delivery
}

// Bus routes requests to named context endpoints. Each registered context
// consumes its inbox on a single goroutine, preserving the one-logical-
// thread-per-context model.
type Bus struct {
	mu        sync.RWMutex
	endpoints map[string]*endpoint
	logger    *zap.Logger
}

// New creates an empty bus.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		endpoints: make(map[string]*endpoint),
		logger:    logger,
	}
}

// Register attaches a handler as the named context and starts its message
// loop. The loop runs until ctx is cancelled; requests sent after that
// receive no response, which callers observe through their own context.
func (b *Bus) Register(ctx context.Context, name string, h Handler) {
	ep := &endpoint{inbox: make(chan delivery, 1)}

	b.mu.Lock()
	b.endpoints[name] = ep
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d := <-ep.inbox:
				b.serve(ctx, name, h, d)
			}
		}
	}()
}

func (b *Bus) serve(ctx context.Context, name string, h Handler, d delivery) {
	result, err := h(ctx, d.req)
	if err != nil {
		b.logger.Debug("handler returned error",
			zap.String("context", name),
			zap.String("action", d.req.Action),
			zap.Error(err))
		d.reply <- response{errMsg: err.Error()}
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		d.reply <- response{errMsg: fmt.Sprintf("failed to encode response: %v", err)}
		return
	}
	d.reply <- response{payload: payload}
}

// Send dispatches one request to the target context and blocks the caller's
// logical flow until the response arrives, the explicit error response is
// returned, or ctx reports the transport as failed. The payload is
// serialized on the way in and the response deserialized into out (which
// may be nil when no response body is expected).
func (b *Bus) Send(ctx context.Context, target, action string, payload, out any) error {
	b.mu.RLock()
	ep, ok := b.endpoints[target]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoReceiver, target)
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
		raw = data
	}

	d := delivery{
		req:   Request{ID: uuid.New(), Action: action, Payload: raw},
		reply: make(chan response, 1),
	}

	select {
	case ep.inbox <- d:
	case <-ctx.Done():
		return fmt.Errorf("request to %s not delivered: %w", target, ctx.Err())
	}

	select {
	case resp := <-d.reply:
		if resp.errMsg != "" {
			return &HandlerError{Action: action, Message: resp.errMsg}
		}
		if out != nil && len(resp.payload) > 0 {
			if err := json.Unmarshal(resp.payload, out); err != nil {
				return fmt.Errorf("failed to decode response from %s: %w", target, err)
			}
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("no response from %s: %w", target, ctx.Err())
	}
}
