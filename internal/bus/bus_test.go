package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoPayload struct {
	Value string `json:"value"`
}

func TestSend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New(zap.NewNop())

	b.Register(ctx, ContextContent, func(_ context.Context, req Request) (any, error) {
		var in echoPayload
		require.NoError(t, req.Bind(&in))
		return echoPayload{Value: "echo: " + in.Value}, nil
	})

	var out echoPayload
	err := b.Send(ctx, ContextContent, "echo", echoPayload{Value: "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out.Value)
}

func TestSend_NoReceiver(t *testing.T) {
	b := New(zap.NewNop())

	err := b.Send(context.Background(), ContextBackground, ActionSaveJob, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoReceiver))
}

func TestSend_HandlerErrorBecomesExplicitResponse(t *testing.T) {
	ctx := context.Background()
	b := New(zap.NewNop())

	b.Register(ctx, ContextContent, func(_ context.Context, _ Request) (any, error) {
		return nil, errors.New("boom")
	})

	err := b.Send(ctx, ContextContent, ActionScrapeJob, nil, nil)
	require.Error(t, err)

	var handlerErr *HandlerError
	require.True(t, errors.As(err, &handlerErr))
	assert.Equal(t, ActionScrapeJob, handlerErr.Action)
	assert.Equal(t, "boom", handlerErr.Message)
}

func TestSend_PayloadCrossesBoundaryByCopy(t *testing.T) {
	ctx := context.Background()
	b := New(zap.NewNop())

	original := map[string]string{"key": "before"}
	b.Register(ctx, ContextContent, func(_ context.Context, req Request) (any, error) {
		var in map[string]string
		require.NoError(t, req.Bind(&in))
		in["key"] = "mutated" // must not be visible to the sender
		return nil, nil
	})

	require.NoError(t, b.Send(ctx, ContextContent, "mutate", original, nil))
	assert.Equal(t, "before", original["key"])
}

func TestSend_UnresponsiveReceiverFailsViaContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	loopCtx, stop := context.WithCancel(context.Background())
	defer stop()

	b := New(zap.NewNop())
	b.Register(loopCtx, ContextContent, func(ctx context.Context, _ Request) (any, error) {
		<-ctx.Done() // never answers
		return nil, ctx.Err()
	})

	err := b.Send(ctx, ContextContent, ActionScrapeJob, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSend_RequestsCarryUniqueIDs(t *testing.T) {
	ctx := context.Background()
	b := New(zap.NewNop())

	seen := make(chan string, 2)
	b.Register(ctx, ContextContent, func(_ context.Context, req Request) (any, error) {
		seen <- req.ID.String()
		return nil, nil
	})

	require.NoError(t, b.Send(ctx, ContextContent, "a", nil, nil))
	require.NoError(t, b.Send(ctx, ContextContent, "b", nil, nil))
	assert.NotEqual(t, <-seen, <-seen)
}
