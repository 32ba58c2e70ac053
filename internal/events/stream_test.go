// internal/events/stream_test.go
package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func makeEvent(typ EventType, assetID string) BaseEvent {
	return BaseEvent{EventType: typ, EventTime: time.Now(), AssetID: assetID}
}

func TestStreamAppendsInOrder(t *testing.T) {
	s := NewStream(zap.NewNop())
	ctx := context.Background()

	s.Emit(ctx, makeEvent(LaunchCreated, "a"))
	s.Emit(ctx, makeEvent(Traded, "a"))
	s.Emit(ctx, makeEvent(Traded, "b"))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, LaunchCreated, all[0].Type())
	assert.Equal(t, Traded, all[1].Type())
	assert.Equal(t, 3, s.Len())

	byA := s.ByAsset("a")
	require.Len(t, byA, 2)
	assert.Equal(t, "a", byA[0].Asset())
	assert.Empty(t, s.ByAsset("c"))
}

func TestSubscribeByType(t *testing.T) {
	s := NewStream(zap.NewNop())
	ctx := context.Background()

	var traded, any int
	s.SubscribeFunc(Traded, func(ctx context.Context, e Event) error {
		traded++
		return nil
	})
	s.SubscribeFunc(AnyEvent, func(ctx context.Context, e Event) error {
		any++
		return nil
	})

	s.Emit(ctx, makeEvent(Traded, "a"))
	s.Emit(ctx, makeEvent(Completed, "a"))

	assert.Equal(t, 1, traded)
	assert.Equal(t, 2, any)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := NewStream(zap.NewNop())
	ctx := context.Background()

	var seen int
	sub := s.SubscribeFunc(Traded, func(ctx context.Context, e Event) error {
		seen++
		return nil
	})

	s.Emit(ctx, makeEvent(Traded, "a"))
	sub.Unsubscribe()
	s.Emit(ctx, makeEvent(Traded, "a"))

	assert.Equal(t, 1, seen)
}

// Handler failures never propagate: the emit succeeds, the log grows, and
// later handlers still run.
func TestHandlerErrorsAreSwallowed(t *testing.T) {
	s := NewStream(zap.NewNop())
	ctx := context.Background()

	var after int
	s.SubscribeFunc(Traded, func(ctx context.Context, e Event) error {
		return errors.New("handler exploded")
	})
	s.SubscribeFunc(AnyEvent, func(ctx context.Context, e Event) error {
		after++
		return nil
	})

	s.Emit(ctx, makeEvent(Traded, "a"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, after)
}

// A handler may emit during delivery without deadlocking the stream.
func TestHandlerMayReemit(t *testing.T) {
	s := NewStream(zap.NewNop())
	ctx := context.Background()

	s.SubscribeFunc(Traded, func(ctx context.Context, e Event) error {
		s.Emit(ctx, makeEvent(Completed, e.Asset()))
		return nil
	})

	s.Emit(ctx, makeEvent(Traded, "a"))
	assert.Equal(t, 2, s.Len())
}
