package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func shiftOpened(t *testing.T) shared.DomainEvent {
	t.Helper()
	event := shared.NewBaseDomainEvent(
		sales.EventTypeShiftOpened, "Shift", uuid.New(), time.Now().UTC())
	return &event
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{sales.EventTypeShiftOpened}}
		bus.Subscribe(handler)

		event := shiftOpened(t)
		require.NoError(t, bus.Publish(ctx, event))

		require.Len(t, handler.received, 1)
		assert.Equal(t, event.EventID(), handler.received[0].EventID())
	})

	t.Run("skips handlers for other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{sales.EventTypeOrderCancelled}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, shiftOpened(t)))
		assert.Empty(t, handler.received)
	})

	t.Run("explicit subscription types win", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{sales.EventTypeOrderCancelled}}
		bus.Subscribe(handler, sales.EventTypeShiftOpened)

		require.NoError(t, bus.Publish(ctx, shiftOpened(t)))
		assert.Len(t, handler.received, 1)
	})

	t.Run("handler failure does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{
			types: []string{sales.EventTypeShiftOpened},
			err:   errors.New("downstream unavailable"),
		}
		healthy := &recordingHandler{types: []string{sales.EventTypeShiftOpened}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, shiftOpened(t)))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{
			types:  []string{sales.EventTypeShiftOpened},
			panics: true,
		}
		healthy := &recordingHandler{types: []string{sales.EventTypeShiftOpened}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, shiftOpened(t)))
		assert.Len(t, healthy.received, 1)
	})
}
