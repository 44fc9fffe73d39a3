package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// claimEvent is a minimal domain event for exercising the bus.
type claimEvent struct {
	shared.BaseDomainEvent
	UnitNumber string `json:"unit_number"`
}

func newClaimEvent(eventType string) *claimEvent {
	return &claimEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Unit", uuid.New(), uuid.New()),
		UnitNumber:      "004",
	}
}

// recordingHandler collects every event routed to it.
type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *recordingHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("UnitClaimed")
	bus.Subscribe(handler, "UnitClaimed")

	evt := newClaimEvent("UnitClaimed")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, evt, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("UnitClaimed")
	bus.Subscribe(handler, "UnitClaimed")

	err := bus.Publish(context.Background(),
		newClaimEvent("UnitClaimed"), newClaimEvent("UnitClaimed"))

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	auditTrail := newRecordingHandler("UnitClaimed")
	notifier := newRecordingHandler("UnitClaimed")
	bus.Subscribe(auditTrail, "UnitClaimed")
	bus.Subscribe(notifier, "UnitClaimed")

	require.NoError(t, bus.Publish(context.Background(), newClaimEvent("UnitClaimed")))

	assert.Len(t, auditTrail.getHandled(), 1)
	assert.Len(t, notifier.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	// No event types means the handler sees everything
	wildcard := newRecordingHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newClaimEvent("TenantArchived")))

	assert.Len(t, wildcard.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newRecordingHandler("UnitClaimed")
	failing.setError(errors.New("notification channel down"))
	healthy := newRecordingHandler("UnitClaimed")
	bus.Subscribe(failing, "UnitClaimed")
	bus.Subscribe(healthy, "UnitClaimed")

	require.NoError(t, bus.Publish(context.Background(), newClaimEvent("UnitClaimed")))

	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("TenantArchived")
	bus.Subscribe(handler, "TenantArchived")

	require.NoError(t, bus.Publish(context.Background(), newClaimEvent("UnitClaimed")))

	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("UnitClaimed")
	bus.Subscribe(handler, "UnitClaimed")

	_ = bus.Publish(context.Background(), newClaimEvent("UnitClaimed"))
	require.Len(t, handler.getHandled(), 1)

	bus.Unsubscribe(handler)

	_ = bus.Publish(context.Background(), newClaimEvent("UnitClaimed"))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))

	handler := newRecordingHandler("UnitClaimed")
	bus.Subscribe(handler, "UnitClaimed")
	require.NoError(t, bus.Publish(ctx, newClaimEvent("UnitClaimed")))
	assert.Len(t, handler.getHandled(), 1)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
}
