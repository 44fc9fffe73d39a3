package audit

import (
	"context"
	"fmt"

	"github.com/propdesk/backend/internal/domain/audit"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditTrailHandler appends an audit entry for every lifecycle event. The
// trail is append-only; failures are surfaced to the bus and retried by it.
// Payment recording is the exception: its entry is appended inside the
// payment transaction so it commits or rolls back with the chain.
type AuditTrailHandler struct {
	entryRepo audit.EntryRepository
	logger    *zap.Logger
}

// NewAuditTrailHandler creates a new AuditTrailHandler
func NewAuditTrailHandler(entryRepo audit.EntryRepository, logger *zap.Logger) *AuditTrailHandler {
	return &AuditTrailHandler{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *AuditTrailHandler) EventTypes() []string {
	return []string{
		property.EventTypePropertyCreated,
		property.EventTypePropertyResized,
		property.EventTypePropertyArchived,
		property.EventTypePropertyRestored,
		property.EventTypeUnitOccupied,
		property.EventTypeUnitVacated,
		leasing.EventTypeTenantAdded,
		leasing.EventTypeTenantMarkedLate,
		leasing.EventTypeTenantArchived,
	}
}

// Handle appends an audit entry derived from the event
func (h *AuditTrailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry := audit.NewEntry(
		event.OrgID(),
		nil,
		event.EventType(),
		event.AggregateType(),
		event.AggregateID(),
		detailsFor(event),
	)

	if err := h.entryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	h.logger.Debug("Audit entry recorded",
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("resource_id", entry.ResourceID.String()))
	return nil
}

func detailsFor(event shared.DomainEvent) map[string]string {
	switch e := event.(type) {
	case *property.PropertyResizedEvent:
		return map[string]string{
			"old_count": fmt.Sprintf("%d", e.OldCount),
			"new_count": fmt.Sprintf("%d", e.NewCount),
		}
	case *property.UnitOccupiedEvent:
		return map[string]string{
			"unit_number": e.UnitNumber,
			"tenant_id":   e.TenantID.String(),
		}
	case *property.UnitVacatedEvent:
		return map[string]string{"unit_number": e.UnitNumber}
	case *leasing.TenantAddedEvent:
		return map[string]string{
			"unit_number": e.UnitNumber,
			"full_name":   e.FullName,
		}
	default:
		return nil
	}
}
