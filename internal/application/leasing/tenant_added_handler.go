package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantAddedHandler schedules the first rent reminder when a tenant moves in
type TenantAddedHandler struct {
	reminderRepo leasing.ReminderRepository
	logger       *zap.Logger
}

// NewTenantAddedHandler creates a new TenantAddedHandler
func NewTenantAddedHandler(reminderRepo leasing.ReminderRepository, logger *zap.Logger) *TenantAddedHandler {
	return &TenantAddedHandler{
		reminderRepo: reminderRepo,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *TenantAddedHandler) EventTypes() []string {
	return []string{leasing.EventTypeTenantAdded}
}

// Handle creates an active rent reminder due on the first of the next month
func (h *TenantAddedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	added, ok := event.(*leasing.TenantAddedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	reminder := leasing.NewRentReminder(
		added.OrgID(),
		added.TenantID,
		added.PropertyID,
		firstOfNextMonth(time.Now()),
		fmt.Sprintf("Rent due for unit %s", added.UnitNumber),
	)

	if err := h.reminderRepo.Save(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create rent reminder: %w", err)
	}

	h.logger.Info("Rent reminder scheduled",
		zap.String("tenant_id", added.TenantID.String()),
		zap.Time("next_run_at", reminder.NextRunAt))
	return nil
}

func firstOfNextMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
}
