package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// ReminderKind distinguishes scheduled reminder types
type ReminderKind string

const (
	ReminderKindRent        ReminderKind = "rent_reminder"
	ReminderKindLeaseExpiry ReminderKind = "lease_expiry"
)

// ReminderStatus represents the lifecycle of a reminder
type ReminderStatus string

const (
	ReminderStatusActive    ReminderStatus = "ACTIVE"
	ReminderStatusCompleted ReminderStatus = "COMPLETED"
	ReminderStatusCancelled ReminderStatus = "CANCELLED"
)

// Reminder is a scheduled follow-up attached to a tenant. Rent reminders
// are completed automatically when a covering payment is recorded.
type Reminder struct {
	shared.OrgAggregateRoot
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind       ReminderKind   `gorm:"type:varchar(32);not null"`
	Status     ReminderStatus `gorm:"type:varchar(32);not null;default:'ACTIVE';index"`
	Message    string
	NextRunAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Reminder) TableName() string {
	return "reminders"
}

// NewRentReminder creates an active rent reminder for a tenant
func NewRentReminder(orgID, tenantID, propertyID uuid.UUID, nextRunAt time.Time, message string) *Reminder {
	return &Reminder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		TenantID:         tenantID,
		PropertyID:       propertyID,
		Kind:             ReminderKindRent,
		Status:           ReminderStatusActive,
		Message:          message,
		NextRunAt:        nextRunAt,
	}
}

// Complete marks the reminder as satisfied
func (r *Reminder) Complete() {
	r.Status = ReminderStatusCompleted
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Cancel marks the reminder as no longer relevant
func (r *Reminder) Cancel() {
	r.Status = ReminderStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
