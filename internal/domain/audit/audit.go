package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// Entry is a single audit-log record. Writes are best-effort everywhere
// except inside the payment recording transaction, where the entry commits
// or rolls back with the rest of the chain.
type Entry struct {
	shared.BaseEntity
	OrgID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID        `gorm:"type:uuid;index"`
	Action     string            `gorm:"type:varchar(64);not null"`
	Resource   string            `gorm:"type:varchar(64);not null"`
	ResourceID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Details    map[string]string `gorm:"serializer:json"`
	Timestamp  time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_log"
}

// NewEntry creates an audit entry for an action on a resource
func NewEntry(orgID uuid.UUID, userID *uuid.UUID, action, resource string, resourceID uuid.UUID, details map[string]string) *Entry {
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		OrgID:      orgID,
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Timestamp:  time.Now(),
	}
}

// EntryRepository defines the interface for the audit-log sink
type EntryRepository interface {
	// Create appends an audit entry
	Create(ctx context.Context, e *Entry) error

	// FindByResource finds entries for a resource, newest first
	FindByResource(ctx context.Context, orgID uuid.UUID, resource string, resourceID uuid.UUID, filter shared.Filter) ([]Entry, error)

	// DeleteByResourceID hard-deletes entries referencing a resource,
	// used by destructive tenant cascades
	DeleteByResourceID(ctx context.Context, orgID, resourceID uuid.UUID) (int64, error)
}
