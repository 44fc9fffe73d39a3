package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// RequestStatus represents the lifecycle of a maintenance request
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusResolved   RequestStatus = "RESOLVED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

// Request is a maintenance request raised against a unit. Open requests
// are cancelled when the owning property is archived.
type Request struct {
	shared.OrgAggregateRoot
	PropertyID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	UnitID      *uuid.UUID    `gorm:"type:uuid;index"`
	TenantID    *uuid.UUID    `gorm:"type:uuid;index"`
	Title       string        `gorm:"not null"`
	Description string
	Status      RequestStatus `gorm:"type:varchar(32);not null;default:'OPEN';index"`
	Priority    string        `gorm:"type:varchar(16);not null;default:'NORMAL'"`
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (Request) TableName() string {
	return "maintenance_requests"
}

// NewRequest opens a maintenance request for a property
func NewRequest(orgID, propertyID uuid.UUID, title, description string) (*Request, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Request title is required")
	}
	return &Request{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PropertyID:       propertyID,
		Title:            title,
		Description:      description,
		Status:           RequestStatusOpen,
		Priority:         "NORMAL",
	}, nil
}

// Cancel closes the request without resolution
func (r *Request) Cancel() error {
	if r.Status == RequestStatusResolved || r.Status == RequestStatusCancelled {
		return shared.ErrInvalidState
	}
	r.Status = RequestStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Resolve marks the request as completed
func (r *Request) Resolve() error {
	if r.Status == RequestStatusResolved || r.Status == RequestStatusCancelled {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = RequestStatusResolved
	r.ResolvedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// ApprovalStatus represents the lifecycle of an approval request
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "PENDING"
	ApprovalStatusApproved  ApprovalStatus = "APPROVED"
	ApprovalStatusRejected  ApprovalStatus = "REJECTED"
	ApprovalStatusCancelled ApprovalStatus = "CANCELLED"
)

// Approval is a pending authorization attached to a tenant or property
// action; cascaded to cancelled when its subject is archived.
type Approval struct {
	shared.OrgAggregateRoot
	PropertyID *uuid.UUID     `gorm:"type:uuid;index"`
	TenantID   *uuid.UUID     `gorm:"type:uuid;index"`
	Action     string         `gorm:"type:varchar(64);not null"`
	Status     ApprovalStatus `gorm:"type:varchar(32);not null;default:'PENDING';index"`
	DecidedAt  *time.Time
}

// TableName returns the table name for GORM
func (Approval) TableName() string {
	return "approval_requests"
}

// Cancel withdraws a pending approval
func (a *Approval) Cancel() error {
	if a.Status != ApprovalStatusPending {
		return shared.ErrInvalidState
	}
	a.Status = ApprovalStatusCancelled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}
