package maintenance

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// RequestRepository defines the interface for maintenance request persistence
type RequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// FindByProperty finds requests for a property
	FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID, filter shared.Filter) ([]Request, error)

	// Save creates or updates a request
	Save(ctx context.Context, r *Request) error

	// CancelOpenByProperty cancels open and in-progress requests for a
	// property, returning the number affected
	CancelOpenByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// CancelOpenByTenant cancels open and in-progress requests raised by a tenant
	CancelOpenByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByTenant hard-deletes requests raised by a tenant
	DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes requests for a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}

// ApprovalRepository defines the interface for approval request persistence
type ApprovalRepository interface {
	// FindByID finds an approval by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Approval, error)

	// Save creates or updates an approval
	Save(ctx context.Context, a *Approval) error

	// CancelPendingByTenant cancels pending approvals attached to a tenant
	CancelPendingByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// CancelPendingByProperty cancels pending approvals attached to a property
	CancelPendingByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByTenant hard-deletes approvals attached to a tenant
	DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes approvals attached to a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}
