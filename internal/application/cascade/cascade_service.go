package cascade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/maintenance"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CascadeService fans property and tenant lifecycle changes out to their
// dependent records. Steps are independent: each failure is captured in the
// result while the remaining steps still run, so a partial cascade never
// blocks the rest of the cleanup.
type CascadeService struct {
	propertyRepo property.PropertyRepository
	unitRepo     property.UnitRepository
	tenantRepo   leasing.TenantRepository
	reminderRepo leasing.ReminderRepository
	paymentRepo  payment.PaymentRepository
	receiptRepo  payment.ReceiptRepository
	expenseRepo  payment.ExpenseRepository
	requestRepo  maintenance.RequestRepository
	approvalRepo maintenance.ApprovalRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewCascadeService creates a new CascadeService
func NewCascadeService(
	propertyRepo property.PropertyRepository,
	unitRepo property.UnitRepository,
	tenantRepo leasing.TenantRepository,
	reminderRepo leasing.ReminderRepository,
	paymentRepo payment.PaymentRepository,
	receiptRepo payment.ReceiptRepository,
	expenseRepo payment.ExpenseRepository,
	requestRepo maintenance.RequestRepository,
	approvalRepo maintenance.ApprovalRepository,
	logger *zap.Logger,
) *CascadeService {
	return &CascadeService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		reminderRepo: reminderRepo,
		paymentRepo:  paymentRepo,
		receiptRepo:  receiptRepo,
		expenseRepo:  expenseRepo,
		requestRepo:  requestRepo,
		approvalRepo: approvalRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CascadeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// ArchiveProperty soft-deletes a property and cascades the archive to its
// units, tenants, payments, receipts, expenses, reminders and maintenance
// records. A property with tenants in active or late standing cannot be
// archived.
func (s *CascadeService) ArchiveProperty(ctx context.Context, orgID, propertyID uuid.UUID) (*Result, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}

	active, err := s.tenantRepo.CountActiveByProperty(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, shared.ErrActiveTenants
	}

	if err := prop.Archive(); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &prop.BaseAggregateRoot)

	result := &Result{Resource: "property", ResourceID: propertyID, Mode: ModeArchive}
	s.step(ctx, result, "units", func() (int64, error) {
		return s.unitRepo.ArchiveByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "tenants", func() (int64, error) {
		return s.tenantRepo.ArchiveByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "payments", func() (int64, error) {
		return s.paymentRepo.ArchiveByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "receipts", func() (int64, error) {
		return s.receiptRepo.ArchiveByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "expenses", func() (int64, error) {
		return s.expenseRepo.ArchiveByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "reminders", func() (int64, error) {
		return s.reminderRepo.CancelByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "maintenance_requests", func() (int64, error) {
		return s.requestRepo.CancelOpenByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "approvals", func() (int64, error) {
		return s.approvalRepo.CancelPendingByProperty(ctx, orgID, propertyID)
	})

	s.logCascade(result)
	return result, nil
}

// DeleteProperty destroys a property and every dependent record. The
// property must already be archived; destructive deletion is not offered
// for live properties.
func (s *CascadeService) DeleteProperty(ctx context.Context, orgID, propertyID uuid.UUID) (*Result, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsArchived() {
		return nil, shared.NewDomainError("NOT_ARCHIVED", "Property must be archived before deletion")
	}

	result := &Result{Resource: "property", ResourceID: propertyID, Mode: ModeDelete}
	s.step(ctx, result, "receipts", func() (int64, error) {
		return s.receiptRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "payments", func() (int64, error) {
		return s.paymentRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "expenses", func() (int64, error) {
		return s.expenseRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "reminders", func() (int64, error) {
		return s.reminderRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "maintenance_requests", func() (int64, error) {
		return s.requestRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "approvals", func() (int64, error) {
		return s.approvalRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "tenants", func() (int64, error) {
		return s.tenantRepo.DeleteByProperty(ctx, orgID, propertyID)
	})
	s.step(ctx, result, "units", func() (int64, error) {
		return s.unitRepo.DeleteByProperty(ctx, orgID, propertyID)
	})

	// The property row goes last so a failed child step leaves it reachable
	if result.Ok() {
		if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
			result.record("property", 0, err)
		} else {
			result.record("property", 1, nil)
		}
	}

	s.logCascade(result)
	return result, nil
}

// RestoreProperty brings an archived property back, returning all of its
// units to available. Tenant records are not restored; former tenants must
// be moved in again.
func (s *CascadeService) RestoreProperty(ctx context.Context, orgID, propertyID uuid.UUID) (*Result, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := prop.Restore(); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &prop.BaseAggregateRoot)

	result := &Result{Resource: "property", ResourceID: propertyID, Mode: ModeRestore}
	s.step(ctx, result, "units", func() (int64, error) {
		return s.unitRepo.ResetByPropertyToAvailable(ctx, orgID, propertyID)
	})

	if err := s.recomputeOccupancy(ctx, prop); err != nil {
		result.record("occupancy", 0, err)
	}

	s.logCascade(result)
	return result, nil
}

// ArchiveTenant soft-deletes a tenant, releases their unit and cascades the
// archive to their payments, receipts, reminders and maintenance records.
func (s *CascadeService) ArchiveTenant(ctx context.Context, orgID, tenantID uuid.UUID) (*Result, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, tenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.Archive(); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &tenant.BaseAggregateRoot)

	result := &Result{Resource: "tenant", ResourceID: tenantID, Mode: ModeArchive}
	s.step(ctx, result, "unit", func() (int64, error) {
		return s.releaseUnit(ctx, orgID, tenant)
	})
	s.step(ctx, result, "payments", func() (int64, error) {
		return s.paymentRepo.ArchiveByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "receipts", func() (int64, error) {
		return s.receiptRepo.ArchiveByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "reminders", func() (int64, error) {
		return s.reminderRepo.CancelByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "maintenance_requests", func() (int64, error) {
		return s.requestRepo.CancelOpenByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "approvals", func() (int64, error) {
		return s.approvalRepo.CancelPendingByTenant(ctx, orgID, tenantID)
	})

	s.logCascade(result)
	return result, nil
}

// DeleteTenant destroys a tenant and every dependent record. The unit claim
// is released first so the unit is immediately lettable again.
func (s *CascadeService) DeleteTenant(ctx context.Context, orgID, tenantID uuid.UUID) (*Result, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, tenantID)
	if err != nil {
		return nil, err
	}

	result := &Result{Resource: "tenant", ResourceID: tenantID, Mode: ModeDelete}
	s.step(ctx, result, "unit", func() (int64, error) {
		return s.releaseUnit(ctx, orgID, tenant)
	})
	s.step(ctx, result, "receipts", func() (int64, error) {
		return s.receiptRepo.DeleteByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "payments", func() (int64, error) {
		return s.paymentRepo.DeleteByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "reminders", func() (int64, error) {
		return s.reminderRepo.DeleteByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "maintenance_requests", func() (int64, error) {
		return s.requestRepo.DeleteByTenant(ctx, orgID, tenantID)
	})
	s.step(ctx, result, "approvals", func() (int64, error) {
		return s.approvalRepo.DeleteByTenant(ctx, orgID, tenantID)
	})

	if result.Ok() {
		if err := s.tenantRepo.Delete(ctx, tenantID); err != nil {
			result.record("tenant", 0, err)
		} else {
			result.record("tenant", 1, nil)
		}
	}

	s.logCascade(result)
	return result, nil
}

// RestoreTenant reactivates an archived tenant without restoring the unit
// claim; the tenant comes back inactive and must claim a unit again.
func (s *CascadeService) RestoreTenant(ctx context.Context, orgID, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, tenantID)
	if err != nil {
		return err
	}
	if err := tenant.Restore(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}

// releaseUnit atomically clears the tenant's claim and folds the stay into
// the unit's occupancy history. Missing units and already-released claims
// are not errors; the cascade must stay idempotent.
func (s *CascadeService) releaseUnit(ctx context.Context, orgID uuid.UUID, tenant *leasing.Tenant) (int64, error) {
	unit, err := s.unitRepo.FindByIDForOrg(ctx, orgID, tenant.UnitID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if unit.TenantID == nil || *unit.TenantID != tenant.ID {
		return 0, nil
	}

	released, err := s.unitRepo.ReleaseForTenant(ctx, orgID, unit.ID, tenant.ID)
	if err != nil {
		return 0, err
	}
	if !released {
		// A concurrent cascade cleared the claim between the read and the swap
		return 0, nil
	}

	// The swap cleared the link; Vacate folds the completed stay into the
	// unit's history and Save persists the derived average.
	if err := unit.Vacate(); err != nil {
		return 0, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return 0, err
	}
	s.publishEvents(ctx, &unit.BaseAggregateRoot)

	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, tenant.PropertyID)
	if err == nil {
		if err := s.recomputeOccupancy(ctx, prop); err != nil {
			s.logger.Warn("Failed to recompute occupancy after unit release",
				zap.String("property_id", prop.ID.String()),
				zap.Error(err))
		}
	}
	return 1, nil
}

func (s *CascadeService) recomputeOccupancy(ctx context.Context, prop *property.Property) error {
	counts, err := s.unitRepo.CountsByProperty(ctx, prop.OrgID, prop.ID)
	if err != nil {
		return err
	}
	prop.ApplyOccupancy(counts.Occupied, counts.Countable)
	return s.propertyRepo.Save(ctx, prop)
}

func (s *CascadeService) step(_ context.Context, result *Result, name string, fn func() (int64, error)) {
	affected, err := fn()
	result.record(name, affected, err)
	if err != nil {
		s.logger.Error("Cascade step failed",
			zap.String("resource", result.Resource),
			zap.String("resource_id", result.ResourceID.String()),
			zap.String("step", name),
			zap.Error(err))
	}
}

func (s *CascadeService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventBus == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}

func (s *CascadeService) logCascade(result *Result) {
	s.logger.Info("Cascade completed",
		zap.String("resource", result.Resource),
		zap.String("resource_id", result.ResourceID.String()),
		zap.String("mode", string(result.Mode)),
		zap.Int("steps", len(result.Steps)),
		zap.Int("failed", result.Failed))
}
