package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/audit"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Notifier delivers payment confirmations to tenants. Delivery is
// best-effort and happens after the transaction commits.
type Notifier interface {
	PaymentRecorded(ctx context.Context, tenant *leasing.Tenant, p *payment.Payment, receiptNumber string) error
}

// PaymentService records payments and runs the consistency chain that keeps
// tenant standing, reminders and the property cash flow in step with them.
type PaymentService struct {
	scope    TransactionScope
	notifier Notifier
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		scope:  scope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// SetNotifier sets the payment confirmation notifier (optional)
func (s *PaymentService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// RecordPayment records a payment and, when it settles, updates the tenant's
// standing, completes due rent reminders, folds the amount into the property
// cash flow, appends the audit entry and issues a receipt. The whole chain
// runs in one transaction: if any step fails, nothing is kept, the payment
// row included.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record",
		telemetry.WithAttribute(telemetry.SpanAttrOrgID, input.OrgID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, input.TenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, input.Amount.String()),
		telemetry.WithAttribute(telemetry.SpanAttrRentMonth, input.RentMonth),
	)
	defer span.End()

	status := input.Status
	if status == "" {
		status = payment.PaymentStatusPaid
	}
	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var (
		pay     *payment.Payment
		tenant  *leasing.Tenant
		receipt *payment.Receipt
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tenant, err = repos.TenantRepo().FindByIDForOrg(ctx, input.OrgID, input.TenantID)
		if err != nil {
			return err
		}

		if status == payment.PaymentStatusPaid && input.RentMonth != "" {
			covered, err := repos.PaymentRepo().ExistsPaidForRentMonth(ctx, input.OrgID, tenant.ID, input.RentMonth)
			if err != nil {
				return err
			}
			if covered {
				return shared.ErrDuplicateRentMonth
			}
		}

		pay, err = payment.NewPayment(input.OrgID, tenant.ID, tenant.PropertyID, input.Amount, status, paymentDate, input.RentMonth)
		if err != nil {
			return err
		}
		pay.Method = input.Method
		pay.Reference = input.Reference
		if input.UserID != nil {
			pay.CreatedBy = input.UserID
		}

		if err := repos.PaymentRepo().Create(ctx, pay); err != nil {
			return err
		}

		if !pay.IsPaid() {
			return nil
		}

		// A settled payment restores a late tenant to good standing
		if tenant.Status == leasing.TenantStatusLate {
			if err := tenant.MarkActive(); err != nil {
				return err
			}
			if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
				return err
			}
		}

		if _, err := repos.ReminderRepo().CompleteDueRentReminders(ctx, input.OrgID, tenant.ID, paymentDate); err != nil {
			return err
		}

		prop, err := repos.PropertyRepo().FindByIDForOrg(ctx, input.OrgID, tenant.PropertyID)
		if err != nil {
			return err
		}
		if err := prop.AddIncome(pay.Amount); err != nil {
			return err
		}
		if err := repos.PropertyRepo().Save(ctx, prop); err != nil {
			return err
		}

		if err := repos.AuditRepo().Create(ctx, auditEntryFor(pay, input.UserID)); err != nil {
			return err
		}

		sequence, err := repos.ReceiptRepo().NextSequence(ctx, input.OrgID)
		if err != nil {
			return err
		}
		receipt = payment.NewReceipt(pay, sequence)
		return repos.ReceiptRepo().Save(ctx, receipt)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrPaymentID, pay.ID.String())

	s.publishEvents(ctx, &pay.BaseAggregateRoot)

	if s.notifier != nil && pay.IsPaid() {
		receiptNumber := ""
		if receipt != nil {
			receiptNumber = receipt.ReceiptNumber
		}
		if err := s.notifier.PaymentRecorded(ctx, tenant, pay, receiptNumber); err != nil {
			s.logger.Warn("Failed to send payment confirmation",
				zap.String("payment_id", pay.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Payment recorded",
		zap.String("payment_id", pay.ID.String()),
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("status", string(pay.Status)),
		zap.String("rent_month", pay.RentMonth))

	response := ToPaymentResponse(pay, receipt)
	return &response, nil
}

// SettlePayment transitions a pending payment to paid and runs the same
// consistency chain as recording a settled payment.
func (s *PaymentService) SettlePayment(ctx context.Context, orgID, paymentID uuid.UUID) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "settle",
		telemetry.WithAttribute(telemetry.SpanAttrOrgID, orgID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentID, paymentID.String()),
	)
	defer span.End()

	var (
		pay     *payment.Payment
		receipt *payment.Receipt
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		pay, err = repos.PaymentRepo().FindByIDForOrg(ctx, orgID, paymentID)
		if err != nil {
			return err
		}

		if pay.RentMonth != "" {
			covered, err := repos.PaymentRepo().ExistsPaidForRentMonth(ctx, orgID, pay.TenantID, pay.RentMonth)
			if err != nil {
				return err
			}
			if covered {
				return shared.ErrDuplicateRentMonth
			}
		}

		if err := pay.MarkPaid(); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, pay); err != nil {
			return err
		}

		tenant, err := repos.TenantRepo().FindByIDForOrg(ctx, orgID, pay.TenantID)
		if err != nil {
			return err
		}
		if tenant.Status == leasing.TenantStatusLate {
			if err := tenant.MarkActive(); err != nil {
				return err
			}
			if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
				return err
			}
		}

		if _, err := repos.ReminderRepo().CompleteDueRentReminders(ctx, orgID, pay.TenantID, time.Now()); err != nil {
			return err
		}

		prop, err := repos.PropertyRepo().FindByIDForOrg(ctx, orgID, pay.PropertyID)
		if err != nil {
			return err
		}
		if err := prop.AddIncome(pay.Amount); err != nil {
			return err
		}
		if err := repos.PropertyRepo().Save(ctx, prop); err != nil {
			return err
		}

		if err := repos.AuditRepo().Create(ctx, auditEntryFor(pay, nil)); err != nil {
			return err
		}

		sequence, err := repos.ReceiptRepo().NextSequence(ctx, orgID)
		if err != nil {
			return err
		}
		receipt = payment.NewReceipt(pay, sequence)
		return repos.ReceiptRepo().Save(ctx, receipt)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, &pay.BaseAggregateRoot)

	response := ToPaymentResponse(pay, receipt)
	return &response, nil
}

// Get returns a payment with its receipt number if one was issued
func (s *PaymentService) Get(ctx context.Context, orgID, id uuid.UUID) (*PaymentResponse, error) {
	var response PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		pay, err := repos.PaymentRepo().FindByIDForOrg(ctx, orgID, id)
		if err != nil {
			return err
		}
		receipt, err := repos.ReceiptRepo().FindByPayment(ctx, orgID, pay.ID)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}
		response = ToPaymentResponse(pay, receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByTenant returns a tenant's payments
func (s *PaymentService) ListByTenant(ctx context.Context, orgID, tenantID uuid.UUID, filter shared.Filter) ([]PaymentResponse, error) {
	var items []PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payments, err := repos.PaymentRepo().FindByTenant(ctx, orgID, tenantID, filter)
		if err != nil {
			return err
		}
		items = make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			items = append(items, ToPaymentResponse(&payments[i], nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// auditEntryFor builds the audit-log entry that commits with the chain
func auditEntryFor(pay *payment.Payment, userID *uuid.UUID) *audit.Entry {
	return audit.NewEntry(
		pay.OrgID,
		userID,
		payment.EventTypePaymentRecorded,
		payment.AggregateTypePayment,
		pay.ID,
		map[string]string{
			"amount":     pay.Amount.String(),
			"rent_month": pay.RentMonth,
		},
	)
}

func (s *PaymentService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventBus == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
