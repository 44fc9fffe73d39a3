package notify

import (
	"context"

	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// LoggingNotifier writes payment confirmations to the log instead of a
// delivery channel. It stands in wherever SMS or email delivery is not
// configured.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// PaymentRecorded logs a payment confirmation
func (n *LoggingNotifier) PaymentRecorded(_ context.Context, tenant *leasing.Tenant, p *payment.Payment, receiptNumber string) error {
	n.logger.Info("Payment confirmation",
		zap.String("tenant", tenant.FullName),
		zap.String("phone", tenant.Phone),
		zap.String("amount", p.Amount.String()),
		zap.String("rent_month", p.RentMonth),
		zap.String("receipt_number", receiptNumber))
	return nil
}
