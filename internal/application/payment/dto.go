package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// RecordPaymentInput carries the fields needed to record a payment
type RecordPaymentInput struct {
	OrgID       uuid.UUID
	UserID      *uuid.UUID
	TenantID    uuid.UUID
	Amount      decimal.Decimal
	Status      payment.PaymentStatus // defaults to PAID
	PaymentDate time.Time             // defaults to now
	RentMonth   string
	Method      string
	Reference   string
}

// PaymentResponse is the application-level view of a payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	RentMonth     string          `json:"rent_month,omitempty"`
	Method        string          `json:"method,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToPaymentResponse maps a domain payment to its response form
func ToPaymentResponse(p *payment.Payment, receipt *payment.Receipt) PaymentResponse {
	response := PaymentResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		PropertyID:  p.PropertyID,
		Amount:      p.Amount,
		Status:      string(p.Status),
		PaymentDate: p.PaymentDate,
		RentMonth:   p.RentMonth,
		Method:      p.Method,
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
	}
	if receipt != nil {
		response.ReceiptNumber = receipt.ReceiptNumber
	}
	return response
}
