package handler

import (
	"time"

	paymentapp "github.com/propdesk/backend/internal/application/payment"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// RecordPaymentRequest represents a request to record a rent payment
// @Description	Request body for recording a rent payment
type RecordPaymentRequest struct {
	TenantID    string  `json:"tenant_id" binding:"required,uuid" example:"4f9a2d71-6b3c-4e8d-9f0a-1b2c3d4e5f60"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"1250.00"`
	Status      string  `json:"status" binding:"omitempty,oneof=PENDING PAID" example:"PAID"`
	PaymentDate string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02" example:"2026-09-01"`
	RentMonth   string  `json:"rent_month" binding:"omitempty,datetime=2006-01" example:"2026-09"`
	Method      string  `json:"method" binding:"max=50" example:"bank_transfer"`
	Reference   string  `json:"reference" binding:"max=100" example:"TXN-88412"`
}

// ListPaymentsQuery captures the supported payment list filters
type ListPaymentsQuery struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
	RentMonth string `form:"rent_month"`
	From      string `form:"from"`
	To        string `form:"to"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// Record godoc
// @ID           recordPayment
//
//	@Summary		Record a rent payment
//	@Description	Record a payment and, when paid, issue the receipt, settle the tenant and complete due reminders in one transaction
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			request		body		RecordPaymentRequest	true	"Payment request"
//	@Success		201			{object}	APIResponse[paymentapp.PaymentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/billing/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	input := paymentapp.RecordPaymentInput{
		OrgID:     orgID,
		TenantID:  tenantID,
		Amount:    toDecimal(req.Amount),
		Status:    payment.PaymentStatus(req.Status),
		RentMonth: req.RentMonth,
		Method:    req.Method,
		Reference: req.Reference,
	}
	if req.PaymentDate != "" {
		paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			h.BadRequest(c, "Invalid payment date format")
			return
		}
		input.PaymentDate = paymentDate
	}
	if userID, err := getUserID(c); err == nil {
		input.UserID = &userID
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Settle godoc
// @ID           settlePayment
//
//	@Summary		Settle a pending payment
//	@Description	Mark a pending payment as paid and run the paid-payment chain for it
//	@Tags			payments
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Payment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[paymentapp.PaymentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/billing/payments/{id}/settle [post]
func (h *PaymentHandler) Settle(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	result, err := h.paymentService.SettlePayment(c.Request.Context(), orgID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @ID           getPaymentById
//
//	@Summary		Get payment by ID
//	@Description	Retrieve a payment with its receipt number when one was issued
//	@Tags			payments
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Payment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[paymentapp.PaymentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/billing/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	result, err := h.paymentService.Get(c.Request.Context(), orgID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByTenant godoc
// @ID           listTenantPayments
//
//	@Summary		List a tenant's payments
//	@Description	List a tenant's payments, most recent first
//	@Tags			payments
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			status		query		string	false	"Filter by status"
//	@Param			rent_month	query		string	false	"Filter by rent month (YYYY-MM)"
//	@Success		200			{object}	APIResponse[[]paymentapp.PaymentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/billing/tenants/{id}/payments [get]
func (h *PaymentHandler) ListByTenant(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listFilter(query.Page, query.PageSize, query.SortBy, query.SortOrder)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.RentMonth != "" {
		filter.Filters["rent_month"] = query.RentMonth
	}
	if query.From != "" {
		filter.Filters["from"] = query.From
	}
	if query.To != "" {
		filter.Filters["to"] = query.To
	}

	payments, err := h.paymentService.ListByTenant(c.Request.Context(), orgID, tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}
