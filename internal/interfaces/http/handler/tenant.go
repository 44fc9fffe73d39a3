package handler

import (
	"time"

	cascadeapp "github.com/propdesk/backend/internal/application/cascade"
	leasingapp "github.com/propdesk/backend/internal/application/leasing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles tenant-related API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService  *leasingapp.TenantService
	cascadeService *cascadeapp.CascadeService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(
	tenantService *leasingapp.TenantService,
	cascadeService *cascadeapp.CascadeService,
) *TenantHandler {
	return &TenantHandler{
		tenantService:  tenantService,
		cascadeService: cascadeService,
	}
}

// CreateTenantRequest represents a request to move a tenant into a unit.
// The target unit is addressed by ID or by its number within the property;
// exactly one of the two is required.
// @Description	Request body for moving a tenant in
type CreateTenantRequest struct {
	PropertyID string   `json:"property_id" binding:"required,uuid" example:"7b0f4a92-92a1-4f6e-9c3b-58a6f8f2f001"`
	UnitID     string   `json:"unit_id" binding:"omitempty,uuid" example:"d4f0c1c2-3a4b-4c5d-8e6f-708192a3b4c5"`
	UnitNumber string   `json:"unit_number" binding:"omitempty,max=16" example:"005"`
	FullName   string   `json:"full_name" binding:"required,min=1,max=200" example:"Maria Alvarez"`
	Phone      string   `json:"phone" binding:"max=50" example:"555-0142"`
	RentAmount *float64 `json:"rent_amount" binding:"omitempty,gt=0" example:"1250.00"`
}

// ApplyDiscountRequest represents a request to apply a rent discount
//
//	@Description	Request body for applying a rent discount to a tenant
type ApplyDiscountRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0" example:"150.00"`
	ExpiresAt string  `json:"expires_at" binding:"omitempty,datetime=2006-01-02" example:"2026-12-31"`
}

// ListTenantsQuery captures the supported tenant list filters
type ListTenantsQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Status     string `form:"status"`
	PropertyID string `form:"property_id"`
	UnitID     string `form:"unit_id"`
	Name       string `form:"name"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// Create godoc
// @ID           createTenant
//
//	@Summary		Move a tenant in
//	@Description	Create a tenant and atomically claim the chosen unit; a concurrent claim on the same unit fails with a conflict
//	@Tags			tenants
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string				false	"Organization ID (optional for dev)"
//	@Param			request		body		CreateTenantRequest	true	"Tenant creation request"
//	@Success		201			{object}	APIResponse[leasingapp.TenantResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.UnitID == "" && req.UnitNumber == "" {
		h.BadRequest(c, "Either unit_id or unit_number is required")
		return
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	input := leasingapp.CreateTenantInput{
		OrgID:      orgID,
		PropertyID: propertyID,
		UnitNumber: req.UnitNumber,
		FullName:   req.FullName,
		Phone:      req.Phone,
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID format")
			return
		}
		input.UnitID = &unitID
	}
	if req.RentAmount != nil {
		input.RentAmount = toDecimalPtr(*req.RentAmount)
	}
	if userID, err := getUserID(c); err == nil {
		input.UserID = &userID
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tenant)
}

// GetByID godoc
// @ID           getTenantById
//
//	@Summary		Get tenant by ID
//	@Description	Retrieve a tenant with the effective rent after any discount
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Success		200			{object}	APIResponse[leasingapp.TenantResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
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

	tenant, err := h.tenantService.Get(c.Request.Context(), orgID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List godoc
// @ID           listTenants
//
//	@Summary		List tenants
//	@Description	List the organization's tenants with optional property and status filters
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			status		query		string	false	"Filter by status"
//	@Param			property_id	query		string	false	"Filter by property"	format(uuid)
//	@Param			active_only	query		bool	false	"Only active and late tenants"
//	@Success		200			{object}	APIResponse[[]leasingapp.TenantResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var query ListTenantsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listFilter(query.Page, query.PageSize, query.SortBy, query.SortOrder)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.PropertyID != "" {
		filter.Filters["property_id"] = query.PropertyID
	}
	if query.UnitID != "" {
		filter.Filters["unit_id"] = query.UnitID
	}
	if query.Name != "" {
		filter.Filters["name"] = query.Name
	}
	if query.ActiveOnly {
		filter.Filters["active_only"] = true
	}

	page, err := h.tenantService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ApplyDiscount godoc
// @ID           applyTenantDiscount
//
//	@Summary		Apply a rent discount
//	@Description	Set a rent discount on a tenant, optionally expiring on a date
//	@Tags			tenants
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id			path		string					true	"Tenant ID"	format(uuid)
//	@Param			request		body		ApplyDiscountRequest	true	"Discount request"
//	@Success		200			{object}	APIResponse[leasingapp.TenantResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id}/discount [post]
func (h *TenantHandler) ApplyDiscount(c *gin.Context) {
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

	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := leasingapp.ApplyDiscountInput{
		OrgID:    orgID,
		TenantID: tenantID,
		Amount:   toDecimal(req.Amount),
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			h.BadRequest(c, "Invalid expiry date format")
			return
		}
		input.ExpiresAt = &expiresAt
	}

	tenant, err := h.tenantService.ApplyDiscount(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// ClearDiscount godoc
// @ID           clearTenantDiscount
//
//	@Summary		Clear a rent discount
//	@Description	Remove any rent discount from a tenant
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Success		200			{object}	APIResponse[leasingapp.TenantResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id}/discount [delete]
func (h *TenantHandler) ClearDiscount(c *gin.Context) {
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

	tenant, err := h.tenantService.ClearDiscount(c.Request.Context(), orgID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// SweepOverdue godoc
// @ID           sweepOverdueTenants
//
//	@Summary		Sweep overdue tenants
//	@Description	Mark active tenants without a recent paid payment as late
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Success		200			{object}	APIResponse[CountData]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/overdue/sweep [post]
func (h *TenantHandler) SweepOverdue(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	marked, err := h.tenantService.MarkOverdueTenants(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(marked)})
}

// Archive godoc
// @ID           archiveTenant
//
//	@Summary		Archive a tenant
//	@Description	Archive a tenant, release the unit and cancel open reminders and approvals
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Success		200			{object}	APIResponse[cascadeapp.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id}/archive [post]
func (h *TenantHandler) Archive(c *gin.Context) {
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

	result, err := h.cascadeService.ArchiveTenant(c.Request.Context(), orgID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Restore godoc
// @ID           restoreTenant
//
//	@Summary		Restore an archived tenant
//	@Description	Restore an archived tenant record; the unit is not reclaimed automatically
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Success		200			{object}	SuccessResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id}/restore [post]
func (h *TenantHandler) Restore(c *gin.Context) {
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

	if err := h.cascadeService.RestoreTenant(c.Request.Context(), orgID, tenantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"restored": true})
}

// Delete godoc
// @ID           deleteTenant
//
//	@Summary		Delete a tenant
//	@Description	Permanently delete a tenant and cascade over payments, reminders and approvals
//	@Tags			tenants
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Tenant ID"	format(uuid)
//	@Success		200			{object}	APIResponse[cascadeapp.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/leasing/tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
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

	result, err := h.cascadeService.DeleteTenant(c.Request.Context(), orgID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
