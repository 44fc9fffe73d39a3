package handler

import (
	cascadeapp "github.com/propdesk/backend/internal/application/cascade"
	propertyapp "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PropertyHandler handles property-related API endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService  *propertyapp.PropertyService
	occupancyService *propertyapp.OccupancyService
	cascadeService   *cascadeapp.CascadeService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(
	propertyService *propertyapp.PropertyService,
	occupancyService *propertyapp.OccupancyService,
	cascadeService *cascadeapp.CascadeService,
) *PropertyHandler {
	return &PropertyHandler{
		propertyService:  propertyService,
		occupancyService: occupancyService,
		cascadeService:   cascadeService,
	}
}

// CreatePropertyRequest represents a request to register a new property
// @Description	Request body for registering a new property
type CreatePropertyRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=200" example:"Sunset Apartments"`
	Address       string  `json:"address" binding:"max=500" example:"142 Sunset Blvd, Springfield"`
	NumberOfUnits int     `json:"number_of_units" binding:"required,min=1,max=10000" example:"24"`
	RentAmount    float64 `json:"rent_amount" binding:"required,gt=0" example:"1250.00"`
}

// UpdatePropertyRequest represents a request to update a property's details
//
//	@Description	Request body for updating a property
type UpdatePropertyRequest struct {
	Name       string  `json:"name" binding:"required,min=1,max=200" example:"Sunset Residences"`
	Address    string  `json:"address" binding:"max=500" example:"142 Sunset Blvd, Springfield"`
	RentAmount float64 `json:"rent_amount" binding:"required,gt=0" example:"1300.00"`
}

// ResizePropertyRequest represents a request to change a property's unit count
//
//	@Description	Request body for resizing a property
type ResizePropertyRequest struct {
	NumberOfUnits int  `json:"number_of_units" binding:"required,min=1,max=10000" example:"30"`
	ForceVacate   bool `json:"force_vacate" example:"false"`
}

// SetUnitRentRequest represents a request to change a unit's rent amount
//
//	@Description	Request body for changing a unit's rent
type SetUnitRentRequest struct {
	RentAmount float64 `json:"rent_amount" binding:"required,gt=0" example:"1350.00"`
}

// RecordExpenseRequest represents a request to record a property expense
//
//	@Description	Request body for recording an expense against a property
type RecordExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"480.50"`
	Category    string  `json:"category" binding:"max=100" example:"repairs"`
	Description string  `json:"description" binding:"max=500" example:"Boiler service, building A"`
	IncurredAt  string  `json:"incurred_at" binding:"omitempty,datetime=2006-01-02" example:"2026-02-14"`
}

// ListPropertiesQuery captures the supported property list filters
type ListPropertiesQuery struct {
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
	Status          string `form:"status"`
	Name            string `form:"name"`
	IncludeArchived bool   `form:"include_archived"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order"`
}

// Create godoc
// @ID           createProperty
//
//	@Summary		Register a new property
//	@Description	Register a property and provision its numbered units
//	@Tags			properties
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			request		body		CreatePropertyRequest	true	"Property creation request"
//	@Success		201			{object}	APIResponse[propertyapp.PropertyResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := propertyapp.CreatePropertyInput{
		OrgID:         orgID,
		Name:          req.Name,
		Address:       req.Address,
		NumberOfUnits: req.NumberOfUnits,
		RentAmount:    toDecimal(req.RentAmount),
	}
	if userID, err := getUserID(c); err == nil {
		input.UserID = &userID
	}

	prop, err := h.propertyService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, prop)
}

// GetByID godoc
// @ID           getPropertyById
//
//	@Summary		Get property by ID
//	@Description	Retrieve a property with its occupancy and cash flow rollup
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[propertyapp.PropertyResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	prop, err := h.propertyService.Get(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// List godoc
// @ID           listProperties
//
//	@Summary		List properties
//	@Description	List the organization's properties; archived ones are hidden unless requested
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID			header		string	false	"Organization ID (optional for dev)"
//	@Param			page				query		int		false	"Page number"
//	@Param			page_size			query		int		false	"Page size"
//	@Param			status				query		string	false	"Filter by status"
//	@Param			name				query		string	false	"Filter by name (substring)"
//	@Param			include_archived	query		bool	false	"Include archived properties"
//	@Success		200					{object}	APIResponse[[]propertyapp.PropertyResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Router			/portfolio/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var query ListPropertiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listFilter(query.Page, query.PageSize, query.SortBy, query.SortOrder)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Name != "" {
		filter.Filters["name"] = query.Name
	}
	if query.IncludeArchived {
		filter.Filters["include_archived"] = true
	}

	page, err := h.propertyService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @ID           updateProperty
//
//	@Summary		Update a property
//	@Description	Update a property's name, address and asking rent
//	@Tags			properties
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id			path		string					true	"Property ID"	format(uuid)
//	@Param			request		body		UpdatePropertyRequest	true	"Property update request"
//	@Success		200			{object}	APIResponse[propertyapp.PropertyResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	prop, err := h.propertyService.UpdateDetails(
		c.Request.Context(), orgID, propertyID,
		req.Name, req.Address, toDecimal(req.RentAmount),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// ListUnits godoc
// @ID           listPropertyUnits
//
//	@Summary		List a property's units
//	@Description	List every unit of a property ordered by unit number
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[[]propertyapp.UnitResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/units [get]
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	units, err := h.occupancyService.ListUnits(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, units)
}

// ReserveUnit godoc
// @ID           reservePropertyUnit
//
//	@Summary		Reserve a unit
//	@Description	Hold an available unit for a pending move-in
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Param			unitNumber	path		string	true	"Unit number"
//	@Success		200			{object}	APIResponse[propertyapp.UnitResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/units/{unitNumber}/reserve [post]
func (h *PropertyHandler) ReserveUnit(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	unit, err := h.occupancyService.ReserveUnit(c.Request.Context(), orgID, propertyID, c.Param("unitNumber"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// SetUnitRent godoc
// @ID           setPropertyUnitRent
//
//	@Summary		Change a unit's rent
//	@Description	Set a unit's rent amount, recording the change in its rent history
//	@Tags			properties
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string				false	"Organization ID (optional for dev)"
//	@Param			id			path		string				true	"Property ID"	format(uuid)
//	@Param			unitNumber	path		string				true	"Unit number"
//	@Param			request		body		SetUnitRentRequest	true	"Rent change request"
//	@Success		200			{object}	APIResponse[propertyapp.UnitResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/units/{unitNumber}/rent [put]
func (h *PropertyHandler) SetUnitRent(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req SetUnitRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.occupancyService.SetUnitRent(
		c.Request.Context(), orgID, propertyID, c.Param("unitNumber"), toDecimal(req.RentAmount),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, unit)
}

// Resize godoc
// @ID           resizeProperty
//
//	@Summary		Resize a property
//	@Description	Change a property's unit count; growth appends units, shrinking parks surplus units in maintenance
//	@Tags			properties
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id			path		string					true	"Property ID"	format(uuid)
//	@Param			request		body		ResizePropertyRequest	true	"Resize request"
//	@Success		200			{object}	APIResponse[propertyapp.ResizeResult]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/resize [post]
func (h *PropertyHandler) Resize(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req ResizePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.occupancyService.Resize(
		c.Request.Context(), orgID, propertyID, req.NumberOfUnits,
		propertyapp.ResizeOptions{ForceVacate: req.ForceVacate},
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecomputeOccupancy godoc
// @ID           recomputePropertyOccupancy
//
//	@Summary		Recompute occupancy
//	@Description	Recalculate the occupancy rate and vacancy tallies from the unit table
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[propertyapp.PropertyResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/occupancy/recompute [post]
func (h *PropertyHandler) RecomputeOccupancy(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	prop, err := h.occupancyService.RecomputeOccupancy(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// RecordExpense godoc
// @ID           recordPropertyExpense
//
//	@Summary		Record a property expense
//	@Description	Record an expense against a property and update its cash flow
//	@Tags			properties
//	@Accept			json
//	@Produce		json
//	@Param			X-Org-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id			path		string					true	"Property ID"	format(uuid)
//	@Param			request		body		RecordExpenseRequest	true	"Expense request"
//	@Success		200			{object}	APIResponse[propertyapp.PropertyResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/expenses [post]
func (h *PropertyHandler) RecordExpense(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := propertyapp.RecordExpenseInput{
		OrgID:       orgID,
		PropertyID:  propertyID,
		Amount:      toDecimal(req.Amount),
		Category:    req.Category,
		Description: req.Description,
		IncurredAt:  parseDateOrNow(req.IncurredAt),
	}

	prop, err := h.propertyService.RecordExpense(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// Archive godoc
// @ID           archiveProperty
//
//	@Summary		Archive a property
//	@Description	Archive a property and cascade over its units, tenants, payments and reminders
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[cascadeapp.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/archive [post]
func (h *PropertyHandler) Archive(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	result, err := h.cascadeService.ArchiveProperty(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Restore godoc
// @ID           restoreProperty
//
//	@Summary		Restore an archived property
//	@Description	Restore an archived property; its units come back as available
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[cascadeapp.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id}/restore [post]
func (h *PropertyHandler) Restore(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	result, err := h.cascadeService.RestoreProperty(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteProperty
//
//	@Summary		Delete a property
//	@Description	Permanently delete a property and cascade over all dependent records
//	@Tags			properties
//	@Produce		json
//	@Param			X-Org-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id			path		string	true	"Property ID"	format(uuid)
//	@Success		200			{object}	APIResponse[cascadeapp.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/portfolio/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	result, err := h.cascadeService.DeleteProperty(c.Request.Context(), orgID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// listFilter builds a repository filter from the common list query fields
func listFilter(page, pageSize int, sortBy, sortOrder string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if sortBy != "" {
		filter.OrderBy = sortBy
	}
	if sortOrder != "" {
		filter.OrderDir = sortOrder
	}
	return filter
}
