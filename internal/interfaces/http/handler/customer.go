package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/procureflow/backend/internal/application/partner"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
)

// CustomerHandler serves the customer directory endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *apppartner.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterRoutes registers customer routes on the given group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id/tier", h.ChangeTier)
		customers.PUT("/:id/tax-settings", h.SetTaxSettings)
		customers.POST("/:id/activate", h.Activate)
		customers.POST("/:id/deactivate", h.Deactivate)
		customers.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), apppartner.CreateCustomerInput{
		TenantID:  tenantID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		TierCode:  req.TierCode,
		TaxRegion: req.TaxRegion,
		TaxExempt: req.TaxExempt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CustomerFromDomain(customer))
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CustomerFromDomain(customer))
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, CustomerFromDomain(&customers[i]))
	}
	h.Success(c, out)
}

// ChangeTier handles PUT /customers/:id/tier
func (h *CustomerHandler) ChangeTier(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.ChangeTier(c.Request.Context(), tenantID, customerID, req.TierCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CustomerFromDomain(customer))
}

// SetTaxSettings handles PUT /customers/:id/tax-settings
func (h *CustomerHandler) SetTaxSettings(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	var req TaxSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.SetTaxSettings(c.Request.Context(), tenantID, customerID, req.TaxRegion, req.TaxExempt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CustomerFromDomain(customer))
}

// Activate handles POST /customers/:id/activate
func (h *CustomerHandler) Activate(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CustomerFromDomain(customer))
}

// Deactivate handles POST /customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CustomerFromDomain(customer))
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenantID, customerID, ok := h.tenantAndCustomerID(c)
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), tenantID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CustomerHandler) tenantAndCustomerID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, uuid.Nil, false
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, uuid.MustParse(idReq.ID), true
}
