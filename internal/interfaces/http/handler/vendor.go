package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/procureflow/backend/internal/application/partner"
	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
)

// VendorHandler serves the vendor directory and matching endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *apppartner.VendorService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService *apppartner.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// RegisterRoutes registers vendor routes on the given group
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vendors := rg.Group("/vendors")
	{
		vendors.POST("", h.Create)
		vendors.GET("", h.List)
		vendors.POST("/matches", h.Match)
		vendors.GET("/:id", h.Get)
		vendors.PATCH("/:id", h.Update)
		vendors.PUT("/:id/rating", h.SetRating)
		vendors.POST("/:id/activate", h.Activate)
		vendors.POST("/:id/deactivate", h.Deactivate)
		vendors.POST("/:id/blacklist", h.Blacklist)
		vendors.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /vendors
func (h *VendorHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), apppartner.CreateVendorInput{
		TenantID:        tenantID,
		Name:            req.Name,
		Code:            req.Code,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Rating:          req.Rating,
		Capabilities:    req.Capabilities,
		MaxActiveOrders: req.MaxActiveOrders,
		MinLeadTimeDays: req.MinLeadTimeDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, VendorFromDomain(vendor))
}

// Get handles GET /vendors/:id
func (h *VendorHandler) Get(c *gin.Context) {
	tenantID, vendorID, ok := h.tenantAndVendorID(c)
	if !ok {
		return
	}

	vendor, err := h.vendorService.Get(c.Request.Context(), tenantID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorFromDomain(vendor))
}

// List handles GET /vendors
func (h *VendorHandler) List(c *gin.Context) {
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
	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	vendors, err := h.vendorService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		out = append(out, VendorFromDomain(&vendors[i]))
	}
	h.Success(c, out)
}

// Update handles PATCH /vendors/:id
func (h *VendorHandler) Update(c *gin.Context) {
	tenantID, vendorID, ok := h.tenantAndVendorID(c)
	if !ok {
		return
	}

	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), apppartner.UpdateVendorInput{
		TenantID:        tenantID,
		VendorID:        vendorID,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Rating:          req.Rating,
		Capabilities:    req.Capabilities,
		MaxActiveOrders: req.MaxActiveOrders,
		MinLeadTimeDays: req.MinLeadTimeDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorFromDomain(vendor))
}

// SetRating handles PUT /vendors/:id/rating
func (h *VendorHandler) SetRating(c *gin.Context) {
	tenantID, vendorID, ok := h.tenantAndVendorID(c)
	if !ok {
		return
	}

	var req SetVendorRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vendor, err := h.vendorService.SetRating(c.Request.Context(), tenantID, vendorID, req.Rating)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorFromDomain(vendor))
}

// Activate handles POST /vendors/:id/activate
func (h *VendorHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Activate)
}

// Deactivate handles POST /vendors/:id/deactivate
func (h *VendorHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Deactivate)
}

// Blacklist handles POST /vendors/:id/blacklist
func (h *VendorHandler) Blacklist(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Blacklist)
}

// Delete handles DELETE /vendors/:id
func (h *VendorHandler) Delete(c *gin.Context) {
	tenantID, vendorID, ok := h.tenantAndVendorID(c)
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), tenantID, vendorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Match handles POST /vendors/matches
func (h *VendorHandler) Match(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req MatchVendorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	matches, err := h.vendorService.Match(c.Request.Context(), req.ToInput(tenantID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorMatchesFromDomain(matches))
}

func (h *VendorHandler) changeStatus(c *gin.Context, change func(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error)) {
	tenantID, vendorID, ok := h.tenantAndVendorID(c)
	if !ok {
		return
	}

	vendor, err := change(c.Request.Context(), tenantID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorFromDomain(vendor))
}

func (h *VendorHandler) tenantAndVendorID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, uuid.Nil, false
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, uuid.MustParse(idReq.ID), true
}
