package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appprocurement "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler serves the purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService  *appprocurement.PurchaseOrderService
	assignService *appprocurement.AssignVendorService
	negotiateSvc  *appprocurement.NegotiateService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(
	orderService *appprocurement.PurchaseOrderService,
	assignService *appprocurement.AssignVendorService,
	negotiateSvc *appprocurement.NegotiateService,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService:  orderService,
		assignService: assignService,
		negotiateSvc:  negotiateSvc,
	}
}

// RegisterRoutes registers purchase order routes on the given group
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/summary", h.StatusSummary)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/sourcing", h.StartSourcing)
		orders.POST("/:id/assign-vendor", h.AssignVendor)
		orders.POST("/:id/negotiate", h.Negotiate)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/production", h.StartProduction)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/payments", h.RecordPayment)
	}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req.ToInput(tenantID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, PurchaseOrderFromDomain(order))
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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

	orders, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrdersFromDomain(orders))
}

// StatusSummary handles GET /purchase-orders/summary
func (h *PurchaseOrderHandler) StatusSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	summary, err := h.orderService.GetStatusSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// StartSourcing handles POST /purchase-orders/:id/sourcing
func (h *PurchaseOrderHandler) StartSourcing(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req StartSourcingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.StartSourcing(c.Request.Context(), appprocurement.StartSourcingInput{
		TenantID:            tenantID,
		OrderID:             orderID,
		Material:            req.Material,
		Quantity:            req.Quantity,
		QualityTier:         req.QualityTier,
		Deadline:            req.Deadline,
		BudgetMinMinorUnits: req.BudgetMinMinorUnits,
		BudgetMaxMinorUnits: req.BudgetMaxMinorUnits,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// AssignVendor handles POST /purchase-orders/:id/assign-vendor
func (h *PurchaseOrderHandler) AssignVendor(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.assignService.Execute(c.Request.Context(), appprocurement.AssignVendorInput{
		TenantID:              tenantID,
		OrderID:               orderID,
		VendorID:              uuid.MustParse(req.VendorID),
		QuotedPriceMinorUnits: req.QuotedPriceMinorUnits,
		LeadTimeDays:          req.LeadTimeDays,
		QuoteExpiresAt:        req.QuoteExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// Negotiate handles POST /purchase-orders/:id/negotiate
func (h *PurchaseOrderHandler) Negotiate(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.negotiateSvc.Execute(c.Request.Context(), appprocurement.NegotiateInput{
		TenantID:              tenantID,
		OrderID:               orderID,
		VendorID:              uuid.MustParse(req.VendorID),
		QuotedPriceMinorUnits: req.QuotedPriceMinorUnits,
		LeadTimeDays:          req.LeadTimeDays,
		QuoteExpiresAt:        req.QuoteExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// Confirm handles POST /purchase-orders/:id/confirm
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// StartProduction handles POST /purchase-orders/:id/production
func (h *PurchaseOrderHandler) StartProduction(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req StartProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.StartProduction(c.Request.Context(), tenantID, orderID, req.ProductionPlan)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// Complete handles POST /purchase-orders/:id/complete
func (h *PurchaseOrderHandler) Complete(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Complete(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// RecordPayment handles POST /purchase-orders/:id/payments
func (h *PurchaseOrderHandler) RecordPayment(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), tenantID, orderID, req.AmountMinorUnits)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PurchaseOrderFromDomain(order))
}

// tenantAndOrderID extracts the tenant and order ID or writes the error
// response itself
func (h *PurchaseOrderHandler) tenantAndOrderID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, uuid.Nil, false
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, uuid.MustParse(idReq.ID), true
}
