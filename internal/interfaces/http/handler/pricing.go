package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppricing "github.com/procureflow/backend/internal/application/pricing"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
)

// ComplexityRequest describes the order complexity inputs the pricing
// policies run against
type ComplexityRequest struct {
	Level               string   `json:"level" binding:"required"`
	MaterialType        string   `json:"material_type" binding:"required"`
	DesignScore         int      `json:"design_score" binding:"min=0,max=10"`
	Quantity            int      `json:"quantity" binding:"required,min=1"`
	SpecialRequirements []string `json:"special_requirements"`
}

func (r ComplexityRequest) toInput() apppricing.ComplexityInput {
	return apppricing.ComplexityInput{
		Level:               r.Level,
		MaterialType:        r.MaterialType,
		DesignScore:         r.DesignScore,
		Quantity:            r.Quantity,
		SpecialRequirements: r.SpecialRequirements,
	}
}

// PriceQuoteRequest is the request body for pricing the order's current
// vendor quote
type PriceQuoteRequest struct {
	Complexity ComplexityRequest `json:"complexity" binding:"required"`
}

// QuoteCandidateRequest is one candidate quote in a comparison request
type QuoteCandidateRequest struct {
	VendorID              string `json:"vendor_id" binding:"required,uuid"`
	QuotedPriceMinorUnits int64  `json:"quoted_price_minor_units" binding:"required,min=1"`
	LeadTimeDays          int    `json:"lead_time_days" binding:"required,min=1"`
}

// CompareQuotesRequest is the request body for comparing candidate quotes
type CompareQuotesRequest struct {
	Quotes     []QuoteCandidateRequest `json:"quotes" binding:"required,min=1,dive"`
	Complexity ComplexityRequest       `json:"complexity" binding:"required"`
}

// PricingHandler serves the pricing and quote comparison endpoints
type PricingHandler struct {
	BaseHandler
	pricingService *apppricing.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *apppricing.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// RegisterRoutes registers pricing routes on the given group
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("/:id/pricing", h.PriceQuote)
		orders.POST("/:id/quote-comparison", h.CompareQuotes)
	}
}

// PriceQuote handles POST /purchase-orders/:id/pricing. It prices the
// order's current vendor quote for the order's customer and returns the
// discount and tax breakdown.
func (h *PricingHandler) PriceQuote(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req PriceQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	structure, err := h.pricingService.PriceCurrentQuote(c.Request.Context(), tenantID, orderID, req.Complexity.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, structure)
}

// CompareQuotes handles POST /purchase-orders/:id/quote-comparison. Every
// candidate is priced with the same policy chain and ranked by final price.
func (h *PricingHandler) CompareQuotes(c *gin.Context) {
	tenantID, orderID, ok := h.tenantAndOrderID(c)
	if !ok {
		return
	}

	var req CompareQuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	candidates := make([]apppricing.QuoteInput, 0, len(req.Quotes))
	for _, q := range req.Quotes {
		candidates = append(candidates, apppricing.QuoteInput{
			VendorID:              uuid.MustParse(q.VendorID),
			QuotedPriceMinorUnits: q.QuotedPriceMinorUnits,
			LeadTimeDays:          q.LeadTimeDays,
		})
	}

	comparison, err := h.pricingService.CompareQuotes(c.Request.Context(), tenantID, orderID, candidates, req.Complexity.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comparison)
}

func (h *PricingHandler) tenantAndOrderID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
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
