package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/van-william/carbon-sub017/internal/application/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// PartService is the part of catalogapp.PartService the handler uses
type PartService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req catalogapp.CreatePartRequest) (*catalogapp.PartResponse, error)
	GetByID(ctx context.Context, companyID, partID uuid.UUID) (*catalogapp.PartResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalogapp.PartResponse, int64, error)
	Update(ctx context.Context, companyID, partID uuid.UUID, req catalogapp.UpdatePartRequest) (*catalogapp.PartResponse, error)
	SetPriceBreaks(ctx context.Context, companyID, partID uuid.UUID, req catalogapp.SetPriceBreaksRequest) (*catalogapp.PartResponse, error)
	Price(ctx context.Context, companyID, partID uuid.UUID, quantity decimal.Decimal) (*catalogapp.PriceResponse, error)
	Delete(ctx context.Context, companyID, partID uuid.UUID) error
}

// PartHandler handles part-related API endpoints
type PartHandler struct {
	BaseHandler
	parts PartService
}

// NewPartHandler creates a new PartHandler
func NewPartHandler(parts PartService) *PartHandler {
	return &PartHandler{parts: parts}
}

// Routes registers the part endpoints under g
func (h *PartHandler) Routes(g *router.DomainGroup) {
	parts := g.Group("parts", "/parts")
	parts.GET("", h.List)
	parts.POST("", h.Create)
	parts.GET("/:id", h.GetByID)
	parts.PATCH("/:id", h.Update)
	parts.DELETE("/:id", h.Delete)
	parts.PUT("/:id/price-breaks", h.SetPriceBreaks)
	parts.GET("/:id/price", h.Price)
}

// Create creates a part
// @ID      createPart
// @Tags    parts
// @Param   request body catalogapp.CreatePartRequest true "Part creation request"
// @Success 201 {object} APIResponse[catalogapp.PartResponse]
// @Router  /items/parts [post]
func (h *PartHandler) Create(c *gin.Context) {
	var req catalogapp.CreatePartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	part, err := h.parts.Create(c.Request.Context(), companyID(c), userID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, part)
}

// GetByID returns one part with its price breaks
func (h *PartHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	part, err := h.parts.GetByID(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, part)
}

// List pages through parts. Filters: replenishment, active.
func (h *PartHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c, "replenishment", "active")
	if !ok {
		return
	}

	parts, total, err := h.parts.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, parts, total, filter.Page, filter.PageSize)
}

// Update patches a part
func (h *PartHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdatePartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	part, err := h.parts.Update(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, part)
}

// SetPriceBreaks godoc
// @ID           setPartPriceBreaks
// @Summary      Replace the price-break table of a part
// @Tags         parts
// @Accept       json
// @Produce      json
// @Param        id      path string true "Part ID" format(uuid)
// @Param        request body catalogapp.SetPriceBreaksRequest true "Break table"
// @Success      200 {object} APIResponse[catalogapp.PartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /items/parts/{id}/price-breaks [put]
func (h *PartHandler) SetPriceBreaks(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetPriceBreaksRequest
	if !h.bindJSON(c, &req) {
		return
	}

	part, err := h.parts.SetPriceBreaks(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, part)
}

// Price godoc
// @ID           getPartPrice
// @Summary      Price a part for a quantity
// @Description  Picks the price break with the largest minimum quantity not above the requested quantity
// @Tags         parts
// @Produce      json
// @Param        id       path  string true "Part ID" format(uuid)
// @Param        quantity query number true "Quantity"
// @Success      200 {object} APIResponse[catalogapp.PriceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /items/parts/{id}/price [get]
func (h *PartHandler) Price(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		h.BadRequest(c, "quantity must be a number")
		return
	}

	price, err := h.parts.Price(c.Request.Context(), companyID(c), id, quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, price)
}

// Delete removes a part
func (h *PartHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.parts.Delete(c.Request.Context(), companyID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
