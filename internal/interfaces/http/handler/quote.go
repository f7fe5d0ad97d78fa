package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/van-william/carbon-sub017/internal/application/sales"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/export"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// QuoteService is the part of salesapp.QuoteService the handler uses
type QuoteService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req salesapp.CreateQuoteRequest) (*salesapp.QuoteResponse, error)
	GetByID(ctx context.Context, companyID, quoteID uuid.UUID) (*salesapp.QuoteResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]salesapp.QuoteResponse, int64, error)
	ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.Quote, error)
	Update(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.UpdateQuoteRequest) (*salesapp.QuoteResponse, error)
	AddLine(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.AddQuoteLineRequest) (*salesapp.QuoteResponse, error)
	RemoveLine(ctx context.Context, companyID, quoteID, lineID uuid.UUID, version *int) (*salesapp.QuoteResponse, error)
	SelectQuantity(ctx context.Context, companyID, quoteID, lineID uuid.UUID, req salesapp.SelectQuantityRequest) (*salesapp.QuoteResponse, error)
	Recalculate(ctx context.Context, companyID, quoteID uuid.UUID) (*salesapp.RecalculateResponse, error)
	RequestRecalculation(ctx context.Context, companyID, quoteID uuid.UUID) (*salesapp.TriggerResponse, error)
	Send(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.QuoteResponse, error)
	Lose(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.QuoteResponse, error)
	Cancel(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.QuoteResponse, error)
	Expire(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.QuoteResponse, error)
	Convert(ctx context.Context, companyID, userID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)
	Delete(ctx context.Context, companyID, quoteID uuid.UUID) error
}

type quoteAction func(ctx context.Context, companyID, quoteID uuid.UUID, req salesapp.ActionRequest) (*salesapp.QuoteResponse, error)

// QuoteHandler handles quote-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quotes    QuoteService
	customers NameResolver
	documents *DocumentHandler
}

// NewQuoteHandler creates a new QuoteHandler. customers feeds the export
// sheet and documents the PDF routes; either may be nil.
func NewQuoteHandler(quotes QuoteService, customers NameResolver, documents *DocumentHandler) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, customers: customers, documents: documents}
}

// Routes registers the quote endpoints under g
func (h *QuoteHandler) Routes(g *router.DomainGroup) {
	quotes := g.Group("quotes", "/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.GET("/export", h.Export)
	quotes.GET("/:id", h.GetByID)
	quotes.PATCH("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)

	quotes.POST("/:id/lines", h.AddLine)
	quotes.DELETE("/:id/lines/:line_id", h.RemoveLine)
	quotes.PUT("/:id/lines/:line_id/quantity", h.SelectQuantity)

	quotes.POST("/:id/recalculate", h.Recalculate)
	quotes.POST("/:id/recalculate/async", h.RecalculateAsync)

	quotes.POST("/:id/send", h.action(h.quotes.Send))
	quotes.POST("/:id/lose", h.action(h.quotes.Lose))
	quotes.POST("/:id/cancel", h.action(h.quotes.Cancel))
	quotes.POST("/:id/expire", h.action(h.quotes.Expire))
	quotes.POST("/:id/convert", h.Convert)

	h.documents.Routes(quotes, printing.DocTypeQuote)
}

// Create godoc
// @ID           createQuote
// @Summary      Create a quote
// @Description  Creates a draft quote numbered from the quote sequence. Lines may be supplied inline.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateQuoteRequest true "Quote creation request"
// @Success      201 {object} APIResponse[salesapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req salesapp.CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.Create(c.Request.Context(), companyID(c), userID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// GetByID godoc
// @ID           getQuoteById
// @Summary      Get quote by ID
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.QuoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotes.GetByID(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// List godoc
// @ID           listQuotes
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Param        status      query string false "Filter by status"
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.QuoteResponse]
// @Security     BearerAuth
// @Router       /sales/quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "customer_id")
	if !ok {
		return
	}

	quotes, total, err := h.quotes.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// Export godoc
// @ID           exportQuotes
// @Summary      Export quotes to XLSX
// @Description  Same filters as the list endpoint, without paging
// @Tags         quotes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /sales/quotes/export [get]
func (h *QuoteHandler) Export(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "customer_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	quotes, err := h.quotes.ListAll(ctx, companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(quotes))
	for i := range quotes {
		ids = append(ids, quotes[i].CustomerID)
	}
	names := resolveNames(ctx, h.customers, companyID(c), ids)
	writeWorkbook(&h.BaseHandler, c, "quotes", export.QuoteColumns(names), quotes)
}

// Update godoc
// @ID           updateQuote
// @Summary      Update quote header
// @Description  Patches expiration date and notes. Send the version you read to detect concurrent edits.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string true "Quote ID" format(uuid)
// @Param        request body salesapp.UpdateQuoteRequest true "Quote update request"
// @Success      200 {object} APIResponse[salesapp.QuoteResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes/{id} [patch]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.Update(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Delete removes a draft quote
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quotes.Delete(c.Request.Context(), companyID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine prices a part at the requested quantities and appends it
func (h *QuoteHandler) AddLine(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.AddQuoteLineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.AddLine(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// RemoveLine deletes a line. The expected version may be passed as
// ?version=.
func (h *QuoteHandler) RemoveLine(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseID(c, "line_id")
	if !ok {
		return
	}
	var version *int
	if raw := c.Query("version"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "version must be an integer")
			return
		}
		version = &v
	}

	quote, err := h.quotes.RemoveLine(c.Request.Context(), companyID(c), id, lineID, version)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// SelectQuantity marks which priced quantity of a line the customer takes
func (h *QuoteHandler) SelectQuantity(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseID(c, "line_id")
	if !ok {
		return
	}
	var req salesapp.SelectQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.SelectQuantity(c.Request.Context(), companyID(c), id, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Recalculate godoc
// @ID           recalculateQuote
// @Summary      Reprice a quote from current part costs
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.RecalculateResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes/{id}/recalculate [post]
func (h *QuoteHandler) Recalculate(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.quotes.Recalculate(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecalculateAsync godoc
// @ID           recalculateQuoteAsync
// @Summary      Queue a quote reprice
// @Description  Hands a price.recalculate task to the worker and returns without waiting
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      202 {object} APIResponse[salesapp.TriggerResponse]
// @Security     BearerAuth
// @Router       /sales/quotes/{id}/recalculate/async [post]
func (h *QuoteHandler) RecalculateAsync(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.quotes.RequestRecalculation(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Accepted(c, resp)
}

// Convert godoc
// @ID           convertQuote
// @Summary      Convert a quote into a sales order
// @Description  Each line is ordered at its selected quantity. The quote moves to ordered.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string true "Quote ID" format(uuid)
// @Param        request body salesapp.ActionRequest false "Expected version"
// @Success      201 {object} APIResponse[salesapp.SalesOrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ActionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	order, err := h.quotes.Convert(c.Request.Context(), companyID(c), userID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// action adapts a status change of the quote service into a handler
func (h *QuoteHandler) action(fn quoteAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		var req salesapp.ActionRequest
		if !h.bindOptionalJSON(c, &req) {
			return
		}

		quote, err := fn(c.Request.Context(), companyID(c), id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, quote)
	}
}
