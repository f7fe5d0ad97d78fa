package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/van-william/carbon-sub017/internal/application/sales"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/export"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// SalesOrderService is the part of salesapp.SalesOrderService the handler uses
type SalesOrderService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req salesapp.CreateSalesOrderRequest) (*salesapp.SalesOrderResponse, error)
	GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*salesapp.SalesOrderResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]salesapp.SalesOrderResponse, int64, error)
	ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error)
	Update(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.UpdateSalesOrderRequest) (*salesapp.SalesOrderResponse, error)
	Confirm(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)
	Start(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)
	Complete(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)
	Cancel(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)
	Delete(ctx context.Context, companyID, orderID uuid.UUID) error
}

type salesOrderAction func(ctx context.Context, companyID, orderID uuid.UUID, req salesapp.ActionRequest) (*salesapp.SalesOrderResponse, error)

// SalesOrderHandler handles sales order API endpoints
type SalesOrderHandler struct {
	BaseHandler
	orders    SalesOrderService
	customers NameResolver
	documents *DocumentHandler
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orders SalesOrderService, customers NameResolver, documents *DocumentHandler) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders, customers: customers, documents: documents}
}

// Routes registers the sales order endpoints under g
func (h *SalesOrderHandler) Routes(g *router.DomainGroup) {
	orders := g.Group("orders", "/orders")
	orders.GET("", h.List)
	orders.POST("", h.Create)
	orders.GET("/export", h.Export)
	orders.GET("/:id", h.GetByID)
	orders.PATCH("/:id", h.Update)
	orders.DELETE("/:id", h.Delete)
	orders.POST("/:id/confirm", h.action(h.orders.Confirm))
	orders.POST("/:id/start", h.action(h.orders.Start))
	orders.POST("/:id/complete", h.action(h.orders.Complete))
	orders.POST("/:id/cancel", h.action(h.orders.Cancel))

	h.documents.Routes(orders, printing.DocTypeSalesOrder)
}

// Create godoc
// @ID           createSalesOrder
// @Summary      Create a sales order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateSalesOrderRequest true "Sales order creation request"
// @Success      201 {object} APIResponse[salesapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req salesapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orders.Create(c.Request.Context(), companyID(c), userID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID returns one sales order with its lines
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listSalesOrders
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        status      query string false "Filter by status"
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        quote_id    query string false "Filter by source quote" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.SalesOrderResponse]
// @Security     BearerAuth
// @Router       /sales/orders [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "customer_id", "quote_id")
	if !ok {
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Export writes the filtered sales orders as XLSX
func (h *SalesOrderHandler) Export(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "customer_id", "quote_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	orders, err := h.orders.ListAll(ctx, companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].CustomerID)
	}
	names := resolveNames(ctx, h.customers, companyID(c), ids)
	writeWorkbook(&h.BaseHandler, c, "sales-orders", export.SalesOrderColumns(names), orders)
}

// Update patches a sales order
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orders.Update(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes a draft sales order
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), companyID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SalesOrderHandler) action(fn salesOrderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		var req salesapp.ActionRequest
		if !h.bindOptionalJSON(c, &req) {
			return
		}

		order, err := fn(c.Request.Context(), companyID(c), id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, order)
	}
}
