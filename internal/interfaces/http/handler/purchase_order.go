package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	purchasingapp "github.com/van-william/carbon-sub017/internal/application/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/export"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// PurchaseOrderService is the part of purchasingapp.PurchaseOrderService the handler uses
type PurchaseOrderService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req purchasingapp.CreatePurchaseOrderRequest) (*purchasingapp.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*purchasingapp.PurchaseOrderResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasingapp.PurchaseOrderResponse, int64, error)
	ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error)
	Update(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.UpdatePurchaseOrderRequest) (*purchasingapp.PurchaseOrderResponse, error)
	Submit(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error)
	Receive(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ReceiveRequest) (*purchasingapp.PurchaseOrderResponse, error)
	Close(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error)
	Cancel(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error)
	Delete(ctx context.Context, companyID, orderID uuid.UUID) error
}

type purchaseOrderAction func(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orders    PurchaseOrderService
	suppliers NameResolver
	documents *DocumentHandler
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orders PurchaseOrderService, suppliers NameResolver, documents *DocumentHandler) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, suppliers: suppliers, documents: documents}
}

// Routes registers the purchase order endpoints under g
func (h *PurchaseOrderHandler) Routes(g *router.DomainGroup) {
	orders := g.Group("purchase-orders", "/orders")
	orders.GET("", h.List)
	orders.POST("", h.Create)
	orders.GET("/export", h.Export)
	orders.GET("/:id", h.GetByID)
	orders.PATCH("/:id", h.Update)
	orders.DELETE("/:id", h.Delete)
	orders.POST("/:id/submit", h.action(h.orders.Submit))
	orders.POST("/:id/receive", h.Receive)
	orders.POST("/:id/close", h.action(h.orders.Close))
	orders.POST("/:id/cancel", h.action(h.orders.Cancel))

	h.documents.Routes(orders, printing.DocTypePurchaseOrder)
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Line prices default to the part's unit cost and the expected date to the supplier lead time
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreatePurchaseOrderRequest true "Purchase order creation request"
// @Success      201 {object} APIResponse[purchasingapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchasing/orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchasingapp.CreatePurchaseOrderRequest
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

// GetByID returns one purchase order
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
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

// List pages through purchase orders. Filters: status, supplier_id.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "supplier_id")
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

// Export writes the filtered purchase orders as XLSX
func (h *PurchaseOrderHandler) Export(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "supplier_id")
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
		ids = append(ids, orders[i].SupplierID)
	}
	names := resolveNames(ctx, h.suppliers, companyID(c), ids)
	writeWorkbook(&h.BaseHandler, c, "purchase-orders", export.PurchaseOrderColumns(names), orders)
}

// Update patches a purchase order
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.UpdatePurchaseOrderRequest
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

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Book a delivery against a purchase order
// @Description  Receipts accumulate per line and may not exceed the ordered quantity
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Purchase order ID" format(uuid)
// @Param        request body purchasingapp.ReceiveRequest true "Received quantities"
// @Success      200 {object} APIResponse[purchasingapp.PurchaseOrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchasing/orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ReceiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orders.Receive(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes a draft purchase order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
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

func (h *PurchaseOrderHandler) action(fn purchaseOrderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		var req purchasingapp.ActionRequest
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
