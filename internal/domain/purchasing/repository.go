package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, int64, error)
	Create(ctx context.Context, order *PurchaseOrder) error
	Update(ctx context.Context, order *PurchaseOrder, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
