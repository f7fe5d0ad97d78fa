package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// QuoteRepository defines persistence for quotes with their lines and prices
type QuoteRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Quote, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Quote, int64, error)
	Create(ctx context.Context, quote *Quote) error
	// Update persists header and lines if the stored version equals expectedVersion
	Update(ctx context.Context, quote *Quote, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ExpiryFinder lists sent quotes, across companies, whose expiration date
// is before asOf, oldest first
type ExpiryFinder interface {
	FindExpired(ctx context.Context, asOf time.Time, limit int) ([]Quote, error)
}

// SalesOrderRepository defines persistence for sales orders
type SalesOrderRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*SalesOrder, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SalesOrder, int64, error)
	Create(ctx context.Context, order *SalesOrder) error
	Update(ctx context.Context, order *SalesOrder, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
