package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Customer, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	Create(ctx context.Context, customer *Customer) error
	// Update persists the customer if its stored version equals expectedVersion
	Update(ctx context.Context, customer *Customer, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Supplier, int64, error)
	Create(ctx context.Context, supplier *Supplier) error
	Update(ctx context.Context, supplier *Supplier, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
