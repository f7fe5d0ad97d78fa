package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// PartRepository defines persistence for parts and their price breaks
type PartRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Part, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Part, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Part, int64, error)
	Create(ctx context.Context, part *Part) error
	Update(ctx context.Context, part *Part, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
