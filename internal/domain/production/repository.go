package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// JobRepository defines persistence for jobs
type JobRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Job, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Job, int64, error)
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job, expectedVersion int) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
