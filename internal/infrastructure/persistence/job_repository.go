package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJobRepository implements production.JobRepository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByID finds a job within a company
func (r *GormJobRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*production.Job, error) {
	var m models.JobModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of jobs and the total match count
func (r *GormJobRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]production.Job, int64, error) {
	rows, total, err := findPage[models.JobModel](
		r.db.WithContext(ctx).Model(&models.JobModel{}).Where("company_id = ?", companyID),
		jobList, filter, nil)
	if err != nil {
		return nil, 0, err
	}
	out := make([]production.Job, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a job
func (r *GormJobRepository) Create(ctx context.Context, job *production.Job) error {
	return translateError(r.db.WithContext(ctx).Create(models.JobModelFromDomain(job)).Error)
}

// Update persists the job when the stored version matches expectedVersion
func (r *GormJobRepository) Update(ctx context.Context, job *production.Job, expectedVersion int) error {
	m := models.JobModelFromDomain(job)
	if err := updateVersioned(r.db.WithContext(ctx), &models.JobModel{}, job.CompanyID, job.ID, expectedVersion, m.Columns()); err != nil {
		return err
	}
	job.Version = expectedVersion + 1
	return nil
}

// Delete removes a job
func (r *GormJobRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.JobModel{}, companyID, id)
}

var _ production.JobRepository = (*GormJobRepository)(nil)
