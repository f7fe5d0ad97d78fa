package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
)

// JobProvider loads the traveler for a production job
type JobProvider struct {
	jobRepo   production.JobRepository
	partRepo  catalog.PartRepository
	orderRepo sales.SalesOrderRepository
}

// NewJobProvider creates a new JobProvider
func NewJobProvider(jobRepo production.JobRepository, partRepo catalog.PartRepository, orderRepo sales.SalesOrderRepository) *JobProvider {
	return &JobProvider{jobRepo: jobRepo, partRepo: partRepo, orderRepo: orderRepo}
}

// DocType returns the document type this provider handles
func (p *JobProvider) DocType() printing.DocType {
	return printing.DocTypeJob
}

// GetData retrieves job data for rendering. A deleted part or sales order
// leaves the corresponding traveler field blank.
func (p *JobProvider) GetData(ctx context.Context, companyID, documentID uuid.UUID) (*infra.DocumentData, error) {
	job, err := p.jobRepo.FindByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	jd := &infra.JobData{
		PartNumber:       job.PartNumber,
		Quantity:         job.Quantity,
		QuantityComplete: job.QuantityComplete,
		StartedAt:        job.StartedAt,
	}

	part, err := p.partRepo.FindByID(ctx, companyID, job.PartID)
	switch {
	case err == nil:
		jd.PartName = part.Name
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("failed to load part: %w", err)
	}

	if job.SalesOrderID != nil {
		order, err := p.orderRepo.FindByID(ctx, companyID, *job.SalesOrderID)
		switch {
		case err == nil:
			jd.SalesOrder = order.OrderNumber
		case !errors.Is(err, shared.ErrNotFound):
			return nil, fmt.Errorf("failed to load sales order: %w", err)
		}
	}

	data := newDocument(printing.DocTypeJob, companyID, job.ID, job.JobNumber, job.Status.String())
	data.Meta.Date = job.CreatedAt
	data.Meta.DueLabel = "Due"
	data.Meta.DueDate = job.DueDate
	data.Meta.Notes = job.Notes
	data.Meta.Reference = jd.SalesOrder
	data.Job = jd
	data.PrintedAt = time.Now()
	return data, nil
}

var _ infra.DataProvider = (*JobProvider)(nil)
