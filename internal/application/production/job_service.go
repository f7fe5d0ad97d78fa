package production

import (
	"context"

	"github.com/google/uuid"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// JobService handles job business operations
type JobService struct {
	jobRepo        production.JobRepository
	partRepo       catalog.PartRepository
	orderRepo      sales.SalesOrderRepository
	sequences      sequenceapp.Issuer
	eventPublisher shared.EventPublisher
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo production.JobRepository,
	partRepo catalog.PartRepository,
	orderRepo sales.SalesOrderRepository,
	sequences sequenceapp.Issuer,
) *JobService {
	return &JobService{
		jobRepo:   jobRepo,
		partRepo:  partRepo,
		orderRepo: orderRepo,
		sequences: sequences,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *JobService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create numbers and saves a draft job
func (s *JobService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreateJobRequest) (*JobResponse, error) {
	partID, quantity := req.PartID, req.Quantity
	var demand *sales.SalesOrderLine

	if req.SalesOrderID != nil {
		if req.SalesOrderLineID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "A sales order line is required with a sales order")
		}
		order, err := s.orderRepo.FindByID(ctx, companyID, *req.SalesOrderID)
		if err != nil {
			return nil, err
		}
		if order.Status == sales.OrderStatusCancelled || order.Status == sales.OrderStatusCompleted {
			return nil, shared.NewDomainError("INVALID_STATE", "Jobs cannot be raised against a closed sales order")
		}
		for i := range order.Lines {
			if order.Lines[i].ID == *req.SalesOrderLineID {
				demand = &order.Lines[i]
				break
			}
		}
		if demand == nil {
			return nil, shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Order line not found")
		}
		if partID == uuid.Nil {
			partID = demand.PartID
		}
		if partID != demand.PartID {
			return nil, shared.NewDomainError("INVALID_PART", "Job part must match the sales order line")
		}
		if quantity.IsZero() {
			quantity = demand.Quantity
		}
	}

	part, err := s.partRepo.FindByID(ctx, companyID, partID)
	if err != nil {
		return nil, err
	}
	if !part.Active {
		return nil, shared.NewDomainError("INVALID_PART", "Part is missing or inactive")
	}

	var created *production.Job
	err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeJob, func(number string) error {
		job, err := production.NewJob(companyID, number, part.ID, part.PartNumber, quantity)
		if err != nil {
			return err
		}
		job.SetCreatedBy(userID)
		if demand != nil {
			job.LinkSalesOrder(*req.SalesOrderID, demand.ID)
		}
		job.DueDate = req.DueDate
		job.Notes = req.Notes
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return err
		}
		created = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToJobResponse(created)
	return &response, nil
}

// GetByID retrieves a job by ID
func (s *JobService) GetByID(ctx context.Context, companyID, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	response := ToJobResponse(job)
	return &response, nil
}

// List retrieves one page of jobs
func (s *JobService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]JobResponse, int64, error) {
	jobs, total, err := s.jobRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]JobResponse, len(jobs))
	for i := range jobs {
		out[i] = ToJobResponse(&jobs[i])
	}
	return out, total, nil
}

// ListAll returns every job matching filter, for export
func (s *JobService) ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]production.Job, error) {
	return shared.CollectAll(filter, func(f shared.Filter) ([]production.Job, int64, error) {
		return s.jobRepo.FindAll(ctx, companyID, f)
	})
}

func (s *JobService) mutate(ctx context.Context, companyID, jobID uuid.UUID, version *int, fn func(*production.Job) error) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.CheckVersion(version); err != nil {
		return nil, err
	}
	expected := job.Version
	if err := fn(job); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job, expected); err != nil {
		return nil, err
	}
	shared.PublishPending(ctx, s.eventPublisher, job)

	response := ToJobResponse(job)
	return &response, nil
}

// Update patches the job
func (s *JobService) Update(ctx context.Context, companyID, jobID uuid.UUID, req UpdateJobRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error {
		if req.Quantity != nil {
			if err := j.SetQuantity(*req.Quantity); err != nil {
				return err
			}
		}
		if req.DueDate != nil {
			if err := j.SetDueDate(req.DueDate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			j.SetNotes(*req.Notes)
		}
		return nil
	})
}

// Plan schedules the job
func (s *JobService) Plan(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Plan() })
}

// Release hands the job to the shop floor
func (s *JobService) Release(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Release() })
}

// Start begins work
func (s *JobService) Start(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Start() })
}

// Pause suspends work
func (s *JobService) Pause(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Pause() })
}

// Resume continues paused work
func (s *JobService) Resume(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Resume() })
}

// ReportProgress adds produced quantity without finishing the job
func (s *JobService) ReportProgress(ctx context.Context, companyID, jobID uuid.UUID, req QuantityRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.ReportProgress(req.Quantity) })
}

// Complete finishes the job. A positive quantity is booked first.
func (s *JobService) Complete(ctx context.Context, companyID, jobID uuid.UUID, req QuantityRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Complete(req.Quantity) })
}

// Cancel cancels the job
func (s *JobService) Cancel(ctx context.Context, companyID, jobID uuid.UUID, req ActionRequest) (*JobResponse, error) {
	return s.mutate(ctx, companyID, jobID, req.Version, func(j *production.Job) error { return j.Cancel() })
}

// Delete removes a draft job
func (s *JobService) Delete(ctx context.Context, companyID, jobID uuid.UUID) error {
	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		return err
	}
	if job.Status != production.JobStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft jobs can be deleted")
	}
	return s.jobRepo.Delete(ctx, companyID, jobID)
}
