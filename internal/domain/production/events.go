package production

import (
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

const (
	AggregateTypeJob = "Job"

	EventTypeJobCompleted = "JobCompleted"
)

// JobCompletedEvent is raised when a job finishes
type JobCompletedEvent struct {
	shared.BaseDomainEvent
	JobNumber        string          `json:"job_number"`
	PartNumber       string          `json:"part_number"`
	QuantityComplete decimal.Decimal `json:"quantity_complete"`
}

// NewJobCompletedEvent creates a new JobCompletedEvent
func NewJobCompletedEvent(j *Job) *JobCompletedEvent {
	return &JobCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeJobCompleted, AggregateTypeJob, j.ID, j.CompanyID),
		JobNumber:        j.JobNumber,
		PartNumber:       j.PartNumber,
		QuantityComplete: j.QuantityComplete,
	}
}
