// Package production models manufacturing jobs on the shop floor.
package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusDraft      JobStatus = "Draft"
	JobStatusPlanned    JobStatus = "Planned"
	JobStatusReady      JobStatus = "Ready"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusPaused     JobStatus = "Paused"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusCancelled  JobStatus = "Cancelled"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusDraft, JobStatusPlanned, JobStatusReady, JobStatusInProgress,
		JobStatusPaused, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == JobStatusCancelled {
		return true
	}
	switch s {
	case JobStatusDraft:
		return target == JobStatusPlanned || target == JobStatusReady
	case JobStatusPlanned:
		return target == JobStatusReady
	case JobStatusReady:
		return target == JobStatusInProgress
	case JobStatusInProgress:
		return target == JobStatusPaused || target == JobStatusCompleted
	case JobStatusPaused:
		return target == JobStatusInProgress
	}
	return false
}

// Job is the aggregate root for a production order
type Job struct {
	shared.CompanyAggregateRoot
	JobNumber        string
	PartID           uuid.UUID
	PartNumber       string
	SalesOrderID     *uuid.UUID
	SalesOrderLineID *uuid.UUID
	Quantity         decimal.Decimal
	QuantityComplete decimal.Decimal
	Status           JobStatus
	DueDate          *time.Time
	Notes            string
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// NewJob creates a draft job to make quantity of a part
func NewJob(companyID uuid.UUID, jobNumber string, partID uuid.UUID, partNumber string, quantity decimal.Decimal) (*Job, error) {
	if jobNumber == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NUMBER", "Job number cannot be empty")
	}
	if partID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PART", "Part is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &Job{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		JobNumber:            jobNumber,
		PartID:               partID,
		PartNumber:           partNumber,
		Quantity:             quantity,
		QuantityComplete:     decimal.Zero,
		Status:               JobStatusDraft,
	}, nil
}

// LinkSalesOrder records the demand this job fulfils
func (j *Job) LinkSalesOrder(orderID, lineID uuid.UUID) {
	j.SalesOrderID = &orderID
	j.SalesOrderLineID = &lineID
}

// SetQuantity changes the planned quantity before work starts
func (j *Job) SetQuantity(quantity decimal.Decimal) error {
	if j.Status != JobStatusDraft && j.Status != JobStatusPlanned {
		return shared.NewDomainError("JOB_NOT_EDITABLE", "Quantity can only change before the job is released")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	j.Quantity = quantity
	j.Touch()
	return nil
}

// SetDueDate sets the due date
func (j *Job) SetDueDate(date *time.Time) error {
	if j.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	j.DueDate = date
	j.Touch()
	return nil
}

// SetNotes replaces the job notes
func (j *Job) SetNotes(notes string) {
	j.Notes = notes
	j.Touch()
}

func (j *Job) transition(target JobStatus) error {
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move job from %s to %s", j.Status, target))
	}
	j.Status = target
	j.Touch()
	return nil
}

// Plan schedules the job
func (j *Job) Plan() error {
	return j.transition(JobStatusPlanned)
}

// Release makes the job available to the shop floor
func (j *Job) Release() error {
	return j.transition(JobStatusReady)
}

// Start begins work on the job
func (j *Job) Start() error {
	if err := j.transition(JobStatusInProgress); err != nil {
		return err
	}
	if j.StartedAt == nil {
		now := time.Now()
		j.StartedAt = &now
	}
	return nil
}

// Pause suspends work
func (j *Job) Pause() error {
	return j.transition(JobStatusPaused)
}

// Resume continues paused work
func (j *Job) Resume() error {
	if j.Status != JobStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only paused jobs can be resumed")
	}
	return j.transition(JobStatusInProgress)
}

// ReportProgress adds produced quantity. The total may never exceed the
// job quantity.
func (j *Job) ReportProgress(quantity decimal.Decimal) error {
	if j.Status != JobStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Progress can only be reported on a job in progress")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	total := j.QuantityComplete.Add(quantity)
	if total.GreaterThan(j.Quantity) {
		return shared.NewDomainError("OVER_PRODUCTION", "Completed quantity would exceed the job quantity")
	}
	j.QuantityComplete = total
	j.Touch()
	return nil
}

// Complete finishes the job, optionally reporting a final quantity first
func (j *Job) Complete(finalQuantity decimal.Decimal) error {
	if finalQuantity.IsPositive() {
		if err := j.ReportProgress(finalQuantity); err != nil {
			return err
		}
	}
	if err := j.transition(JobStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	j.CompletedAt = &now
	j.AddDomainEvent(NewJobCompletedEvent(j))
	return nil
}

// Cancel cancels any job that is not finished
func (j *Job) Cancel() error {
	return j.transition(JobStatusCancelled)
}

// Progress returns the completed share of the job between 0 and 1
func (j *Job) Progress() decimal.Decimal {
	if j.Quantity.IsZero() {
		return decimal.Zero
	}
	return j.QuantityComplete.Div(j.Quantity).Round(4)
}
