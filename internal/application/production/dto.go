// Package production holds the job use cases.
package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/production"
)

// CreateJobRequest creates a draft job. When SalesOrderID and
// SalesOrderLineID are set the part and quantity default to the order line.
type CreateJobRequest struct {
	PartID           uuid.UUID       `json:"part_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	SalesOrderID     *uuid.UUID      `json:"sales_order_id"`
	SalesOrderLineID *uuid.UUID      `json:"sales_order_line_id" binding:"required_with=SalesOrderID"`
	DueDate          *time.Time      `json:"due_date"`
	Notes            string          `json:"notes"`
}

// UpdateJobRequest patches a job
type UpdateJobRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	DueDate  *time.Time       `json:"due_date"`
	Notes    *string          `json:"notes"`
	Version  *int             `json:"version"`
}

// QuantityRequest reports produced quantity
type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Version  *int            `json:"version"`
}

// ActionRequest carries the optional version for a status change
type ActionRequest struct {
	Version *int `json:"version"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	JobNumber        string          `json:"job_number"`
	PartID           uuid.UUID       `json:"part_id"`
	PartNumber       string          `json:"part_number"`
	SalesOrderID     *uuid.UUID      `json:"sales_order_id,omitempty"`
	SalesOrderLineID *uuid.UUID      `json:"sales_order_line_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityComplete decimal.Decimal `json:"quantity_complete"`
	Progress         decimal.Decimal `json:"progress"`
	Status           string          `json:"status"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	Notes            string          `json:"notes"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToJobResponse converts a domain Job to JobResponse
func ToJobResponse(j *production.Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		CompanyID:        j.CompanyID,
		JobNumber:        j.JobNumber,
		PartID:           j.PartID,
		PartNumber:       j.PartNumber,
		SalesOrderID:     j.SalesOrderID,
		SalesOrderLineID: j.SalesOrderLineID,
		Quantity:         j.Quantity,
		QuantityComplete: j.QuantityComplete,
		Progress:         j.Progress(),
		Status:           j.Status.String(),
		DueDate:          j.DueDate,
		Notes:            j.Notes,
		StartedAt:        j.StartedAt,
		CompletedAt:      j.CompletedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
		Version:          j.Version,
	}
}
