package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/production"
)

// JobModel is the persistence model for the Job aggregate.
type JobModel struct {
	CompanyAggregateModel
	JobNumber        string          `gorm:"type:varchar(50);not null"`
	PartID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartNumber       string          `gorm:"type:varchar(100);not null"`
	SalesOrderID     *uuid.UUID      `gorm:"type:uuid;index"`
	SalesOrderLineID *uuid.UUID      `gorm:"type:uuid"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityComplete decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status           string          `gorm:"type:varchar(20);not null"`
	DueDate          *time.Time
	Notes            string `gorm:"type:text"`
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the model to a domain Job.
func (m *JobModel) ToDomain() *production.Job {
	return &production.Job{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		JobNumber:            m.JobNumber,
		PartID:               m.PartID,
		PartNumber:           m.PartNumber,
		SalesOrderID:         m.SalesOrderID,
		SalesOrderLineID:     m.SalesOrderLineID,
		Quantity:             m.Quantity,
		QuantityComplete:     m.QuantityComplete,
		Status:               production.JobStatus(m.Status),
		DueDate:              m.DueDate,
		Notes:                m.Notes,
		StartedAt:            m.StartedAt,
		CompletedAt:          m.CompletedAt,
	}
}

// JobModelFromDomain creates a model from a domain Job.
func JobModelFromDomain(j *production.Job) *JobModel {
	m := &JobModel{
		JobNumber:        j.JobNumber,
		PartID:           j.PartID,
		PartNumber:       j.PartNumber,
		SalesOrderID:     j.SalesOrderID,
		SalesOrderLineID: j.SalesOrderLineID,
		Quantity:         j.Quantity,
		QuantityComplete: j.QuantityComplete,
		Status:           string(j.Status),
		DueDate:          j.DueDate,
		Notes:            j.Notes,
		StartedAt:        j.StartedAt,
		CompletedAt:      j.CompletedAt,
	}
	m.FromDomainCompanyAggregateRoot(j.CompanyAggregateRoot)
	return m
}

// Columns returns the mutable columns written by a version checked update
func (m *JobModel) Columns() map[string]any {
	return map[string]any{
		"sales_order_id":      m.SalesOrderID,
		"sales_order_line_id": m.SalesOrderLineID,
		"quantity":            m.Quantity,
		"quantity_complete":   m.QuantityComplete,
		"status":              m.Status,
		"due_date":            m.DueDate,
		"notes":               m.Notes,
		"started_at":          m.StartedAt,
		"completed_at":        m.CompletedAt,
		"updated_at":          m.UpdatedAt,
	}
}
