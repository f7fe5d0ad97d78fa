package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
)

// SequenceModel is one numbering row per company and document type.
type SequenceModel struct {
	CompanyID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentType string    `gorm:"type:varchar(50);primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Prefix       string    `gorm:"type:varchar(50);not null"`
	Suffix       string    `gorm:"type:varchar(50);not null"`
	Next         int64     `gorm:"column:next;not null"`
	Size         int       `gorm:"column:size;not null"`
	Step         int64     `gorm:"column:step;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}

// ToDomain converts the model to a domain Sequence
func (m *SequenceModel) ToDomain() *sequence.Sequence {
	return &sequence.Sequence{
		CompanyID:    m.CompanyID,
		DocumentType: sequence.DocumentType(m.DocumentType),
		Name:         m.Name,
		Prefix:       m.Prefix,
		Suffix:       m.Suffix,
		Next:         m.Next,
		Size:         m.Size,
		Step:         m.Step,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SequenceModelFromDomain creates a model from a domain Sequence
func SequenceModelFromDomain(s *sequence.Sequence) *SequenceModel {
	return &SequenceModel{
		CompanyID:    s.CompanyID,
		DocumentType: string(s.DocumentType),
		Name:         s.Name,
		Prefix:       s.Prefix,
		Suffix:       s.Suffix,
		Next:         s.Next,
		Size:         s.Size,
		Step:         s.Step,
		UpdatedAt:    s.UpdatedAt,
	}
}
