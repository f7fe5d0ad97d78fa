package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
)

// PartModel is the persistence model for the Part aggregate.
type PartModel struct {
	CompanyAggregateModel
	PartNumber    string            `gorm:"type:varchar(100);not null"`
	Name          string            `gorm:"type:varchar(200);not null"`
	Description   string            `gorm:"type:text"`
	UnitOfMeasure string            `gorm:"type:varchar(20);not null"`
	Replenishment string            `gorm:"type:varchar(10);not null"`
	MaterialCost  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	LaborCost     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	OverheadCost  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Active        bool              `gorm:"not null"`
	PriceBreaks   []PriceBreakModel `gorm:"foreignKey:PartID"`
}

// TableName returns the table name for GORM
func (PartModel) TableName() string {
	return "parts"
}

// PriceBreakModel is a quantity price break of a part.
type PriceBreakModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PriceBreakModel) TableName() string {
	return "part_price_breaks"
}

// ToDomain converts the model to a domain Part.
func (m *PartModel) ToDomain() *catalog.Part {
	p := &catalog.Part{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		PartNumber:           m.PartNumber,
		Name:                 m.Name,
		Description:          m.Description,
		UnitOfMeasure:        m.UnitOfMeasure,
		Replenishment:        catalog.Replenishment(m.Replenishment),
		Cost: catalog.StandardCost{
			Material: m.MaterialCost,
			Labor:    m.LaborCost,
			Overhead: m.OverheadCost,
		},
		UnitPrice:   m.UnitPrice,
		Active:      m.Active,
		PriceBreaks: make([]catalog.PriceBreak, 0, len(m.PriceBreaks)),
	}
	for _, pb := range m.PriceBreaks {
		p.PriceBreaks = append(p.PriceBreaks, catalog.PriceBreak{
			ID:          pb.ID,
			MinQuantity: pb.MinQuantity,
			UnitPrice:   pb.UnitPrice,
		})
	}
	return p
}

// PartModelFromDomain creates a model from a domain Part.
func PartModelFromDomain(p *catalog.Part) *PartModel {
	m := &PartModel{
		PartNumber:    p.PartNumber,
		Name:          p.Name,
		Description:   p.Description,
		UnitOfMeasure: p.UnitOfMeasure,
		Replenishment: string(p.Replenishment),
		MaterialCost:  p.Cost.Material,
		LaborCost:     p.Cost.Labor,
		OverheadCost:  p.Cost.Overhead,
		UnitPrice:     p.UnitPrice,
		Active:        p.Active,
		PriceBreaks:   make([]PriceBreakModel, 0, len(p.PriceBreaks)),
	}
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	for _, pb := range p.PriceBreaks {
		m.PriceBreaks = append(m.PriceBreaks, PriceBreakModel{
			ID:          pb.ID,
			PartID:      p.ID,
			MinQuantity: pb.MinQuantity,
			UnitPrice:   pb.UnitPrice,
		})
	}
	return m
}

// Columns returns the mutable columns written by a version checked update
func (m *PartModel) Columns() map[string]any {
	return map[string]any{
		"part_number":     m.PartNumber,
		"name":            m.Name,
		"description":     m.Description,
		"unit_of_measure": m.UnitOfMeasure,
		"replenishment":   m.Replenishment,
		"material_cost":   m.MaterialCost,
		"labor_cost":      m.LaborCost,
		"overhead_cost":   m.OverheadCost,
		"unit_price":      m.UnitPrice,
		"active":          m.Active,
		"updated_at":      m.UpdatedAt,
	}
}
