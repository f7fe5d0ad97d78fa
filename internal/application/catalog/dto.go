package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
)

// CostRequest is the standard cost build up
type CostRequest struct {
	Material decimal.Decimal `json:"material"`
	Labor    decimal.Decimal `json:"labor"`
	Overhead decimal.Decimal `json:"overhead"`
}

// CreatePartRequest represents a request to create a part
type CreatePartRequest struct {
	PartNumber    string           `json:"part_number" binding:"required,min=1,max=64"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	UnitOfMeasure string           `json:"unit_of_measure" binding:"max=16"`
	Replenishment string           `json:"replenishment" binding:"omitempty,oneof=buy make"`
	Cost          *CostRequest     `json:"cost"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
}

// UpdatePartRequest patches a part
type UpdatePartRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	UnitOfMeasure *string          `json:"unit_of_measure" binding:"omitempty,min=1,max=16"`
	Replenishment *string          `json:"replenishment" binding:"omitempty,oneof=buy make"`
	Cost          *CostRequest     `json:"cost"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Active        *bool            `json:"active"`
	Version       *int             `json:"version"`
}

// PriceBreakRequest is one row of the break table
type PriceBreakRequest struct {
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// SetPriceBreaksRequest replaces the whole break table
type SetPriceBreaksRequest struct {
	Breaks  []PriceBreakRequest `json:"breaks" binding:"dive"`
	Version *int                `json:"version"`
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID            uuid.UUID            `json:"id"`
	CompanyID     uuid.UUID            `json:"company_id"`
	PartNumber    string               `json:"part_number"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	UnitOfMeasure string               `json:"unit_of_measure"`
	Replenishment string               `json:"replenishment"`
	Cost          catalog.StandardCost `json:"cost"`
	UnitCost      decimal.Decimal      `json:"unit_cost"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	Active        bool                 `json:"active"`
	PriceBreaks   []catalog.PriceBreak `json:"price_breaks"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// PriceResponse is the price a part sells at for a quantity
type PriceResponse struct {
	PartID        uuid.UUID       `json:"part_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	// Source is "price_break" or "list"
	Source string `json:"source"`
}

// ToPartResponse converts a domain Part to PartResponse
func ToPartResponse(p *catalog.Part) PartResponse {
	breaks := p.PriceBreaks
	if breaks == nil {
		breaks = []catalog.PriceBreak{}
	}
	return PartResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		PartNumber:    p.PartNumber,
		Name:          p.Name,
		Description:   p.Description,
		UnitOfMeasure: p.UnitOfMeasure,
		Replenishment: string(p.Replenishment),
		Cost:          p.Cost,
		UnitCost:      p.Cost.UnitCost(),
		UnitPrice:     p.UnitPrice,
		Active:        p.Active,
		PriceBreaks:   breaks,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
