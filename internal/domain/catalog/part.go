// Package catalog holds items the company buys, makes and sells.
package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// Replenishment tells whether a part is bought or manufactured
type Replenishment string

const (
	ReplenishmentBuy  Replenishment = "buy"
	ReplenishmentMake Replenishment = "make"
)

// IsValid checks if the Replenishment is a valid value
func (r Replenishment) IsValid() bool {
	return r == ReplenishmentBuy || r == ReplenishmentMake
}

// StandardCost is the per-unit cost build up of a part
type StandardCost struct {
	Material decimal.Decimal `json:"material"`
	Labor    decimal.Decimal `json:"labor"`
	Overhead decimal.Decimal `json:"overhead"`
}

// UnitCost rolls the cost components into a single unit cost
func (c StandardCost) UnitCost() decimal.Decimal {
	return c.Material.Add(c.Labor).Add(c.Overhead)
}

func (c StandardCost) validate() error {
	if c.Material.IsNegative() || c.Labor.IsNegative() || c.Overhead.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost components cannot be negative")
	}
	return nil
}

// PriceBreak changes the unit price once the ordered quantity reaches MinQuantity
type PriceBreak struct {
	ID          uuid.UUID       `json:"id"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Part is the aggregate root for an item master record
type Part struct {
	shared.CompanyAggregateRoot
	PartNumber    string
	Name          string
	Description   string
	UnitOfMeasure string
	Replenishment Replenishment
	Cost          StandardCost
	UnitPrice     decimal.Decimal
	Active        bool
	PriceBreaks   []PriceBreak
}

// NewPart creates a new active part
func NewPart(companyID uuid.UUID, partNumber, name string, replenishment Replenishment) (*Part, error) {
	partNumber = strings.ToUpper(strings.TrimSpace(partNumber))
	if partNumber == "" || len(partNumber) > 64 {
		return nil, shared.NewDomainError("INVALID_PART_NUMBER", "Part number must be 1 to 64 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if replenishment == "" {
		replenishment = ReplenishmentBuy
	}
	if !replenishment.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPLENISHMENT", "Replenishment must be buy or make")
	}

	return &Part{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		PartNumber:           partNumber,
		Name:                 strings.TrimSpace(name),
		UnitOfMeasure:        "EA",
		Replenishment:        replenishment,
		Cost:                 StandardCost{Material: decimal.Zero, Labor: decimal.Zero, Overhead: decimal.Zero},
		UnitPrice:            decimal.Zero,
		Active:               true,
	}, nil
}

// SetCost replaces the standard cost components
func (p *Part) SetCost(cost StandardCost) error {
	if err := cost.validate(); err != nil {
		return err
	}
	p.Cost = cost
	p.Touch()
	return nil
}

// SetUnitPrice sets the list price used when no price break applies
func (p *Part) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	p.UnitPrice = price
	p.Touch()
	return nil
}

// SetPriceBreaks replaces the price break table. Breaks are kept sorted by
// MinQuantity and each quantity may appear once.
func (p *Part) SetPriceBreaks(breaks []PriceBreak) error {
	sorted := make([]PriceBreak, len(breaks))
	copy(sorted, breaks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity.LessThan(sorted[j].MinQuantity)
	})

	for i := range sorted {
		b := &sorted[i]
		if !b.MinQuantity.IsPositive() {
			return shared.NewDomainError("INVALID_PRICE_BREAK", "Price break quantity must be positive")
		}
		if b.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE_BREAK", "Price break price cannot be negative")
		}
		if i > 0 && sorted[i-1].MinQuantity.Equal(b.MinQuantity) {
			return shared.NewDomainError("DUPLICATE_PRICE_BREAK", "Price break quantities must be unique")
		}
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
	}

	p.PriceBreaks = sorted
	p.Touch()
	return nil
}

// PriceFor selects the unit price for quantity: the break with the largest
// MinQuantity not above quantity, else the list price.
func (p *Part) PriceFor(quantity decimal.Decimal) decimal.Decimal {
	price := p.UnitPrice
	for _, b := range p.PriceBreaks {
		if b.MinQuantity.GreaterThan(quantity) {
			break
		}
		price = b.UnitPrice
	}
	return price
}

// HasListPrice reports whether the part carries any sell price
func (p *Part) HasListPrice() bool {
	return p.UnitPrice.IsPositive() || len(p.PriceBreaks) > 0
}

// Deactivate hides the part from new documents
func (p *Part) Deactivate() {
	p.Active = false
	p.Touch()
}

// Activate re-enables the part
func (p *Part) Activate() {
	p.Active = true
	p.Touch()
}
