// Package catalog holds the part master use cases.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// PartService handles part-related business operations
type PartService struct {
	partRepo catalog.PartRepository
}

// NewPartService creates a new PartService
func NewPartService(partRepo catalog.PartRepository) *PartService {
	return &PartService{partRepo: partRepo}
}

// Create creates a new part
func (s *PartService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreatePartRequest) (*PartResponse, error) {
	part, err := catalog.NewPart(companyID, req.PartNumber, req.Name, catalog.Replenishment(req.Replenishment))
	if err != nil {
		return nil, err
	}
	part.SetCreatedBy(userID)
	part.Description = req.Description
	if uom := strings.TrimSpace(req.UnitOfMeasure); uom != "" {
		part.UnitOfMeasure = strings.ToUpper(uom)
	}
	if req.Cost != nil {
		if err := part.SetCost(catalog.StandardCost(*req.Cost)); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		if err := part.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// GetByID retrieves a part by ID
func (s *PartService) GetByID(ctx context.Context, companyID, partID uuid.UUID) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, companyID, partID)
	if err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// List retrieves one page of parts
func (s *PartService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PartResponse, int64, error) {
	parts, total, err := s.partRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartResponse, len(parts))
	for i := range parts {
		out[i] = ToPartResponse(&parts[i])
	}
	return out, total, nil
}

// Update applies a partial update
func (s *PartService) Update(ctx context.Context, companyID, partID uuid.UUID, req UpdatePartRequest) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, companyID, partID)
	if err != nil {
		return nil, err
	}
	if err := part.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	expected := part.Version

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
		}
		part.Name = name
	}
	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.UnitOfMeasure != nil {
		part.UnitOfMeasure = strings.ToUpper(strings.TrimSpace(*req.UnitOfMeasure))
	}
	if req.Replenishment != nil {
		r := catalog.Replenishment(*req.Replenishment)
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_REPLENISHMENT", "Replenishment must be buy or make")
		}
		part.Replenishment = r
	}
	if req.Cost != nil {
		if err := part.SetCost(catalog.StandardCost(*req.Cost)); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		if err := part.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			part.Activate()
		} else {
			part.Deactivate()
		}
	}
	part.Touch()

	if err := s.partRepo.Update(ctx, part, expected); err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// SetPriceBreaks replaces the part's price break table
func (s *PartService) SetPriceBreaks(ctx context.Context, companyID, partID uuid.UUID, req SetPriceBreaksRequest) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, companyID, partID)
	if err != nil {
		return nil, err
	}
	if err := part.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	expected := part.Version

	breaks := make([]catalog.PriceBreak, len(req.Breaks))
	for i, b := range req.Breaks {
		breaks[i] = catalog.PriceBreak{MinQuantity: b.MinQuantity, UnitPrice: b.UnitPrice}
	}
	if err := part.SetPriceBreaks(breaks); err != nil {
		return nil, err
	}

	if err := s.partRepo.Update(ctx, part, expected); err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// Price returns the unit and extended price of quantity units
func (s *PartService) Price(ctx context.Context, companyID, partID uuid.UUID, quantity decimal.Decimal) (*PriceResponse, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	part, err := s.partRepo.FindByID(ctx, companyID, partID)
	if err != nil {
		return nil, err
	}

	source := "list"
	for _, b := range part.PriceBreaks {
		if b.MinQuantity.LessThanOrEqual(quantity) {
			source = "price_break"
			break
		}
	}
	unit := part.PriceFor(quantity)
	return &PriceResponse{
		PartID:        part.ID,
		Quantity:      quantity,
		UnitPrice:     unit,
		ExtendedPrice: shared.RoundMoney(unit.Mul(quantity)),
		UnitCost:      part.Cost.UnitCost(),
		Source:        source,
	}, nil
}

// Delete removes a part
func (s *PartService) Delete(ctx context.Context, companyID, partID uuid.UUID) error {
	return s.partRepo.Delete(ctx, companyID, partID)
}
