package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// MockPartRepository is a mock implementation of catalog.PartRepository
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Part, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).([]catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalog.Part, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]catalog.Part), args.Get(1).(int64), args.Error(2)
}

func (m *MockPartRepository) Create(ctx context.Context, part *catalog.Part) error {
	return m.Called(ctx, part).Error(0)
}

func (m *MockPartRepository) Update(ctx context.Context, part *catalog.Part, expectedVersion int) error {
	return m.Called(ctx, part, expectedVersion).Error(0)
}

func (m *MockPartRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricedPart(t *testing.T, companyID uuid.UUID) *catalog.Part {
	t.Helper()
	part, err := catalog.NewPart(companyID, "brkt-1", "Bracket", catalog.ReplenishmentMake)
	require.NoError(t, err)
	require.NoError(t, part.SetUnitPrice(dec("12")))
	require.NoError(t, part.SetPriceBreaks([]catalog.PriceBreak{
		{MinQuantity: dec("100"), UnitPrice: dec("9")},
		{MinQuantity: dec("10"), UnitPrice: dec("10.5")},
	}))
	return part
}

func TestPartService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	repo := new(MockPartRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*catalog.Part")).Return(nil)

	price := dec("25")
	resp, err := NewPartService(repo).Create(ctx, companyID, uuid.New(), CreatePartRequest{
		PartNumber:    "plt-2",
		Name:          "Plate",
		UnitOfMeasure: "kg",
		Replenishment: "make",
		Cost:          &CostRequest{Material: dec("4"), Labor: dec("3"), Overhead: dec("1.5")},
		UnitPrice:     &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "PLT-2", resp.PartNumber)
	assert.Equal(t, "KG", resp.UnitOfMeasure)
	assert.True(t, resp.UnitCost.Equal(dec("8.5")))
	assert.Empty(t, resp.PriceBreaks)

	_, err = NewPartService(repo).Create(ctx, companyID, uuid.New(), CreatePartRequest{
		PartNumber: "x",
		Name:       "X",
		Cost:       &CostRequest{Material: dec("-1")},
	})
	assert.Error(t, err)
}

func TestPartService_Price(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	part := pricedPart(t, companyID)

	repo := new(MockPartRepository)
	repo.On("FindByID", ctx, companyID, part.ID).Return(part, nil)
	svc := NewPartService(repo)

	tests := []struct {
		qty    string
		unit   string
		source string
	}{
		{"1", "12", "list"},
		{"9.99", "12", "list"},
		{"10", "10.5", "price_break"},
		{"99", "10.5", "price_break"},
		{"100", "9", "price_break"},
		{"5000", "9", "price_break"},
	}
	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			resp, err := svc.Price(ctx, companyID, part.ID, dec(tt.qty))
			require.NoError(t, err)
			assert.True(t, resp.UnitPrice.Equal(dec(tt.unit)), "unit price %s", resp.UnitPrice)
			assert.Equal(t, tt.source, resp.Source)
		})
	}

	t.Run("extended price is rounded", func(t *testing.T) {
		resp, err := svc.Price(ctx, companyID, part.ID, dec("10.333"))
		require.NoError(t, err)
		assert.Equal(t, "108.50", resp.ExtendedPrice.StringFixed(2))
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		_, err := svc.Price(ctx, companyID, part.ID, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestPartService_SetPriceBreaks(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("replaces table sorted", func(t *testing.T) {
		part := pricedPart(t, companyID)
		repo := new(MockPartRepository)
		repo.On("FindByID", ctx, companyID, part.ID).Return(part, nil)
		repo.On("Update", ctx, part, 1).Return(nil)

		resp, err := NewPartService(repo).SetPriceBreaks(ctx, companyID, part.ID, SetPriceBreaksRequest{
			Breaks: []PriceBreakRequest{
				{MinQuantity: dec("50"), UnitPrice: dec("8")},
				{MinQuantity: dec("5"), UnitPrice: dec("11")},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.PriceBreaks, 2)
		assert.True(t, resp.PriceBreaks[0].MinQuantity.Equal(dec("5")))
	})

	t.Run("duplicate quantities rejected", func(t *testing.T) {
		part := pricedPart(t, companyID)
		repo := new(MockPartRepository)
		repo.On("FindByID", ctx, companyID, part.ID).Return(part, nil)

		_, err := NewPartService(repo).SetPriceBreaks(ctx, companyID, part.ID, SetPriceBreaksRequest{
			Breaks: []PriceBreakRequest{
				{MinQuantity: dec("5"), UnitPrice: dec("8")},
				{MinQuantity: dec("5"), UnitPrice: dec("11")},
			},
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale version", func(t *testing.T) {
		part := pricedPart(t, companyID)
		repo := new(MockPartRepository)
		repo.On("FindByID", ctx, companyID, part.ID).Return(part, nil)

		v := 7
		_, err := NewPartService(repo).SetPriceBreaks(ctx, companyID, part.ID, SetPriceBreaksRequest{Version: &v})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestPartService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	part := pricedPart(t, companyID)

	repo := new(MockPartRepository)
	repo.On("FindByID", ctx, companyID, part.ID).Return(part, nil)
	repo.On("Update", ctx, part, 1).Return(nil)

	active := false
	v := 1
	resp, err := NewPartService(repo).Update(ctx, companyID, part.ID, UpdatePartRequest{Active: &active, Version: &v})
	require.NoError(t, err)
	assert.False(t, resp.Active)

	bad := "rent"
	_, err = NewPartService(repo).Update(ctx, companyID, part.ID, UpdatePartRequest{Replenishment: &bad})
	assert.Error(t, err)
}
