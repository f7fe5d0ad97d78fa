package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestPart(t *testing.T) *Part {
	t.Helper()
	p, err := NewPart(uuid.New(), "bracket-01", "Mounting bracket", ReplenishmentMake)
	require.NoError(t, err)
	return p
}

func TestNewPart(t *testing.T) {
	p := newTestPart(t)
	assert.Equal(t, "BRACKET-01", p.PartNumber)
	assert.Equal(t, "EA", p.UnitOfMeasure)
	assert.True(t, p.Active)

	_, err := NewPart(uuid.New(), "", "x", ReplenishmentBuy)
	assert.Error(t, err)

	_, err = NewPart(uuid.New(), "P1", "x", "borrow")
	assert.Error(t, err)

	p, err = NewPart(uuid.New(), "P1", "x", "")
	require.NoError(t, err)
	assert.Equal(t, ReplenishmentBuy, p.Replenishment)
}

func TestStandardCost_UnitCost(t *testing.T) {
	c := StandardCost{Material: d("4.25"), Labor: d("10"), Overhead: d("1.75")}
	assert.True(t, c.UnitCost().Equal(d("16")))

	p := newTestPart(t)
	assert.Error(t, p.SetCost(StandardCost{Material: d("-1"), Labor: d("0"), Overhead: d("0")}))
}

func TestPart_PriceFor(t *testing.T) {
	p := newTestPart(t)
	require.NoError(t, p.SetUnitPrice(d("20")))
	require.NoError(t, p.SetPriceBreaks([]PriceBreak{
		{MinQuantity: d("100"), UnitPrice: d("15")},
		{MinQuantity: d("10"), UnitPrice: d("18")},
		{MinQuantity: d("500"), UnitPrice: d("12.5")},
	}))

	tests := []struct {
		qty  string
		want string
	}{
		{"1", "20"},
		{"9.99", "20"},
		{"10", "18"},
		{"99", "18"},
		{"100", "15"},
		{"499", "15"},
		{"500", "12.5"},
		{"10000", "12.5"},
	}
	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			assert.True(t, p.PriceFor(d(tt.qty)).Equal(d(tt.want)), "got %s", p.PriceFor(d(tt.qty)))
		})
	}
}

func TestPart_SetPriceBreaks(t *testing.T) {
	p := newTestPart(t)

	t.Run("sorts and assigns ids", func(t *testing.T) {
		require.NoError(t, p.SetPriceBreaks([]PriceBreak{
			{MinQuantity: d("50"), UnitPrice: d("9")},
			{MinQuantity: d("5"), UnitPrice: d("10")},
		}))
		require.Len(t, p.PriceBreaks, 2)
		assert.True(t, p.PriceBreaks[0].MinQuantity.Equal(d("5")))
		assert.NotEqual(t, uuid.Nil, p.PriceBreaks[0].ID)
		assert.True(t, p.HasListPrice())
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		err := p.SetPriceBreaks([]PriceBreak{
			{MinQuantity: d("5"), UnitPrice: d("10")},
			{MinQuantity: d("5"), UnitPrice: d("9")},
		})
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		err := p.SetPriceBreaks([]PriceBreak{{MinQuantity: d("0"), UnitPrice: d("10")}})
		assert.Error(t, err)
	})

	t.Run("empty clears table", func(t *testing.T) {
		require.NoError(t, p.SetPriceBreaks(nil))
		assert.Empty(t, p.PriceBreaks)
	})
}
