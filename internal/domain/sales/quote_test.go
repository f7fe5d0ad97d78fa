package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qtys(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = d(v)
	}
	return out
}

func testPart(t *testing.T, companyID uuid.UUID) *catalog.Part {
	t.Helper()
	p, err := catalog.NewPart(companyID, "SHAFT-10", "Drive shaft", catalog.ReplenishmentMake)
	require.NoError(t, err)
	require.NoError(t, p.SetCost(catalog.StandardCost{Material: d("6"), Labor: d("3"), Overhead: d("1")}))
	return p
}

func testQuote(t *testing.T) *Quote {
	t.Helper()
	q, err := NewQuote(uuid.New(), "Q26-000001", uuid.New())
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func TestNewQuote(t *testing.T) {
	q, err := NewQuote(uuid.New(), "Q26-000001", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusDraft, q.Status)
	assert.True(t, q.IsEditable())
	require.Len(t, q.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeQuoteCreated, q.GetDomainEvents()[0].EventType())

	_, err = NewQuote(uuid.New(), "", uuid.New())
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "Q1", uuid.Nil)
	assert.Error(t, err)
}

func TestQuote_AddLine_CostPlusMarkup(t *testing.T) {
	q := testQuote(t)
	part := testPart(t, q.CompanyID)

	line, err := q.AddLine(part, "", qtys("1", "10"), d("25"))
	require.NoError(t, err)

	assert.Equal(t, "Drive shaft", line.Description)
	require.Len(t, line.Prices, 2)
	// cost 10, markup 25% => 12.50
	assert.True(t, line.Prices[0].UnitCost.Equal(d("10")))
	assert.True(t, line.Prices[0].UnitPrice.Equal(d("12.5")))
	assert.True(t, line.Prices[1].ExtendedPrice.Equal(d("125")))
	assert.True(t, line.SelectedQuantity.Equal(d("1")))
	assert.True(t, q.Total().Equal(d("12.5")))
}

func TestQuote_AddLine_PriceBreaks(t *testing.T) {
	q := testQuote(t)
	part := testPart(t, q.CompanyID)
	require.NoError(t, part.SetUnitPrice(d("20")))
	require.NoError(t, part.SetPriceBreaks([]catalog.PriceBreak{{MinQuantity: d("50"), UnitPrice: d("16")}}))

	line, err := q.AddLine(part, "Shaft", qtys("10", "50"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, line.Prices[0].UnitPrice.Equal(d("20")))
	assert.True(t, line.Prices[1].UnitPrice.Equal(d("16")))
	assert.True(t, line.Prices[1].ExtendedPrice.Equal(d("800")))
}

func TestQuote_AddLine_Validation(t *testing.T) {
	q := testQuote(t)
	part := testPart(t, q.CompanyID)

	_, err := q.AddLine(part, "", nil, decimal.Zero)
	assert.Error(t, err)

	_, err = q.AddLine(part, "", qtys("5", "5"), decimal.Zero)
	assert.Error(t, err)

	_, err = q.AddLine(part, "", qtys("0"), decimal.Zero)
	assert.Error(t, err)

	_, err = q.AddLine(part, "", qtys("1"), d("-5"))
	assert.Error(t, err)

	part.Deactivate()
	_, err = q.AddLine(part, "", qtys("1"), decimal.Zero)
	assert.Error(t, err)
}

func TestQuote_RecalculateWithDiscount(t *testing.T) {
	q := testQuote(t)
	part := testPart(t, q.CompanyID)

	line, err := q.AddLine(part, "", qtys("4"), d("50"))
	require.NoError(t, err)
	assert.True(t, line.Prices[0].UnitPrice.Equal(d("15")))

	q.Lines[0].Prices[0].DiscountPercent = d("10")
	require.NoError(t, part.SetCost(catalog.StandardCost{Material: d("8"), Labor: d("3"), Overhead: d("1")}))

	n := q.Recalculate(map[uuid.UUID]*catalog.Part{part.ID: part})
	assert.Equal(t, 1, n)
	// cost 12 * 1.5 = 18, less 10% = 16.20, x4 = 64.80
	assert.True(t, q.Lines[0].Prices[0].UnitPrice.Equal(d("16.2")))
	assert.True(t, q.Total().Equal(d("64.8")))

	assert.Equal(t, 0, q.Recalculate(map[uuid.UUID]*catalog.Part{}))
}

func TestQuote_SelectQuantity(t *testing.T) {
	q := testQuote(t)
	part := testPart(t, q.CompanyID)
	line, err := q.AddLine(part, "", qtys("1", "100"), d("20"))
	require.NoError(t, err)

	require.NoError(t, q.SelectQuantity(line.ID, d("100")))
	assert.True(t, q.Total().Equal(d("1200")))

	assert.Error(t, q.SelectQuantity(line.ID, d("7")))
	assert.Error(t, q.SelectQuantity(uuid.New(), d("1")))
}

func TestQuote_StatusTransitions(t *testing.T) {
	t.Run("cannot send empty quote", func(t *testing.T) {
		q := testQuote(t)
		assert.Error(t, q.Send())
	})

	t.Run("send then lose", func(t *testing.T) {
		q := testQuote(t)
		_, err := q.AddLine(testPart(t, q.CompanyID), "", qtys("1"), decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, q.Send())
		assert.Equal(t, QuoteStatusSent, q.Status)
		assert.False(t, q.IsEditable())
		require.Len(t, q.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeQuoteSent, q.GetDomainEvents()[0].EventType())

		require.NoError(t, q.MarkLost("price"))
		assert.Equal(t, "price", q.LostReason)
		assert.Error(t, q.Cancel())
	})

	t.Run("draft cannot expire", func(t *testing.T) {
		q := testQuote(t)
		assert.Error(t, q.Expire())
		assert.NoError(t, q.Cancel())
	})

	t.Run("lines locked after send", func(t *testing.T) {
		q := testQuote(t)
		part := testPart(t, q.CompanyID)
		line, err := q.AddLine(part, "", qtys("1"), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, q.Send())

		assert.Error(t, q.RemoveLine(line.ID))
		_, err = q.AddLine(part, "", qtys("2"), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestQuote_IsExpired(t *testing.T) {
	q := testQuote(t)
	now := time.Now()
	assert.False(t, q.IsExpired(now))

	past := now.Add(-48 * time.Hour)
	require.NoError(t, q.SetExpiration(&past))
	assert.True(t, q.IsExpired(now))
}

func TestQuote_IsExpired_DayBoundary(t *testing.T) {
	q := testQuote(t)
	until := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, q.SetExpiration(&until))

	assert.False(t, q.IsExpired(time.Date(2026, 7, 14, 1, 0, 0, 0, time.UTC)))
	assert.False(t, q.IsExpired(time.Date(2026, 7, 14, 23, 59, 0, 0, time.UTC)))
	assert.True(t, q.IsExpired(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := StartOfDay(time.Date(2026, 7, 14, 18, 45, 12, 9, loc))
	assert.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, loc), got)
}

func TestQuoteStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, QuoteStatusDraft.CanTransitionTo(QuoteStatusSent))
	assert.True(t, QuoteStatusSent.CanTransitionTo(QuoteStatusOrdered))
	assert.False(t, QuoteStatusOrdered.CanTransitionTo(QuoteStatusDraft))
	assert.False(t, QuoteStatusLost.CanTransitionTo(QuoteStatusSent))
	assert.True(t, QuoteStatusExpired.IsTerminal())
	assert.False(t, QuoteStatus("Pending").IsValid())
}
