package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestGormQuoteRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormQuoteRepository(db)
	companyID := uuid.New()

	partA := newTestPart(t, companyID, "A-1")
	partB := newTestPart(t, companyID, "B-1")

	quote, err := sales.NewQuote(companyID, "Q26-000001", uuid.New())
	require.NoError(t, err)
	_, err = quote.AddLine(partA, "", []decimal.Decimal{qty(50), qty(10)}, decimal.Zero)
	require.NoError(t, err)
	_, err = quote.AddLine(partB, "second", []decimal.Decimal{qty(1)}, decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, quote))

	t.Run("lines keep position and prices load by quantity", func(t *testing.T) {
		got, err := repo.FindByID(ctx, companyID, quote.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 2)
		assert.Equal(t, "A-1", got.Lines[0].PartNumber)
		assert.Equal(t, "second", got.Lines[1].Description)
		require.Len(t, got.Lines[0].Prices, 2)
		assert.True(t, got.Lines[0].Prices[0].Quantity.Equal(qty(10)))
		assert.True(t, got.Total().Equal(quote.Total()))
	})

	t.Run("update replaces lines", func(t *testing.T) {
		got, err := repo.FindByID(ctx, companyID, quote.ID)
		require.NoError(t, err)
		require.NoError(t, got.RemoveLine(got.Lines[0].ID))
		require.NoError(t, repo.Update(ctx, got, got.Version))

		reloaded, err := repo.FindByID(ctx, companyID, quote.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Lines, 1)
		assert.Equal(t, "B-1", reloaded.Lines[0].PartNumber)

		var priceRows int64
		require.NoError(t, db.Table("quote_line_prices").Where("quote_id = ?", quote.ID).Count(&priceRows).Error)
		assert.Equal(t, int64(1), priceRows)
	})

	t.Run("stale update leaves lines untouched", func(t *testing.T) {
		got, err := repo.FindByID(ctx, companyID, quote.ID)
		require.NoError(t, err)
		require.NoError(t, got.RemoveLine(got.Lines[0].ID))
		assert.ErrorIs(t, repo.Update(ctx, got, got.Version-1), shared.ErrConcurrencyConflict)

		reloaded, err := repo.FindByID(ctx, companyID, quote.ID)
		require.NoError(t, err)
		assert.Len(t, reloaded.Lines, 1)
	})

	t.Run("list filters on status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(sales.QuoteStatusDraft)
		items, total, err := repo.FindAll(ctx, companyID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items[0].Lines, 1)
	})

	t.Run("delete removes children", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, companyID, quote.ID))
		var lines int64
		require.NoError(t, db.Table("quote_lines").Where("quote_id = ?", quote.ID).Count(&lines).Error)
		assert.Zero(t, lines)
	})
}

func TestGormQuoteRepository_FindExpired(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormQuoteRepository(db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	create := func(number string, expires time.Time, send bool) *sales.Quote {
		companyID := uuid.New()
		q, err := sales.NewQuote(companyID, number, uuid.New())
		require.NoError(t, err)
		_, err = q.AddLine(newTestPart(t, companyID, "P-"+number), "", []decimal.Decimal{qty(1)}, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, q.SetExpiration(&expires))
		if send {
			require.NoError(t, q.Send())
		}
		require.NoError(t, repo.Create(ctx, q))
		return q
	}

	older := create("Q1", now.Add(-72*time.Hour), true)
	newer := create("Q2", now.Add(-time.Hour), true)
	create("Q3", now.Add(24*time.Hour), true)
	create("Q4", now.Add(-48*time.Hour), false)

	got, err := repo.FindExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, older.ID, got[0].ID)
	assert.Equal(t, newer.ID, got[1].ID)
	assert.NotEqual(t, got[0].CompanyID, got[1].CompanyID)

	got, err = repo.FindExpired(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, older.ID, got[0].ID)
}

func TestGormSalesOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSalesOrderRepository(newSQLiteDB(t))
	companyID := uuid.New()

	order, err := sales.NewSalesOrder(companyID, "SO-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), "A-1", "Bracket", qty(5), decimal.NewFromFloat(12.5)))
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Total().Equal(decimal.NewFromFloat(62.5)))

	require.NoError(t, got.Confirm())
	require.NoError(t, repo.Update(ctx, got, got.Version))

	reloaded, err := repo.FindByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusConfirmed, reloaded.Status)
	assert.NotNil(t, reloaded.ConfirmedAt)
	assert.Len(t, reloaded.Lines, 1)
}

func TestGormPurchaseOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseOrderRepository(newSQLiteDB(t))
	companyID := uuid.New()

	order, err := purchasing.NewPurchaseOrder(companyID, "PO-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), "RAW-1", "Steel bar", qty(10), qty(3)))
	require.NoError(t, order.Submit())
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	lineID := got.Lines[0].ID
	require.NoError(t, got.Receive(map[uuid.UUID]decimal.Decimal{lineID: qty(4)}))
	require.NoError(t, repo.Update(ctx, got, got.Version))

	reloaded, err := repo.FindByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.OrderStatusPartiallyReceived, reloaded.Status)
	assert.True(t, reloaded.Lines[0].Outstanding().Equal(qty(6)))
}

func TestGormJobRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormJobRepository(newSQLiteDB(t))
	companyID := uuid.New()

	job, err := production.NewJob(companyID, "J-000001", uuid.New(), "A-1", qty(20))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.FindByID(ctx, companyID, job.ID)
	require.NoError(t, err)
	require.NoError(t, got.Plan())
	require.NoError(t, repo.Update(ctx, got, got.Version))

	filter := shared.DefaultFilter()
	filter.Search = "j-0000"
	items, total, err := repo.FindAll(ctx, companyID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, production.JobStatusPlanned, items[0].Status)
	assert.Equal(t, 2, items[0].Version)
}
