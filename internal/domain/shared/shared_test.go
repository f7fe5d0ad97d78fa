package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "Quote not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load quote: %w", ErrConcurrencyConflict)
		de, ok := AsDomainError(err)
		assert.True(t, ok)
		assert.Equal(t, "CONCURRENCY_CONFLICT", de.Code)
	})
}

func TestBaseAggregateRoot_CheckVersion(t *testing.T) {
	agg := NewBaseAggregateRoot()
	agg.Version = 3

	assert.NoError(t, agg.CheckVersion(nil))

	v := 3
	assert.NoError(t, agg.CheckVersion(&v))

	stale := 2
	assert.ErrorIs(t, agg.CheckVersion(&stale), ErrConcurrencyConflict)
}

func TestCompanyAggregateRoot_SetCreatedBy(t *testing.T) {
	companyID := uuid.New()
	agg := NewCompanyAggregateRoot(companyID)
	assert.Equal(t, companyID, agg.CompanyID)
	assert.Equal(t, 1, agg.Version)

	agg.SetCreatedBy(uuid.Nil)
	assert.Nil(t, agg.CreatedBy)

	userID := uuid.New()
	agg.SetCreatedBy(userID)
	assert.Equal(t, userID, *agg.CreatedBy)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 1000, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 200, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)

	f = Filter{Page: 3, PageSize: 25, OrderDir: "asc"}.Normalize()
	assert.Equal(t, 50, f.Offset())
	assert.Equal(t, "asc", f.OrderDir)
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPaginated([]int{}, 0, 1, 20)
	assert.Equal(t, 0, p.TotalPages)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "10.13", RoundMoney(decimal.RequireFromString("10.125")).String())
	assert.Equal(t, "0.125", Percent(decimal.RequireFromString("12.5")).String())
}

func TestCollectAll(t *testing.T) {
	var pages []int
	fetch := func(f Filter) ([]int, int64, error) {
		pages = append(pages, f.Page)
		switch f.Page {
		case 1:
			return make([]int, 200), 250, nil
		case 2:
			return make([]int, 50), 250, nil
		}
		return nil, 250, nil
	}

	got, err := CollectAll(Filter{Search: "x"}, fetch)
	require.NoError(t, err)
	assert.Len(t, got, 250)
	assert.Equal(t, []int{1, 2}, pages)
}

func TestPublishPending(t *testing.T) {
	root := NewBaseAggregateRoot()
	root.AddDomainEvent(&BaseDomainEvent{})

	var published int
	pub := publisherFunc(func(_ context.Context, events ...DomainEvent) error {
		published += len(events)
		return nil
	})
	PublishPending(context.Background(), pub, &root)
	PublishPending(context.Background(), pub, &root)
	PublishPending(context.Background(), nil, &root)

	assert.Equal(t, 1, published)
	assert.Empty(t, root.GetDomainEvents())
}

type publisherFunc func(ctx context.Context, events ...DomainEvent) error

func (f publisherFunc) Publish(ctx context.Context, events ...DomainEvent) error {
	return f(ctx, events...)
}
