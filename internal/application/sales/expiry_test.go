package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

func (f *quoteFixture) sentUntil(t *testing.T, until time.Time) *sales.Quote {
	t.Helper()
	q := f.draft(t)
	q.ExpirationDate = &until
	require.NoError(t, q.Send())
	q.ClearDomainEvents()
	return q
}

func TestQuoteExpirer_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f := newQuoteFixture(t)
	f.svc.now = func() time.Time { return now }

	fresh := f.sentUntil(t, now.Add(-48*time.Hour))
	contested := f.sentUntil(t, now.Add(-24*time.Hour))

	finder := new(MockExpiryFinder)
	finder.On("FindExpired", mock.Anything, now, 2).Return([]sales.Quote{*fresh, *contested}, nil).Once()
	finder.On("FindExpired", mock.Anything, now, 3).Return([]sales.Quote{*contested}, nil).Once()

	f.quotes.On("FindByID", mock.Anything, f.companyID, fresh.ID).Return(fresh, nil)
	f.quotes.On("FindByID", mock.Anything, f.companyID, contested.ID).Return(contested, nil)
	f.quotes.On("Update", mock.Anything, fresh, 1).Return(nil)
	f.quotes.On("Update", mock.Anything, contested, 1).Return(shared.ErrConcurrencyConflict)

	expirer := NewQuoteExpirer(finder, f.svc, 2)
	expirer.now = func() time.Time { return now }

	n, err := expirer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, sales.QuoteStatusExpired, fresh.Status)
	finder.AssertExpectations(t)
}

func TestQuoteExpirer_Run_NothingDue(t *testing.T) {
	f := newQuoteFixture(t)
	finder := new(MockExpiryFinder)
	finder.On("FindExpired", mock.Anything, mock.Anything, defaultExpiryBatch).Return([]sales.Quote{}, nil)

	n, err := NewQuoteExpirer(finder, f.svc, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	f.quotes.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuoteExpirer_Run_FinderError(t *testing.T) {
	f := newQuoteFixture(t)
	finder := new(MockExpiryFinder)
	finder.On("FindExpired", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewQuoteExpirer(finder, f.svc, 10).Run(context.Background())
	assert.Error(t, err)
}

func TestQuoteExpirer_Run_StartOfToday(t *testing.T) {
	f := newQuoteFixture(t)
	sweep := time.Date(2026, 7, 14, 1, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return sweep }

	// an expiration at midnight today is still valid for the rest of the day
	today := f.sentUntil(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))
	f.quotes.On("FindByID", mock.Anything, f.companyID, today.ID).Return(today, nil)
	_, err := f.svc.Expire(context.Background(), f.companyID, today.ID, ActionRequest{})
	assert.Error(t, err)

	finder := new(MockExpiryFinder)
	finder.On("FindExpired", mock.Anything, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), 10).Return([]sales.Quote{}, nil)

	expirer := NewQuoteExpirer(finder, f.svc, 10)
	expirer.now = func() time.Time { return sweep }

	n, err := expirer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, sales.QuoteStatusSent, today.Status)
	finder.AssertExpectations(t)
}
