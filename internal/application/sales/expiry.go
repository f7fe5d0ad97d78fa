package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const defaultExpiryBatch = 200

// QuoteExpirer closes sent quotes whose expiration date is before today
type QuoteExpirer struct {
	finder sales.ExpiryFinder
	quotes *QuoteService
	batch  int
	now    func() time.Time
}

// NewQuoteExpirer creates a QuoteExpirer reading batch quotes per query
func NewQuoteExpirer(finder sales.ExpiryFinder, quotes *QuoteService, batch int) *QuoteExpirer {
	if batch <= 0 {
		batch = defaultExpiryBatch
	}
	return &QuoteExpirer{finder: finder, quotes: quotes, batch: batch, now: time.Now}
}

// Run expires every due quote and returns how many were expired. A quote
// that fails to expire (edited concurrently, already closed) is skipped for
// the rest of the run.
func (e *QuoteExpirer) Run(ctx context.Context) (int, error) {
	log := logger.L(ctx)
	asOf := sales.StartOfDay(e.now())
	skipped := make(map[uuid.UUID]bool)
	expired := 0

	for {
		limit := e.batch + len(skipped)
		due, err := e.finder.FindExpired(ctx, asOf, limit)
		if err != nil {
			return expired, err
		}

		progressed := false
		for i := range due {
			q := &due[i]
			if skipped[q.ID] {
				continue
			}
			progressed = true

			version := q.Version
			_, err := e.quotes.Expire(ctx, q.CompanyID, q.ID, ActionRequest{Version: &version})
			if err == nil {
				expired++
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return expired, ctxErr
			}
			skipped[q.ID] = true
			fields := []zap.Field{
				zap.String("company_id", q.CompanyID.String()),
				zap.String("quote_id", q.ID.String()),
				zap.Error(err),
			}
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				log.Debug("quote changed during expiry, skipped", fields...)
			} else {
				log.Warn("failed to expire quote", fields...)
			}
		}

		if !progressed || len(due) < limit {
			break
		}
	}

	if expired > 0 || len(skipped) > 0 {
		log.Info("quote expiry sweep finished", zap.Int("expired", expired), zap.Int("skipped", len(skipped)))
	}
	return expired, nil
}
