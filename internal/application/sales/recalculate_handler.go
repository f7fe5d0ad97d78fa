package sales

import (
	"context"
	"fmt"

	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RecalculateTaskHandler runs price.recalculate tasks in the worker
type RecalculateTaskHandler struct {
	quotes *QuoteService
}

// NewRecalculateTaskHandler creates a new RecalculateTaskHandler
func NewRecalculateTaskHandler(quotes *QuoteService) *RecalculateTaskHandler {
	return &RecalculateTaskHandler{quotes: quotes}
}

// Handle reprices the quote named in the payload
func (h *RecalculateTaskHandler) Handle(ctx context.Context, t task.Task) error {
	var payload task.RecalculatePricePayload
	if err := t.Decode(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", t.Type, err)
	}
	result, err := h.quotes.Recalculate(ctx, t.CompanyID, payload.QuoteID)
	if err != nil {
		return err
	}
	logger.L(ctx).Info("quote repriced",
		zap.String("quote_id", payload.QuoteID.String()),
		zap.Int("lines_updated", result.LinesUpdated))
	return nil
}

var _ task.Handler = (*RecalculateTaskHandler)(nil)
