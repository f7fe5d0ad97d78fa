// Package background fires tasks from request paths without waiting on them.
package background

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Trigger builds a task and hands it to d. A failed trigger is logged and
// reported as false; the caller carries on either way.
func Trigger(ctx context.Context, d task.Dispatcher, t task.Type, companyID uuid.UUID, payload any) (task.Task, bool) {
	log := logger.L(ctx).With(zap.String("task_type", t.String()))
	if d == nil {
		log.Warn("no task dispatcher configured, task dropped")
		return task.Task{Type: t, CompanyID: companyID}, false
	}

	tk, err := task.New(t, companyID, payload)
	if err != nil {
		log.Error("failed to build task", zap.Error(err))
		return task.Task{Type: t, CompanyID: companyID}, false
	}
	if err := d.Trigger(ctx, tk); err != nil {
		log.Error("failed to trigger task", zap.String("task_id", tk.ID.String()), zap.Error(err))
		return tk, false
	}
	log.Debug("task triggered", zap.String("task_id", tk.ID.String()))
	return tk, true
}
