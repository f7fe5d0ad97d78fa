package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/infrastructure/export"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// NameResolver looks up partner display names for export columns
type NameResolver interface {
	Names(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]string
}

// resolveNames returns the names of ids, or an empty map when r is nil
func resolveNames(ctx context.Context, r NameResolver, companyID uuid.UUID, ids []uuid.UUID) export.Names {
	if r == nil || len(ids) == 0 {
		return export.Names{}
	}
	return export.Names(r.Names(ctx, companyID, ids))
}

// writeWorkbook renders records as an XLSX attachment named
// <base>-<yyyymmdd>.xlsx. The workbook is built in memory so a failure can
// still be reported as JSON.
func writeWorkbook[T any](h *BaseHandler, c *gin.Context, base string, columns []export.Column[T], records []T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, base, columns, records); err != nil {
		logger.L(c.Request.Context()).Error("export failed",
			zap.String("sheet", base),
			zap.Int("rows", len(records)),
			zap.Error(err))
		h.InternalError(c, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", base, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
