package printing

import (
	"context"
	"fmt"

	"github.com/van-william/carbon-sub017/internal/domain/task"
)

// GeneratePDFTaskHandler archives documents for pdf.generate tasks
type GeneratePDFTaskHandler struct {
	documents *DocumentService
}

// NewGeneratePDFTaskHandler creates a new GeneratePDFTaskHandler
func NewGeneratePDFTaskHandler(documents *DocumentService) *GeneratePDFTaskHandler {
	return &GeneratePDFTaskHandler{documents: documents}
}

// Handle renders and archives the document named in the payload
func (h *GeneratePDFTaskHandler) Handle(ctx context.Context, t task.Task) error {
	var payload task.GeneratePDFPayload
	if err := t.Decode(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", t.Type, err)
	}
	_, err := h.documents.Archive(ctx, t.CompanyID, payload.DocType, payload.DocumentID)
	return err
}

var _ task.Handler = (*GeneratePDFTaskHandler)(nil)
