package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

// RenderRequest is one HTML document to print
type RenderRequest struct {
	HTML   string
	Layout printing.Layout
	// Title goes into the PDF metadata
	Title string
	// FooterHTML is Chrome's footer template; it may use the pageNumber and
	// totalPages classes
	FooterHTML string
	// Timeout overrides the renderer default
	Timeout time.Duration
}

type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Failure codes carried by RenderError
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeUnknownTemplate  = "UNKNOWN_TEMPLATE"
)

// RenderError is a failure of either the template or the PDF stage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

var (
	pageMarkers     = [][]byte{[]byte("/Type /Page"), []byte("/Type/Page")}
	pageTreeMarkers = [][]byte{[]byte("/Type /Pages"), []byte("/Type/Pages")}
)

// estimatePageCount counts page objects, minus the page tree nodes whose
// marker shares the prefix. Chrome writes the compact "/Type/Page" form.
func estimatePageCount(pdf []byte) int {
	n := 0
	for i := range pageMarkers {
		n += bytes.Count(pdf, pageMarkers[i]) - bytes.Count(pdf, pageTreeMarkers[i])
	}
	return max(n, 1)
}
