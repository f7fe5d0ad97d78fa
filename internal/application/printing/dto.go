// Package printing turns business documents into PDFs, either inline for a
// request or in the worker for archiving.
package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

// Document is a rendered PDF ready to stream to the client
type Document struct {
	DocType   printing.DocType
	Number    string
	Filename  string
	Data      []byte
	PageCount int
}

// ArchiveResponse reports where an archived PDF was stored
type ArchiveResponse struct {
	DocType     string    `json:"doc_type"`
	DocumentID  uuid.UUID `json:"document_id"`
	Number      string    `json:"number"`
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Bytes       int       `json:"bytes"`
	PageCount   int       `json:"page_count"`
}

// GenerationResponse acknowledges a queued pdf.generate task
type GenerationResponse struct {
	TaskID     uuid.UUID `json:"task_id"`
	DocType    string    `json:"doc_type"`
	DocumentID uuid.UUID `json:"document_id"`
	Queued     bool      `json:"queued"`
}
