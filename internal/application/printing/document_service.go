package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/application/background"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const defaultLinkExpiry = 15 * time.Minute

// DataLoader loads the template data of one document
type DataLoader interface {
	LoadData(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*infra.DocumentData, error)
}

// HTMLRenderer executes the template for a document type
type HTMLRenderer interface {
	Render(ctx context.Context, doc printing.DocType, data *infra.DocumentData) (string, error)
}

// DocumentServiceConfig wires the DocumentService dependencies
type DocumentServiceConfig struct {
	Loader     DataLoader
	Templates  HTMLRenderer
	Renderer   infra.PDFRenderer
	Archive    printing.Archive
	Dispatcher task.Dispatcher
	PaperSize  printing.PaperSize
	LinkExpiry time.Duration
	Logger     *zap.Logger
}

// DocumentService renders business documents to PDF
type DocumentService struct {
	loader     DataLoader
	templates  HTMLRenderer
	renderer   infra.PDFRenderer
	archive    printing.Archive
	dispatcher task.Dispatcher
	paperSize  printing.PaperSize
	linkExpiry time.Duration
	logger     *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) *DocumentService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.LinkExpiry == 0 {
		cfg.LinkExpiry = defaultLinkExpiry
	}
	return &DocumentService{
		loader:     cfg.Loader,
		templates:  cfg.Templates,
		renderer:   cfg.Renderer,
		archive:    cfg.Archive,
		dispatcher: cfg.Dispatcher,
		paperSize:  cfg.PaperSize,
		linkExpiry: cfg.LinkExpiry,
		logger:     cfg.Logger,
	}
}

// Render loads a document, executes its template and prints it to PDF
func (s *DocumentService) Render(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (doc *Document, err error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}
	start := time.Now()
	defer func() {
		metrics.RecordPDFRender(docType.String(), err, time.Since(start))
	}()

	data, err := s.loader.LoadData(ctx, companyID, docType, documentID)
	if err != nil {
		return nil, err
	}

	html, err := s.templates.Render(ctx, docType, data)
	if err != nil {
		s.logger.Error("template rendering failed",
			zap.String("document", data.Describe()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:       html,
		Layout:     printing.DefaultLayout(docType, s.paperSize),
		Title:      fmt.Sprintf("%s %s", docType.DisplayName(), data.Meta.Number),
		FooterHTML: infra.FooterTemplate(data.Meta.Number),
	})
	if err != nil {
		s.logger.Error("PDF rendering failed",
			zap.String("document", data.Describe()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	s.logger.Debug("PDF rendered",
		zap.String("document", data.Describe()),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return &Document{
		DocType:   docType,
		Number:    data.Meta.Number,
		Filename:  data.Meta.Number + ".pdf",
		Data:      result.PDFData,
		PageCount: result.PageCount,
	}, nil
}

// Archive renders a document and stores it under its archive key
func (s *DocumentService) Archive(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*ArchiveResponse, error) {
	if s.archive == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}
	doc, err := s.Render(ctx, companyID, docType, documentID)
	if err != nil {
		return nil, err
	}

	key := printing.ArchiveKey(companyID, docType, doc.Number)
	if err := s.archive.Put(ctx, key, doc.Data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	resp := &ArchiveResponse{
		DocType:    docType.String(),
		DocumentID: documentID,
		Number:     doc.Number,
		Key:        key,
		Bytes:      len(doc.Data),
		PageCount:  doc.PageCount,
	}
	url, expires, err := s.archive.DownloadURL(ctx, key, s.linkExpiry)
	if err != nil {
		s.logger.Warn("archived PDF has no download link", zap.String("key", key), zap.Error(err))
	} else {
		resp.DownloadURL, resp.ExpiresAt = url, expires
	}

	s.logger.Info("PDF archived",
		zap.String("key", key),
		zap.Int("bytes", resp.Bytes))
	return resp, nil
}

// RequestGeneration queues a pdf.generate task for the worker
func (s *DocumentService) RequestGeneration(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*GenerationResponse, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}
	tk, ok := background.Trigger(ctx, s.dispatcher, task.TypeGeneratePDF, companyID, task.GeneratePDFPayload{
		DocType:    docType,
		DocumentID: documentID,
	})
	return &GenerationResponse{
		TaskID:     tk.ID,
		DocType:    docType.String(),
		DocumentID: documentID,
		Queued:     ok,
	}, nil
}
