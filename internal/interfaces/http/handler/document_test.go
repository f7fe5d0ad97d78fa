package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	printingapp "github.com/van-william/carbon-sub017/internal/application/printing"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Render(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*printingapp.Document, error) {
	args := m.Called(ctx, companyID, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.Document), args.Error(1)
}

func (m *MockDocumentService) RequestGeneration(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*printingapp.GenerationResponse, error) {
	args := m.Called(ctx, companyID, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.GenerationResponse), args.Error(1)
}

func TestDocumentHandler_PDF(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine("sales", NewQuoteHandler(new(MockQuoteService), nil, NewDocumentHandler(docs)).Routes)
	id := uuid.New()
	pdf := []byte("%PDF-1.4 test")

	docs.On("Render", mock.Anything, testCompanyID, printing.DocTypeQuote, id).Return(&printingapp.Document{
		DocType:   printing.DocTypeQuote,
		Number:    "Q000001",
		Filename:  "Q000001.pdf",
		Data:      pdf,
		PageCount: 2,
	}, nil)

	w := performRequest(t, engine, http.MethodGet, quotePath(id, "/pdf"), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ContentTypePDF, w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="Q000001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", w.Header().Get("X-Page-Count"))
	assert.Equal(t, pdf, w.Body.Bytes())
	docs.AssertExpectations(t)
}

func TestDocumentHandler_PDF_NotFound(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine("sales", NewQuoteHandler(new(MockQuoteService), nil, NewDocumentHandler(docs)).Routes)
	id := uuid.New()

	docs.On("Render", mock.Anything, testCompanyID, printing.DocTypeQuote, id).Return(nil, shared.ErrNotFound)

	w := performRequest(t, engine, http.MethodGet, quotePath(id, "/pdf"), nil)

	requireErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestDocumentHandler_Generate(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine("production", NewJobHandler(new(MockJobService), NewDocumentHandler(docs)).Routes)
	id := uuid.New()
	taskID := uuid.New()

	docs.On("RequestGeneration", mock.Anything, testCompanyID, printing.DocTypeJob, id).
		Return(&printingapp.GenerationResponse{TaskID: taskID, DocType: "job", DocumentID: id, Queued: true}, nil)

	w := performRequest(t, engine, http.MethodPost, "/api/v1/production/jobs/"+id.String()+"/pdf", nil)

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var got printingapp.GenerationResponse
	decodeData(t, w, &got)
	assert.Equal(t, taskID, got.TaskID)
	assert.Equal(t, id, got.DocumentID)
}

func TestDocumentHandler_NilRegistersNothing(t *testing.T) {
	engine := newTestEngine("sales", NewQuoteHandler(new(MockQuoteService), nil, nil).Routes)

	for _, r := range engine.Routes() {
		assert.NotContains(t, r.Path, "/pdf")
	}
}
