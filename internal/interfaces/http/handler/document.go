package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/van-william/carbon-sub017/internal/application/printing"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// ContentTypePDF is the media type of rendered documents
const ContentTypePDF = "application/pdf"

// DocumentService renders and queues document PDFs
type DocumentService interface {
	Render(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*printingapp.Document, error)
	RequestGeneration(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*printingapp.GenerationResponse, error)
}

// DocumentHandler serves the /:id/pdf endpoints of every printable entity
type DocumentHandler struct {
	BaseHandler
	documents DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Routes registers GET and POST /:id/pdf for docType on g. A nil handler
// registers nothing.
func (h *DocumentHandler) Routes(g *router.DomainGroup, docType printing.DocType) {
	if h == nil {
		return
	}
	g.GET("/:id/pdf", h.PDF(docType))
	g.POST("/:id/pdf", h.Generate(docType))
}

// PDF godoc
// @ID           getDocumentPdf
// @Summary      Render a document as PDF
// @Description  Streams the PDF inline. Available on quotes, sales orders, purchase orders and jobs.
// @Tags         documents
// @Produce      application/pdf
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/quotes/{id}/pdf [get]
func (h *DocumentHandler) PDF(docType printing.DocType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}

		doc, err := h.documents.Render(c.Request.Context(), companyID(c), docType, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
		c.Header("X-Page-Count", strconv.Itoa(doc.PageCount))
		c.Data(http.StatusOK, ContentTypePDF, doc.Data)
	}
}

// Generate godoc
// @ID           generateDocumentPdf
// @Summary      Archive a document PDF in the background
// @Description  Queues a pdf.generate task. The worker renders the document and stores it in object storage.
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      202 {object} APIResponse[printingapp.GenerationResponse]
// @Security     BearerAuth
// @Router       /sales/quotes/{id}/pdf [post]
func (h *DocumentHandler) Generate(docType printing.DocType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}

		resp, err := h.documents.RequestGeneration(c.Request.Context(), companyID(c), docType, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Accepted(c, resp)
	}
}
