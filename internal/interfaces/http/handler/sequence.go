package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// SequenceService is the settings side of sequenceapp.Service
type SequenceService interface {
	List(ctx context.Context, companyID uuid.UUID) ([]sequence.Sequence, error)
	Get(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (*sequence.Sequence, error)
	Update(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType, req sequenceapp.UpdateRequest) (*sequence.Sequence, error)
	Peek(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (string, error)
	SeedDefaults(ctx context.Context, companyID uuid.UUID) (int64, error)
}

// SequenceHandler manages document numbering settings
type SequenceHandler struct {
	BaseHandler
	sequences SequenceService
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(sequences SequenceService) *SequenceHandler {
	return &SequenceHandler{sequences: sequences}
}

// Routes registers the sequence endpoints under g
func (h *SequenceHandler) Routes(g *router.DomainGroup) {
	seqs := g.Group("sequences", "/sequences")
	seqs.GET("", h.List)
	seqs.POST("/seed", h.Seed)
	seqs.GET("/:type", h.Get)
	seqs.PUT("/:type", h.Update)
	seqs.GET("/:type/preview", h.Preview)
}

// List godoc
// @ID           listSequences
// @Summary      List document sequences
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[[]sequence.Sequence]
// @Security     BearerAuth
// @Router       /settings/sequences [get]
func (h *SequenceHandler) List(c *gin.Context) {
	seqs, err := h.sequences.List(c.Request.Context(), companyID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, seqs)
}

// Get returns the sequence of one document type
func (h *SequenceHandler) Get(c *gin.Context) {
	seq, err := h.sequences.Get(c.Request.Context(), companyID(c), sequence.DocumentType(c.Param("type")))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, seq)
}

// Update godoc
// @ID           updateSequence
// @Summary      Change prefix, suffix, padding, step or next value of a sequence
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        type    path string true "Document type" Enums(customer, supplier, quote, salesOrder, purchaseOrder, job)
// @Param        request body sequenceapp.UpdateRequest true "Sequence settings"
// @Success      200 {object} APIResponse[sequence.Sequence]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/sequences/{type} [put]
func (h *SequenceHandler) Update(c *gin.Context) {
	var req sequenceapp.UpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	seq, err := h.sequences.Update(c.Request.Context(), companyID(c), sequence.DocumentType(c.Param("type")), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, seq)
}

// Preview returns the number the next issue would produce, without
// consuming it
func (h *SequenceHandler) Preview(c *gin.Context) {
	docType := sequence.DocumentType(c.Param("type"))
	number, err := h.sequences.Peek(c.Request.Context(), companyID(c), docType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, PreviewData{DocumentType: docType.String(), Number: number})
}

// Seed creates the default sequence of every document type still missing one
func (h *SequenceHandler) Seed(c *gin.Context) {
	created, err := h.sequences.SeedDefaults(c.Request.Context(), companyID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, SeedResult{Created: created})
}
