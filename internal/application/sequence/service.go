// Package sequence issues document numbers and hands them back when the
// document they were meant for is never written.
package sequence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Issuer is what document services need from the numbering service
type Issuer interface {
	WithNext(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType, insert func(number string) error) error
}

// Service handles sequence numbering operations
type Service struct {
	repo sequence.Repository
	now  func() time.Time
}

// NewService creates a new sequence Service
func NewService(repo sequence.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Issue consumes the next number for a document type
func (s *Service) Issue(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (sequence.Issued, error) {
	if !docType.IsValid() {
		return sequence.Issued{}, sequence.ErrInvalidDocumentType
	}
	seq, err := s.repo.Increment(ctx, companyID, docType)
	if err != nil {
		return sequence.Issued{}, err
	}
	return sequence.Issued{
		DocumentType: docType,
		Value:        seq.Next,
		Step:         seq.Step,
		Number:       seq.Format(seq.Next, s.now()),
	}, nil
}

// Rollback gives an issued number back if nothing was issued after it.
// A skipped rollback leaves a gap and is not an error.
func (s *Service) Rollback(ctx context.Context, companyID uuid.UUID, issued sequence.Issued) error {
	step := issued.Step
	if step < 1 {
		step = 1
	}
	log := logger.L(ctx).With(
		zap.String("document_type", issued.DocumentType.String()),
		zap.String("number", issued.Number),
	)

	applied, err := s.repo.Decrement(ctx, companyID, issued.DocumentType, issued.Value, step)
	if err != nil {
		log.Error("sequence rollback failed", zap.Error(err))
		metrics.IncrementSequenceRollback(issued.DocumentType.String(), false)
		return err
	}
	metrics.IncrementSequenceRollback(issued.DocumentType.String(), applied)
	if !applied {
		log.Warn("sequence rollback skipped, a later number was already issued")
		return nil
	}
	log.Info("sequence number rolled back")
	return nil
}

// WithNext issues a number, hands it to insert and rolls the number back
// when insert fails, even if ctx was cancelled meanwhile. The insert error is
// returned unchanged.
func (s *Service) WithNext(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType, insert func(number string) error) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "sequence.with_next", attribute.String("document_type", docType.String()))
	defer func() { telemetry.End(span, err) }()

	issued, err := s.Issue(ctx, companyID, docType)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("document_number", issued.Number))
	if err := insert(issued.Number); err != nil {
		span.AddEvent("sequence.rollback")
		// the request may already be cancelled; the number must still go back
		_ = s.Rollback(context.WithoutCancel(ctx), companyID, issued)
		return err
	}
	return nil
}

// Peek previews the next number without consuming it
func (s *Service) Peek(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (string, error) {
	seq, err := s.Get(ctx, companyID, docType)
	if err != nil {
		return "", err
	}
	return seq.Preview(s.now()), nil
}

// List returns every sequence configured for the company
func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]sequence.Sequence, error) {
	return s.repo.FindAll(ctx, companyID)
}

// Get returns one sequence
func (s *Service) Get(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (*sequence.Sequence, error) {
	if !docType.IsValid() {
		return nil, sequence.ErrInvalidDocumentType
	}
	return s.repo.Find(ctx, companyID, docType)
}

// UpdateRequest changes sequence settings. Nil fields are left alone.
type UpdateRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Prefix *string `json:"prefix" binding:"omitempty,max=32"`
	Suffix *string `json:"suffix" binding:"omitempty,max=32"`
	Size   *int    `json:"size"`
	Step   *int64  `json:"step"`
	Next   *int64  `json:"next"`
}

// Update applies req and saves the sequence
func (s *Service) Update(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType, req UpdateRequest) (*sequence.Sequence, error) {
	seq, err := s.Get(ctx, companyID, docType)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		seq.Name = *req.Name
	}
	if req.Prefix != nil {
		seq.Prefix = *req.Prefix
	}
	if req.Suffix != nil {
		seq.Suffix = *req.Suffix
	}
	if req.Size != nil {
		seq.Size = *req.Size
	}
	if req.Step != nil {
		seq.Step = *req.Step
	}
	if req.Next != nil {
		seq.Next = *req.Next
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	seq.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// SeedDefaults creates the default row for every document type that has
// none yet. Returns how many rows were created.
func (s *Service) SeedDefaults(ctx context.Context, companyID uuid.UUID) (int64, error) {
	if companyID == uuid.Nil {
		return 0, shared.ErrInvalidInput
	}
	created, err := s.repo.CreateMissing(ctx, sequence.Defaults(companyID))
	if err != nil {
		return 0, err
	}
	if created > 0 {
		logger.L(ctx).Info("default sequences seeded",
			zap.String("company_id", companyID.String()),
			zap.Int64("created", created))
	}
	return created, nil
}

var _ Issuer = (*Service)(nil)
