package sequence

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists sequences. Increment and Decrement must each be a
// single atomic statement.
type Repository interface {
	Find(ctx context.Context, companyID uuid.UUID, docType DocumentType) (*Sequence, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Sequence, error)
	Save(ctx context.Context, seq *Sequence) error
	// CreateMissing inserts the given rows, leaving existing ones untouched
	CreateMissing(ctx context.Context, seqs []Sequence) (int64, error)
	// Increment adds step to next and returns the updated row
	Increment(ctx context.Context, companyID uuid.UUID, docType DocumentType) (*Sequence, error)
	// Decrement subtracts step only while next still equals issued.
	// Returns false when another number was issued in between.
	Decrement(ctx context.Context, companyID uuid.UUID, docType DocumentType, issued, step int64) (bool, error)
}
