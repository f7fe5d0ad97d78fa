// Package sequence models the per-company counters that produce
// human-readable document numbers such as "SO-00042".
package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// DocumentType tags the kind of document a sequence numbers
type DocumentType string

const (
	DocumentTypeCustomer      DocumentType = "customer"
	DocumentTypeSupplier      DocumentType = "supplier"
	DocumentTypeQuote         DocumentType = "quote"
	DocumentTypeSalesOrder    DocumentType = "salesOrder"
	DocumentTypePurchaseOrder DocumentType = "purchaseOrder"
	DocumentTypeJob           DocumentType = "job"
)

// IsValid checks if the DocumentType is a known value
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeCustomer, DocumentTypeSupplier, DocumentTypeQuote,
		DocumentTypeSalesOrder, DocumentTypePurchaseOrder, DocumentTypeJob:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (d DocumentType) String() string {
	return string(d)
}

// AllDocumentTypes returns every sequenced document type
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeCustomer, DocumentTypeSupplier, DocumentTypeQuote,
		DocumentTypeSalesOrder, DocumentTypePurchaseOrder, DocumentTypeJob,
	}
}

const (
	MinSize = 1
	MaxSize = 20
)

var (
	ErrSequenceNotFound    = shared.NewDomainError("SEQUENCE_NOT_FOUND", "Sequence not found for document type")
	ErrInvalidDocumentType = shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Unknown document type")
)

// Sequence is the counter row for one document type within a company.
// Next holds the last issued value; issuing adds Step and returns the result.
type Sequence struct {
	CompanyID    uuid.UUID    `json:"company_id"`
	DocumentType DocumentType `json:"document_type"`
	Name         string       `json:"name"`
	Prefix       string       `json:"prefix"`
	Suffix       string       `json:"suffix"`
	Next         int64        `json:"next"`
	Size         int          `json:"size"`
	Step         int64        `json:"step"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Issued is a number handed out by Issue. Value is needed to roll it back.
type Issued struct {
	DocumentType DocumentType `json:"document_type"`
	Value        int64        `json:"value"`
	Step         int64        `json:"step"`
	Number       string       `json:"number"`
}

// Validate checks the sequence settings
func (s *Sequence) Validate() error {
	if !s.DocumentType.IsValid() {
		return ErrInvalidDocumentType
	}
	if s.Size < MinSize || s.Size > MaxSize {
		return shared.NewDomainError("INVALID_SEQUENCE_SIZE", fmt.Sprintf("Size must be between %d and %d", MinSize, MaxSize))
	}
	if s.Step < 1 {
		return shared.NewDomainError("INVALID_SEQUENCE_STEP", "Step must be at least 1")
	}
	if s.Next < 0 {
		return shared.NewDomainError("INVALID_SEQUENCE_NEXT", "Next cannot be negative")
	}
	return nil
}

// Format renders value with this sequence's prefix, padding and suffix
func (s *Sequence) Format(value int64, now time.Time) string {
	return Format(s.Prefix, s.Suffix, s.Size, value, now)
}

// Preview returns the number the next Issue would produce
func (s *Sequence) Preview(now time.Time) string {
	return s.Format(s.Next+s.Step, now)
}

// Format renders prefix + zero padded value + suffix. Numbers wider than
// size are kept whole.
func Format(prefix, suffix string, size int, value int64, now time.Time) string {
	digits := strconv.FormatInt(value, 10)
	if pad := size - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return expandTokens(prefix, now) + digits + expandTokens(suffix, now)
}

func tokenReplacer(now time.Time) *strings.Replacer {
	return strings.NewReplacer(
		"%{yyyy}", now.Format("2006"),
		"%{yy}", now.Format("06"),
		"%{mm}", now.Format("01"),
		"%{dd}", now.Format("02"),
	)
}

func expandTokens(s string, now time.Time) string {
	if !strings.Contains(s, "%{") {
		return s
	}
	return tokenReplacer(now).Replace(s)
}

// Default returns the seed settings for a document type
func Default(companyID uuid.UUID, docType DocumentType) Sequence {
	seq := Sequence{
		CompanyID:    companyID,
		DocumentType: docType,
		Size:         6,
		Step:         1,
	}
	switch docType {
	case DocumentTypeCustomer:
		seq.Name, seq.Prefix = "Customer", "C-"
	case DocumentTypeSupplier:
		seq.Name, seq.Prefix = "Supplier", "S-"
	case DocumentTypeQuote:
		seq.Name, seq.Prefix = "Quote", "Q%{yy}-"
	case DocumentTypeSalesOrder:
		seq.Name, seq.Prefix, seq.Size = "Sales Order", "SO-", 5
	case DocumentTypePurchaseOrder:
		seq.Name, seq.Prefix, seq.Size = "Purchase Order", "PO-", 5
	case DocumentTypeJob:
		seq.Name, seq.Prefix = "Job", "J-"
	}
	return seq
}

// Defaults returns the seed rows for every document type
func Defaults(companyID uuid.UUID) []Sequence {
	types := AllDocumentTypes()
	out := make([]Sequence, 0, len(types))
	for _, t := range types {
		out = append(out, Default(companyID, t))
	}
	return out
}
