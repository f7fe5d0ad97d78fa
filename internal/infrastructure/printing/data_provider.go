package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

// DataProvider loads the data one document type is rendered from
type DataProvider interface {
	DocType() printing.DocType
	GetData(ctx context.Context, companyID, documentID uuid.UUID) (*DocumentData, error)
}

// DocumentData is the root object every template is executed against
type DocumentData struct {
	Meta     DocumentMeta    `json:"meta"`
	Party    *PartyInfo      `json:"party,omitempty"`
	Lines    []LineData      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Job      *JobData        `json:"job,omitempty"`

	PrintedAt time.Time `json:"printedAt"`
}

// DocumentMeta holds the header fields common to every document
type DocumentMeta struct {
	DocType    printing.DocType `json:"docType"`
	Title      string           `json:"title"`
	Number     string           `json:"number"`
	Status     string           `json:"status"`
	Date       time.Time        `json:"date"`
	DueLabel   string           `json:"dueLabel"`
	DueDate    *time.Time       `json:"dueDate,omitempty"`
	Notes      string           `json:"notes"`
	Reference  string           `json:"reference"`
	CompanyID  uuid.UUID        `json:"companyId"`
	DocumentID uuid.UUID        `json:"documentId"`
}

// PartyInfo is the customer or supplier the document is addressed to
type PartyInfo struct {
	Role    string `json:"role"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// LineData is one printed line. Quote lines carry a price per quantity.
type LineData struct {
	Index       int             `json:"index"`
	PartNumber  string          `json:"partNumber"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Received    decimal.Decimal `json:"received"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	Prices      []PriceData     `json:"prices,omitempty"`
}

// PriceData is a quoted quantity break
type PriceData struct {
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	ExtendedPrice decimal.Decimal `json:"extendedPrice"`
	LeadTimeDays  int             `json:"leadTimeDays"`
	Selected      bool            `json:"selected"`
}

// JobData holds the traveler fields of a production job
type JobData struct {
	PartNumber       string          `json:"partNumber"`
	PartName         string          `json:"partName"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityComplete decimal.Decimal `json:"quantityComplete"`
	SalesOrder       string          `json:"salesOrder"`
	StartedAt        *time.Time      `json:"startedAt,omitempty"`
}

// Describe names the document in logs and errors
func (d *DocumentData) Describe() string {
	return fmt.Sprintf("%s %s", d.Meta.DocType, d.Meta.Number)
}
