package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
)

// QuoteProvider loads a quote with every quoted quantity
type QuoteProvider struct {
	quoteRepo    sales.QuoteRepository
	customerRepo partner.CustomerRepository
}

// NewQuoteProvider creates a new QuoteProvider
func NewQuoteProvider(quoteRepo sales.QuoteRepository, customerRepo partner.CustomerRepository) *QuoteProvider {
	return &QuoteProvider{quoteRepo: quoteRepo, customerRepo: customerRepo}
}

// DocType returns the document type this provider handles
func (p *QuoteProvider) DocType() printing.DocType {
	return printing.DocTypeQuote
}

// GetData retrieves quote data for rendering
func (p *QuoteProvider) GetData(ctx context.Context, companyID, documentID uuid.UUID) (*infra.DocumentData, error) {
	quote, err := p.quoteRepo.FindByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	customer, err := p.customerRepo.FindByID(ctx, companyID, quote.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	data := newDocument(printing.DocTypeQuote, companyID, quote.ID, quote.QuoteNumber, quote.Status.String())
	data.Meta.Date = quote.CreatedAt
	data.Meta.DueLabel = "Valid Until"
	data.Meta.DueDate = quote.ExpirationDate
	data.Meta.Notes = quote.Notes
	data.Party = partyFrom("Customer", customer.Code, customer.Name, customer.Contact)
	data.Currency = quote.Currency
	data.Total = quote.Total()
	data.PrintedAt = time.Now()

	for i := range quote.Lines {
		line := &quote.Lines[i]
		selected, _ := line.SelectedPrice()
		ld := infra.LineData{
			Index:       i + 1,
			PartNumber:  line.PartNumber,
			Description: line.Description,
			Quantity:    selected.Quantity,
			UnitPrice:   selected.UnitPrice,
			Amount:      selected.ExtendedPrice,
			Prices:      make([]infra.PriceData, 0, len(line.Prices)),
		}
		for _, price := range line.Prices {
			ld.Prices = append(ld.Prices, infra.PriceData{
				Quantity:      price.Quantity,
				UnitPrice:     price.UnitPrice,
				ExtendedPrice: price.ExtendedPrice,
				LeadTimeDays:  price.LeadTimeDays,
				Selected:      price.Quantity.Equal(selected.Quantity),
			})
		}
		data.Lines = append(data.Lines, ld)
	}
	return data, nil
}

var _ infra.DataProvider = (*QuoteProvider)(nil)
