// Package providers implements DataProvider for each printable document type.
package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
)

// DataProviderRegistry looks up the DataProvider for a document type
type DataProviderRegistry struct {
	mu        sync.RWMutex
	providers map[printing.DocType]infra.DataProvider
}

// NewDataProviderRegistry creates a registry holding the given providers
func NewDataProviderRegistry(providers ...infra.DataProvider) *DataProviderRegistry {
	r := &DataProviderRegistry{
		providers: make(map[printing.DocType]infra.DataProvider),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any previous one for the same type
func (r *DataProviderRegistry) Register(provider infra.DataProvider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.DocType()] = provider
}

// GetProvider returns the provider for docType
func (r *DataProviderRegistry) GetProvider(docType printing.DocType) (infra.DataProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[docType]
	return provider, ok
}

// LoadData loads document data with the provider registered for docType
func (r *DataProviderRegistry) LoadData(ctx context.Context, companyID uuid.UUID, docType printing.DocType, documentID uuid.UUID) (*infra.DocumentData, error) {
	provider, ok := r.GetProvider(docType)
	if !ok {
		return nil, fmt.Errorf("no data provider registered for document type: %s", docType)
	}
	return provider.GetData(ctx, companyID, documentID)
}

// HasProvider checks if a provider is registered for docType
func (r *DataProviderRegistry) HasProvider(docType printing.DocType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[docType]
	return ok
}

// RegisteredTypes returns the registered document types in sorted order
func (r *DataProviderRegistry) RegisteredTypes() []printing.DocType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]printing.DocType, 0, len(r.providers))
	for docType := range r.providers {
		types = append(types, docType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func newDocument(doc printing.DocType, companyID, documentID uuid.UUID, number, status string) *infra.DocumentData {
	return &infra.DocumentData{
		Meta: infra.DocumentMeta{
			DocType:    doc,
			Title:      doc.DisplayName(),
			Number:     number,
			Status:     status,
			CompanyID:  companyID,
			DocumentID: documentID,
		},
		Lines: make([]infra.LineData, 0),
	}
}

func partyFrom(role, code, name string, c partner.Contact) *infra.PartyInfo {
	return &infra.PartyInfo{
		Role:    role,
		Code:    code,
		Name:    name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		Country: c.Country,
	}
}
