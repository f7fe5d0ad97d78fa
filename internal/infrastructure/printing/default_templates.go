package printing

import (
	"html"

	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

// DefaultTemplate binds a document type to its embedded template
type DefaultTemplate struct {
	DocType printing.DocType
	// Name is the {{define}} name inside templates/
	Name string
}

var defaultTemplates = map[printing.DocType]DefaultTemplate{
	printing.DocTypeQuote:         {DocType: printing.DocTypeQuote, Name: "quote"},
	printing.DocTypeSalesOrder:    {DocType: printing.DocTypeSalesOrder, Name: "order"},
	printing.DocTypePurchaseOrder: {DocType: printing.DocTypePurchaseOrder, Name: "order"},
	printing.DocTypeJob:           {DocType: printing.DocTypeJob, Name: "job"},
}

// TemplateFor returns the template registered for doc
func TemplateFor(doc printing.DocType) (DefaultTemplate, bool) {
	t, ok := defaultTemplates[doc]
	return t, ok
}

// FooterTemplate is Chrome's page footer for every document
func FooterTemplate(number string) string {
	return `<div style="font-size:8px;width:100%;text-align:center;color:#666;">` +
		html.EscapeString(number) +
		` &middot; Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
}
