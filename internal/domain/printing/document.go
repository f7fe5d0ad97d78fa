package printing

// DocType is a printable business document. The values double as URL path
// segments and archive key segments.
type DocType string

const (
	DocTypeQuote         DocType = "quote"
	DocTypeSalesOrder    DocType = "salesOrder"
	DocTypePurchaseOrder DocType = "purchaseOrder"
	DocTypeJob           DocType = "job"
)

type docInfo struct {
	title     string
	landscape bool
}

// Job travelers print landscape so the operation table fits
var docTypes = map[DocType]docInfo{
	DocTypeQuote:         {title: "Quote"},
	DocTypeSalesOrder:    {title: "Sales Order"},
	DocTypePurchaseOrder: {title: "Purchase Order"},
	DocTypeJob:           {title: "Job Traveler", landscape: true},
}

// AllDocTypes lists the printable documents in menu order
func AllDocTypes() []DocType {
	return []DocType{DocTypeQuote, DocTypeSalesOrder, DocTypePurchaseOrder, DocTypeJob}
}

func (d DocType) IsValid() bool {
	_, ok := docTypes[d]
	return ok
}

func (d DocType) String() string {
	return string(d)
}

// DisplayName is the title printed at the top of the document
func (d DocType) DisplayName() string {
	if info, ok := docTypes[d]; ok {
		return info.title
	}
	return string(d)
}
