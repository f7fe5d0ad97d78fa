// Package printing describes the business documents that can be rendered to
// PDF (quotes, sales orders, purchase orders and job travelers) and the page
// layout they are printed with.
package printing
