// Package printing turns business documents into PDFs.
//
// A DataProvider loads the document and its counterparty into DocumentData,
// the TemplateEngine renders the embedded HTML template for the document type
// and the ChromedpRenderer prints that HTML with headless Chrome.
package printing
