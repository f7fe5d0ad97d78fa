package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"maps"

	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine turns DocumentData into HTML with the embedded templates
type TemplateEngine struct {
	funcs template.FuncMap
	docs  *template.Template
}

type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds template functions, replacing built-ins of the same name
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) { maps.Copy(e.funcs, funcs) }
}

func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{funcs: documentFuncs()}
	for _, opt := range opts {
		opt(e)
	}
	docs, err := template.New("documents").Funcs(e.funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "parse document templates", err)
	}
	e.docs = docs
	return e, nil
}

// Render executes the template bound to doc
func (e *TemplateEngine) Render(_ context.Context, doc printing.DocType, data *DocumentData) (string, error) {
	def, ok := TemplateFor(doc)
	switch {
	case !ok:
		return "", NewRenderError(ErrCodeUnknownTemplate, "no template for document type "+doc.String(), nil)
	case data == nil:
		return "", NewRenderError(ErrCodeInvalidHTML, "document data is nil", nil)
	}
	return execute(e.docs.Lookup(def.Name), data)
}

// RenderString parses and runs a one-off template with the document
// functions available
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcs).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "parse template "+name, err)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	if tmpl == nil {
		return "", NewRenderError(ErrCodeUnknownTemplate, "template is not defined", nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}
