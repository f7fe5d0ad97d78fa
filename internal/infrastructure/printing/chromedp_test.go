package printing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
)

func TestChromedpConfigFrom(t *testing.T) {
	cfg := ChromedpConfigFrom(config.PrintingConfig{
		RemoteURL: "ws://chrome:9222",
		Timeout:   5 * time.Second,
		NoSandbox: true,
	}, nil)

	assert.Equal(t, "ws://chrome:9222", cfg.RemoteURL)
	assert.Equal(t, 5*time.Second, cfg.DefaultTimeout)
	assert.True(t, cfg.NoSandbox)
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.allocCtx)
}

func TestValidateRequest(t *testing.T) {
	layout := printing.DefaultLayout(printing.DocTypeQuote, printing.PaperSizeA4)

	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{"nil", nil, ErrCodeInvalidHTML},
		{"blank html", &RenderRequest{HTML: "  ", Layout: layout}, ErrCodeInvalidHTML},
		{"bad paper", &RenderRequest{HTML: "<p>x</p>", Layout: printing.Layout{PaperSize: "B5"}}, ErrCodeInvalidPaperSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			var rerr *RenderError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.code, rerr.Code)
		})
	}

	assert.NoError(t, validateRequest(&RenderRequest{HTML: "<p>x</p>", Layout: layout}))
}

func TestBuildPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1}}

	t.Run("letter portrait", func(t *testing.T) {
		p := r.buildPrintParams(&RenderRequest{Layout: printing.DefaultLayout(printing.DocTypeQuote, printing.PaperSizeLetter)})
		assert.InDelta(t, 216/25.4, p.paperWidth, 0.001)
		assert.InDelta(t, 279/25.4, p.paperHeight, 0.001)
		assert.InDelta(t, 12/25.4, p.marginBottom, 0.001)
		assert.False(t, p.landscape)
		assert.False(t, p.displayHeaderFooter)
	})

	t.Run("job is landscape", func(t *testing.T) {
		p := r.buildPrintParams(&RenderRequest{Layout: printing.DefaultLayout(printing.DocTypeJob, printing.PaperSizeA4)})
		assert.True(t, p.landscape)
	})

	t.Run("footer raises bottom margin", func(t *testing.T) {
		layout := printing.DefaultLayout(printing.DocTypeQuote, printing.PaperSizeA4)
		layout.Margins.Bottom = 2
		p := r.buildPrintParams(&RenderRequest{Layout: layout, FooterHTML: FooterTemplate("Q-1")})
		assert.True(t, p.displayHeaderFooter)
		assert.InDelta(t, 10/25.4, p.marginBottom, 0.001)
		assert.Contains(t, p.footerTemplate, "pageNumber")
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	out := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A&B"})
	assert.Contains(t, out, "<title>A&amp;B</title>")
	assert.Contains(t, out, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount(nil))
	assert.Equal(t, 2, estimatePageCount([]byte("/Type /Pages /Type /Page /Type /Page")))
	assert.Equal(t, 3, estimatePageCount([]byte("/Type/Pages/Type/Page/Type/Page/Type/Page")))
}

func TestFooterTemplate(t *testing.T) {
	footer := FooterTemplate("<Q-1>")
	assert.Contains(t, footer, "&lt;Q-1&gt;")
	assert.Contains(t, footer, `class="totalPages"`)
}

func TestRenderError(t *testing.T) {
	cause := assert.AnError
	err := NewRenderError(ErrCodeRenderFailed, "boom", cause)
	assert.Equal(t, "boom: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", NewRenderError(ErrCodeRenderFailed, "boom", nil).Error())
}
