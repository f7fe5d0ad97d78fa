package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	// the page footer needs this much bottom margin to be visible
	footerMinMarginMM = 10
	mmPerInch         = 25.4
)

var _ PDFRenderer = (*ChromedpRenderer)(nil)

type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches
	// a local headless browser.
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root in a container
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

func ChromedpConfigFrom(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpConfig {
	return &ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.RemoteURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         logger,
	}
}

// ChromedpRenderer prints documents to PDF through the DevTools protocol.
// One browser is shared; every Render opens its own tab.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var chromeFlags = map[string]any{
	"headless":                      true,
	"disable-gpu":                   true,
	"no-first-run":                  true,
	"disable-default-apps":          true,
	"disable-extensions":            true,
	"disable-dev-shm-usage":         true,
	"disable-background-networking": true,
	"disable-sync":                  true,
	"font-render-hinting":           "none",
}

// NewChromedpRenderer prepares the allocator; Chrome itself only starts on
// the first Render
func NewChromedpRenderer(cfg *ChromedpConfig) *ChromedpRenderer {
	if cfg == nil {
		cfg = &ChromedpConfig{}
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultChromeTimeout
	}
	if cfg.Scale <= 0 {
		cfg.Scale = defaultScale
	}
	r := &ChromedpRenderer{config: cfg, logger: cfg.Logger}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	for name, value := range chromeFlags {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (result *RenderResult, err error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "pdf.render",
		attribute.String("pdf.paper_size", string(req.Layout.PaperSize)),
		attribute.Int("pdf.html_bytes", len(req.HTML)),
	)
	defer func() { telemetry.End(span, err) }()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	// the tab hangs off the allocator, so tie it to the request by hand
	defer context.AfterFunc(ctx, closeTab)()

	started := time.Now()
	var pdf []byte
	err = chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		setContent(buildCompleteHTML(req)),
		r.buildPrintParams(req).action(&pdf),
	)
	switch {
	case err == nil && len(pdf) == 0:
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	default:
		r.logger.Error("Chrome failed to print document", zap.String("title", req.Title), zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}

	result = &RenderResult{PDFData: pdf, PageCount: estimatePageCount(pdf), RenderDuration: time.Since(started)}
	r.logger.Debug("PDF rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func setContent(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("frame tree: %w", err)
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}

func validateRequest(req *RenderRequest) error {
	switch {
	case req == nil:
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	case strings.TrimSpace(req.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case !req.Layout.PaperSize.IsValid():
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.Layout.PaperSize), nil)
	}
	return nil
}

// printParams are Chrome's PrintToPDF arguments, lengths in inches
type printParams struct {
	paperWidth, paperHeight                          float64
	marginTop, marginRight, marginBottom, marginLeft float64
	scale                                            float64
	landscape                                        bool
	displayHeaderFooter                              bool
	footerTemplate                                   string
}

func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	l := req.Layout
	w, h := l.PaperSize.Dimensions()
	p := &printParams{
		paperWidth:   inches(w),
		paperHeight:  inches(h),
		marginTop:    inches(l.Margins.Top),
		marginRight:  inches(l.Margins.Right),
		marginBottom: inches(l.Margins.Bottom),
		marginLeft:   inches(l.Margins.Left),
		scale:        r.config.Scale,
		landscape:    l.Orientation == printing.OrientationLandscape,
	}
	if req.FooterHTML != "" {
		p.displayHeaderFooter = true
		p.footerTemplate = req.FooterHTML
		p.marginBottom = max(p.marginBottom, inches(footerMinMarginMM))
	}
	return p
}

// action prints the current page into out
func (p *printParams) action(out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(p.paperWidth).
			WithPaperHeight(p.paperHeight).
			WithMarginTop(p.marginTop).
			WithMarginRight(p.marginRight).
			WithMarginBottom(p.marginBottom).
			WithMarginLeft(p.marginLeft).
			WithScale(p.scale).
			WithLandscape(p.landscape).
			WithDisplayHeaderFooter(p.displayHeaderFooter).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(p.footerTemplate).
			Do(ctx)
		*out = data
		return err
	})
}

// buildCompleteHTML wraps a fragment in a document; full documents pass through
func buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func inches[T ~int | ~float64](mm T) float64 {
	return float64(mm) / mmPerInch
}
