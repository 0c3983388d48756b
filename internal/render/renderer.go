package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"docinsight/internal/domain"
)

// documentDate is stamped as both creation and modification date so that
// identical markdown always produces identical bytes.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer implements port.Renderer by laying out CommonMark (plus GFM tables,
// strikethrough and autolinks) on PDF pages.
type Renderer struct {
	md       goldmark.Markdown
	compress bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompression toggles stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(r *Renderer) {
		r.compress = on
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		)),
		compress: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out markdown with the page geometry and typography in cfg and returns the PDF bytes.
func (r *Renderer) Render(markdown string, cfg domain.RenderConfig) ([]byte, error) {
	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: float64(cfg.PageWidthMm), Ht: float64(cfg.PageHeightMm)},
	})
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("docinsight", false)

	left := marginMm(cfg.MarginLeftCm, cfg.PaddingPx)
	top := marginMm(cfg.MarginTopCm, cfg.PaddingPx)
	right := marginMm(cfg.MarginRightCm, cfg.PaddingPx)
	bottom := marginMm(cfg.MarginBottomCm, cfg.PaddingPx)
	pdf.SetMargins(left, top, right)
	pdf.SetAutoPageBreak(true, bottom)
	pdf.AddPage()

	w := newWriter(pdf, src, cfg)
	w.blocks(doc)
	if n := w.glyphs.missingCount(); n > 0 {
		zap.L().Warn("render: characters have no glyph in the embedded fonts",
			zap.Int("distinct_runes", n),
		)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("laying out pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	zap.L().Debug("render: markdown converted to pdf",
		zap.Int("markdown_bytes", len(src)),
		zap.Int("pages", pdf.PageNo()),
		zap.Int("pdf_bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}
