package port

import (
	"context"

	"docinsight/internal/domain"
)

// Rasterizer turns a PDF into one image per page, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([]domain.PageImage, error)
}

// TextExtractor runs OCR over a single page image and returns its lines in reading order.
type TextExtractor interface {
	ExtractLines(ctx context.Context, image []byte) ([]string, error)
}

// Summarizer turns extracted document text into a markdown summary.
// A Summary with empty Markdown means the service had nothing to say.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*domain.Summary, error)
}

// Renderer converts markdown into final document bytes.
type Renderer interface {
	Render(markdown string, cfg domain.RenderConfig) ([]byte, error)
}
