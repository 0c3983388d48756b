package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"docinsight/internal/domain"
)

// baseDPI is the resolution of a page at zoom 1.
const baseDPI = 72.0

// DefaultZoom magnifies pages on both axes to improve OCR fidelity.
const DefaultZoom = 2.0

// Rasterizer implements port.Rasterizer using MuPDF through go-fitz.
type Rasterizer struct {
	zoom     float64
	debugDir string
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithZoom overrides the page scale. Non-positive values are ignored.
func WithZoom(zoom float64) Option {
	return func(r *Rasterizer) {
		if zoom > 0 {
			r.zoom = zoom
		}
	}
}

// WithDebugDir writes every rendered page to dir for inspection.
func WithDebugDir(dir string) Option {
	return func(r *Rasterizer) {
		r.debugDir = dir
	}
}

// New creates a Rasterizer.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{zoom: DefaultZoom}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DPI returns the resolution pages are rendered at.
func (r *Rasterizer) DPI() float64 {
	return baseDPI * r.zoom
}

// Rasterize renders every page of pdf to PNG, in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, pdf []byte) ([]domain.PageImage, error) {
	declared, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ErrNoPages
	}
	if pageCount != declared {
		zap.L().Warn("raster: page count mismatch",
			zap.Int("mupdf", pageCount),
			zap.Int("pdfcpu", declared),
		)
	}

	runID := uuid.NewString()[:8]
	images := make([]domain.PageImage, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		png, err := doc.ImagePNG(n, r.DPI())
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", n+1, err)
		}
		page := domain.PageImage{Number: n + 1, PNG: png}
		if bounds, err := doc.Bound(n); err == nil {
			page.Width = int(float64(bounds.Dx()) * r.zoom)
			page.Height = int(float64(bounds.Dy()) * r.zoom)
		}
		images = append(images, page)

		zap.L().Debug("raster: converted page",
			zap.Int("page", n+1),
			zap.Int("pages", pageCount),
			zap.Int("bytes", len(png)),
		)
		r.dump(runID, page)
	}

	zap.L().Info("raster: completed PDF to PNG conversion", zap.Int("pages", pageCount))
	return images, nil
}

func (r *Rasterizer) dump(runID string, page domain.PageImage) {
	if r.debugDir == "" {
		return
	}
	if err := os.MkdirAll(r.debugDir, 0o755); err != nil {
		zap.L().Warn("raster: creating debug dir", zap.String("dir", r.debugDir), zap.Error(err))
		return
	}
	path := filepath.Join(r.debugDir, fmt.Sprintf("%s_page_%d.png", runID, page.Number))
	if err := os.WriteFile(path, page.PNG, 0o644); err != nil {
		zap.L().Warn("raster: writing debug image", zap.String("path", path), zap.Error(err))
		return
	}
	zap.L().Debug("raster: saved debug image", zap.String("path", path))
}

// PageCount validates pdf in relaxed mode and returns its page count.
func PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, domain.ErrNotPDF
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrNotPDF, err)
	}
	if n == 0 {
		return 0, domain.ErrNoPages
	}
	return n, nil
}
