package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// PipelineConfig holds the output settings for processed documents.
type PipelineConfig struct {
	DestinationPrefix string
	OutputSuffix      string
	Render            domain.RenderConfig
}

// PipelineResult describes one completed pipeline run.
// DestinationKey is empty when the summary had no content and nothing was stored.
type PipelineResult struct {
	DestinationKey string
	Pages          int
	Model          string
	Provider       string
	Elapsed        time.Duration
}

// Pipeline turns raw PDF bytes into a stored analysis document. It holds no
// per-document state and may be reused for any number of documents.
type Pipeline struct {
	rasterizer port.Rasterizer
	extractor  port.TextExtractor
	summarizer port.Summarizer
	renderer   port.Renderer
	store      port.ObjectStorage
	cfg        PipelineConfig
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	rasterizer port.Rasterizer,
	extractor port.TextExtractor,
	summarizer port.Summarizer,
	renderer port.Renderer,
	store port.ObjectStorage,
	cfg PipelineConfig,
) *Pipeline {
	return &Pipeline{
		rasterizer: rasterizer,
		extractor:  extractor,
		summarizer: summarizer,
		renderer:   renderer,
		store:      store,
		cfg:        cfg,
	}
}

// Process runs the pipeline for one document and returns the stored key,
// or "" with a nil error when the summary was empty.
func (p *Pipeline) Process(ctx context.Context, raw []byte, baseName string) (string, error) {
	res, err := p.Run(ctx, raw, baseName)
	if err != nil {
		return "", err
	}
	return res.DestinationKey, nil
}

// Run is Process with the details of the run. Every error is a *domain.PipelineError.
func (p *Pipeline) Run(ctx context.Context, raw []byte, baseName string) (*PipelineResult, error) {
	started := time.Now()
	log := zap.L().With(zap.String("document", baseName))

	pages, err := p.rasterizer.Rasterize(ctx, raw)
	if err != nil {
		return nil, domain.RasterizeError(baseName, err)
	}
	log.Debug("pipeline: rasterized", zap.Int("pages", len(pages)))

	text, err := p.extract(ctx, baseName, pages)
	if err != nil {
		return nil, err
	}
	log.Debug("pipeline: extracted text", zap.Int("pages", len(pages)), zap.Int("chars", len(text)))

	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, domain.SummarizationError(baseName, err)
	}

	res := &PipelineResult{Pages: len(pages)}
	if summary != nil {
		res.Model, res.Provider = summary.Model, summary.Provider
	}
	if summary == nil || strings.TrimSpace(summary.Markdown) == "" {
		res.Elapsed = time.Since(started)
		log.Info("pipeline: no content returned by summarizer, nothing stored", zap.String("model", res.Model))
		return res, nil
	}

	doc, err := p.renderer.Render(summary.Markdown, p.cfg.Render)
	if err != nil {
		return nil, domain.RenderError(baseName, err)
	}

	key := DestinationKey(p.cfg.DestinationPrefix, baseName, p.cfg.OutputSuffix)
	err = p.store.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(doc),
		ContentType: domain.ContentTypePDF,
	})
	if err != nil {
		return nil, domain.PersistError(baseName, err)
	}

	res.DestinationKey = key
	res.Elapsed = time.Since(started)
	log.Info("pipeline: analysis stored",
		zap.String("key", key),
		zap.Int("pages", res.Pages),
		zap.String("model", res.Model),
		zap.Int("bytes", len(doc)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// extract runs OCR over every page in order. Lines within a page and pages
// within the document are joined with a newline.
func (p *Pipeline) extract(ctx context.Context, baseName string, pages []domain.PageImage) (string, error) {
	texts := make([]string, 0, len(pages))
	for i, page := range pages {
		number := page.Number
		if number == 0 {
			number = i + 1
		}
		lines, err := p.extractor.ExtractLines(ctx, page.PNG)
		if err != nil {
			return "", domain.ExtractionError(baseName, number, err)
		}
		texts = append(texts, strings.Join(lines, "\n"))
	}
	return strings.Join(texts, "\n"), nil
}
