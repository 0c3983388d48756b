package main

import (
	"fmt"

	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/notify/noop"
	sesnotify "docinsight/internal/notify/ses"
	"docinsight/internal/ocr"
	"docinsight/internal/port"
	"docinsight/internal/raster"
	"docinsight/internal/render"
	"docinsight/internal/service"
	s3storage "docinsight/internal/storage/s3"
	"docinsight/internal/summarizer"
	"docinsight/internal/summarizer/claude"
	"docinsight/internal/summarizer/ollama"
	"docinsight/internal/summarizer/openai"
)

func init() {
	summarizer.RegisterProvider(config.ProviderAzureOpenAI, func(c *config.ProviderConfig, tmpl string) (port.Summarizer, error) {
		return openai.NewAzure(c, tmpl), nil
	})
	summarizer.RegisterProvider(config.ProviderOpenAI, func(c *config.ProviderConfig, tmpl string) (port.Summarizer, error) {
		return openai.NewOpenAI(c, tmpl), nil
	})
	summarizer.RegisterProvider(config.ProviderClaude, func(c *config.ProviderConfig, tmpl string) (port.Summarizer, error) {
		return claude.New(c, tmpl), nil
	})
	summarizer.RegisterProvider(config.ProviderOllama, func(c *config.ProviderConfig, tmpl string) (port.Summarizer, error) {
		return ollama.New(c, tmpl)
	})
}

// app holds the collaborators shared by the commands.
type app struct {
	store     port.ObjectStorage
	processor *service.Processor
	stats     *service.Stats
}

func buildApp(cfg *config.Config) (*app, error) {
	store, err := s3storage.NewS3Client(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing object storage: %w", err)
	}

	summ, err := summarizer.NewFromConfig(&cfg.Summarizer)
	if err != nil {
		return nil, fmt.Errorf("initializing summarizer: %w", err)
	}
	zap.L().Info("summarizer chain configured", zap.Strings("providers", summ.Names()))

	notifier, err := newNotifier(&cfg.Email)
	if err != nil {
		return nil, err
	}

	pipeline := service.NewPipeline(
		raster.New(raster.WithZoom(cfg.Raster.Zoom), raster.WithDebugDir(cfg.Raster.DebugDir)),
		ocr.NewAzureVision(&cfg.OCR),
		summ,
		render.New(),
		store,
		service.PipelineConfig{
			DestinationPrefix: cfg.Watch.DestinationPrefix,
			OutputSuffix:      cfg.Watch.OutputSuffix,
			Render:            cfg.Render,
		},
	)

	stats := service.NewStats()
	processor := service.NewProcessor(store, pipeline, notifier, stats, service.ProcessorConfig{
		SourcePrefix: cfg.Watch.SourcePrefix,
		Timeout:      cfg.Watch.ProcessTimeout(),
	})

	return &app{store: store, processor: processor, stats: stats}, nil
}

func newNotifier(cfg *config.EmailConfig) (port.Notifier, error) {
	switch cfg.Provider {
	case "ses":
		n, err := sesnotify.NewSESNotifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing SES notifier: %w", err)
		}
		return n, nil
	case "noop", "":
		return noop.NewNoopNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
