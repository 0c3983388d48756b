package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

const defaultProcessTimeout = 5 * time.Minute

// ProcessorConfig holds settings for the document processor.
type ProcessorConfig struct {
	SourcePrefix string
	Timeout      time.Duration
}

// Processor fetches a detected object and runs it through the pipeline.
// Handle is the callback handed to Poller.Run.
type Processor struct {
	store    port.ObjectStorage
	pipeline *Pipeline
	notifier port.Notifier
	stats    *Stats
	cfg      ProcessorConfig
}

// NewProcessor creates a new Processor. notifier and stats may be nil.
func NewProcessor(store port.ObjectStorage, pipeline *Pipeline, notifier port.Notifier, stats *Stats, cfg ProcessorConfig) *Processor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProcessTimeout
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Processor{
		store:    store,
		pipeline: pipeline,
		notifier: notifier,
		stats:    stats,
		cfg:      cfg,
	}
}

// Process downloads obj and runs the pipeline on it under the configured timeout.
// A nil error with an empty DestinationKey means the summary had no content.
func (p *Processor) Process(ctx context.Context, obj domain.ObjectInfo) (*PipelineResult, error) {
	base := NormalizeKey(p.cfg.SourcePrefix, obj.Key)
	if base == "" {
		return nil, domain.TransientFetchError(obj.Key, domain.ErrEmptyKey)
	}

	// Detach from the poll loop so shutdown does not cut a document off halfway.
	procCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.Timeout)
	defer cancel()

	raw, err := p.store.Download(procCtx, obj.Key)
	if err != nil {
		return nil, domain.TransientFetchError(obj.Key, err)
	}

	res, err := p.pipeline.Run(procCtx, raw, base)
	if err != nil {
		return nil, err
	}
	if res.DestinationKey != "" {
		p.notify(procCtx, obj.Key, res)
	}
	return res, nil
}

// Handle processes obj, logs and counts the outcome. It never returns an
// error or panics, so the poll loop always moves on to the next object.
func (p *Processor) Handle(ctx context.Context, obj domain.ObjectInfo) (outcome domain.Outcome) {
	log := zap.L().With(zap.String("key", obj.Key))
	p.stats.RecordDispatch()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.Error("processor: recovered from panic", zap.Error(err))
			outcome = domain.OutcomeFailed
			p.stats.RecordOutcome(outcome, domain.KindUnknown, "")
		}
	}()

	res, err := p.Process(ctx, obj)
	switch {
	case err != nil:
		kind := domain.KindOf(err)
		log.Error("processor: document failed",
			zap.String("kind", string(kind)),
			zap.String("stage", domain.StageOf(err)),
			zap.Error(err),
		)
		p.stats.RecordOutcome(domain.OutcomeFailed, kind, "")
		return domain.OutcomeFailed
	case res.DestinationKey == "":
		log.Info("processor: no content, nothing stored", zap.Int("pages", res.Pages))
		p.stats.RecordOutcome(domain.OutcomeSkipped, "", "")
		return domain.OutcomeSkipped
	default:
		log.Info("processor: document stored",
			zap.String("destination", res.DestinationKey),
			zap.Duration("elapsed", res.Elapsed),
		)
		p.stats.RecordOutcome(domain.OutcomeStored, "", res.DestinationKey)
		return domain.OutcomeStored
	}
}

func (p *Processor) notify(ctx context.Context, sourceKey string, res *PipelineResult) {
	if p.notifier == nil {
		return
	}
	err := p.notifier.AnalysisReady(ctx, domain.Analysis{
		SourceKey:      sourceKey,
		DestinationKey: res.DestinationKey,
		Pages:          res.Pages,
		Model:          res.Model,
		Duration:       res.Elapsed,
		CompletedAt:    time.Now().UTC(),
	})
	if err != nil {
		zap.L().Warn("processor: notification failed",
			zap.String("key", sourceKey),
			zap.String("destination", res.DestinationKey),
			zap.Error(err),
		)
	}
}
