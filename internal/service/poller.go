package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// ErrNotInitialized is returned by Run when the baseline listing has not been taken.
var ErrNotInitialized = errors.New("poller: baseline snapshot not taken")

// PollerConfig holds settings for the change-detection poller.
type PollerConfig struct {
	SourcePrefix string
	Interval     time.Duration
}

// Poller detects objects that appear under a source prefix and hands each one
// to a callback at most once per process lifetime. Objects present when
// Initialize runs are never handed over.
type Poller struct {
	store port.ObjectStorage
	cfg   PollerConfig
	stats *Stats

	mu          sync.Mutex
	observed    map[string]struct{}
	initialized bool
}

// NewPoller creates a new Poller. stats may be nil.
func NewPoller(store port.ObjectStorage, cfg PollerConfig, stats *Stats) *Poller {
	if stats == nil {
		stats = NewStats()
	}
	return &Poller{
		store:    store,
		cfg:      cfg,
		stats:    stats,
		observed: map[string]struct{}{},
	}
}

// Initialize lists the source prefix and records every object in it as already observed.
func (p *Poller) Initialize(ctx context.Context) error {
	objects, err := p.store.List(ctx, p.cfg.SourcePrefix)
	if err != nil {
		return fmt.Errorf("listing baseline under %q: %w", p.cfg.SourcePrefix, err)
	}

	p.mu.Lock()
	for _, obj := range objects {
		if id := NormalizeKey(p.cfg.SourcePrefix, obj.Key); id != "" {
			p.observed[id] = struct{}{}
		}
	}
	p.initialized = true
	count := len(p.observed)
	p.mu.Unlock()

	p.stats.RecordPoll(time.Now())
	zap.L().Info("poller: baseline snapshot taken",
		zap.String("prefix", p.cfg.SourcePrefix),
		zap.Int("observed", count),
	)
	return nil
}

// PollOnce re-lists the source prefix and returns the objects not seen before,
// in listing order. Each returned object is marked observed before PollOnce returns.
func (p *Poller) PollOnce(ctx context.Context) ([]domain.ObjectInfo, error) {
	objects, err := p.store.List(ctx, p.cfg.SourcePrefix)
	if err != nil {
		return nil, domain.TransientFetchError(p.cfg.SourcePrefix, err)
	}
	p.stats.RecordPoll(time.Now())

	p.mu.Lock()
	defer p.mu.Unlock()

	var fresh []domain.ObjectInfo
	for _, obj := range objects {
		id := NormalizeKey(p.cfg.SourcePrefix, obj.Key)
		if id == "" {
			continue
		}
		if _, seen := p.observed[id]; seen {
			continue
		}
		p.observed[id] = struct{}{}
		fresh = append(fresh, obj)
	}
	return fresh, nil
}

// Run polls and calls onNew for each new object, one at a time. The next poll
// starts a full interval after the previous cycle finished, however long the
// cycle took. It returns nil when ctx is canceled.
func (p *Poller) Run(ctx context.Context, onNew func(context.Context, domain.ObjectInfo)) error {
	if !p.Ready() {
		return ErrNotInitialized
	}

	timer := time.NewTimer(p.cfg.Interval)
	defer timer.Stop()

	zap.L().Info("poller: started",
		zap.String("prefix", p.cfg.SourcePrefix),
		zap.Duration("interval", p.cfg.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("poller: shutdown complete", zap.Int("observed", p.ObservedCount()))
			return nil
		case <-timer.C:
			p.cycle(ctx, onNew)
			timer.Reset(p.cfg.Interval)
		}
	}
}

func (p *Poller) cycle(ctx context.Context, onNew func(context.Context, domain.ObjectInfo)) {
	fresh, err := p.PollOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Context canceled during poll
			return
		}
		zap.L().Warn("poller: listing failed, skipping cycle",
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err),
		)
		return
	}

	for _, obj := range fresh {
		if ctx.Err() != nil {
			return
		}
		zap.L().Info("poller: new object detected",
			zap.String("key", obj.Key),
			zap.Time("last_modified", obj.LastModified),
		)
		onNew(ctx, obj)
	}
}
