package noop

import (
	"context"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that only logs stored analyses.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) AnalysisReady(_ context.Context, a domain.Analysis) error {
	zap.L().Info("[NOOP NOTIFY] analysis ready",
		zap.String("source", a.SourceKey),
		zap.String("destination", a.DestinationKey),
		zap.Int("pages", a.Pages),
	)
	return nil
}
