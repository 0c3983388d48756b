package port

import (
	"context"

	"docinsight/internal/domain"
)

// Notifier announces analyses that were written to the destination prefix.
type Notifier interface {
	AnalysisReady(ctx context.Context, analysis domain.Analysis) error
}
