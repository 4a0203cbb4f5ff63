package retention

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/history"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

// Pruner enforces retention on a history storage.
type Pruner struct {
	storage history.Storage
	config  config.RetentionConfig
	logger  *logging.Logger
	now     func() time.Time
}

// NewPruner creates a Pruner. A nil logger discards output.
func NewPruner(storage history.Storage, cfg config.RetentionConfig, logger *logging.Logger) *Pruner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pruner{
		storage: storage,
		config:  cfg,
		logger:  logger.WithComponent("history.retention"),
		now:     time.Now,
	}
}

// Config returns the retention settings in use.
func (p *Pruner) Config() config.RetentionConfig {
	return p.config
}

// Cutoff returns the oldest start time kept, or the zero time when age
// pruning is disabled.
func (p *Pruner) Cutoff() time.Time {
	if p.config.Days <= 0 {
		return time.Time{}
	}
	return p.now().AddDate(0, 0, -p.config.Days)
}

// Prune deletes runs older than the retention period and runs beyond
// max_runs. It returns the number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff := p.Cutoff()
	if cutoff.IsZero() && p.config.MaxRuns <= 0 {
		p.logger.Debug("Retention disabled, nothing to prune")
		return 0, nil
	}

	deleted, err := p.storage.Delete(ctx, cutoff, p.config.MaxRuns)
	if err != nil {
		return 0, fmt.Errorf("prune failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("History pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
			"max_runs", p.config.MaxRuns,
		)
	} else {
		p.logger.Debug("No runs pruned",
			"retention_days", p.config.Days,
			"max_runs", p.config.MaxRuns,
		)
	}
	return deleted, nil
}
