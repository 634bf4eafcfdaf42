package workers

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Pruner deletes stored preferences last written before a cutoff.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// PrunePreferences removes preferences older than retention and reports how
// many entries went.
func PrunePreferences(ctx context.Context, p Pruner, clock clockwork.Clock, retention time.Duration) (int64, error) {
	cutoff := clock.Now().Add(-retention)

	n, err := p.Prune(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("worker: failed to prune preferences")
		return 0, err
	}

	log.Info().Int64("pruned", n).Time("cutoff", cutoff).Msg("worker: pruned stale preferences")
	return n, nil
}

const DefaultPruneInterval = time.Hour

// RunPruner prunes once immediately, then every interval until ctx is done.
// A non-positive interval falls back to DefaultPruneInterval.
func RunPruner(ctx context.Context, p Pruner, clock clockwork.Clock, retention, interval time.Duration) {
	if interval <= 0 {
		log.Warn().Dur("interval", interval).Dur("default", DefaultPruneInterval).Msg("worker: invalid prune interval, using default")
		interval = DefaultPruneInterval
	}

	PrunePreferences(ctx, p, clock, retention)

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			PrunePreferences(ctx, p, clock, retention)
		}
	}
}
