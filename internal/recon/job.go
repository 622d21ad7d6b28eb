package recon

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/strahovfest/vstupenky-backend/pkg/fio"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

// feed supplies the full historical transaction list.
type feed interface {
	Transactions(ctx context.Context) ([]fio.Transaction, error)
}

// Job runs one fetch-and-reconcile pass; it plugs into the worker loop.
type Job struct {
	engine *Engine
	feed   feed
	logg   *logger.Logger
}

// NewJob wires the reconcile job.
func NewJob(engine *Engine, feed feed, logg *logger.Logger) (*Job, error) {
	if engine == nil {
		return nil, fmt.Errorf("reconciliation engine required")
	}
	if feed == nil {
		return nil, fmt.Errorf("bank feed required")
	}
	return &Job{engine: engine, feed: feed, logg: logg}, nil
}

func (j *Job) Name() string { return "reconcile" }

// Run fetches the feed and reconciles it. Delivery failures are logged
// here rather than failing the job; the matches behind them already
// stand in the ledger.
func (j *Job) Run(ctx context.Context) error {
	txs, err := j.feed.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("fetching bank feed: %w", err)
	}

	summary, err := j.engine.Reconcile(ctx, txs)
	if err != nil {
		return err
	}

	if j.logg != nil {
		runCtx := j.logg.WithFields(ctx, map[string]any{
			"feed_size": summary.FeedSize,
			"matched":   len(summary.MatchedUUIDs),
			"unmatched": summary.Unmatched,
		})
		j.logg.Info(runCtx, "reconciliation pass complete")
		for _, deliveryErr := range multierr.Errors(summary.DeliveryErr) {
			j.logg.Error(ctx, "ticket delivery failed", deliveryErr)
		}
	}
	return nil
}
