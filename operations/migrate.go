package operations

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MigrationResult is the outcome of one collection in a MigrateAll batch. Report is nil
// for runs that never started because an earlier run failed.
type MigrationResult struct {
	Collection string
	Report     *MigrationReport
	Err        error
}

// MigrateAll runs every replication with at most parallel of them in flight. Each run owns
// its paginator and cursor. The first failure cancels the runs that haven't started yet,
// runs already in flight finish their work. The returned error is that first failure.
func MigrateAll(ctx context.Context, runs []*Replicate, parallel int) ([]MigrationResult, error) {
	if parallel < 1 {
		parallel = 1
	}
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := make([]MigrationResult, len(runs))
	sem := semaphore.NewWeighted(int64(parallel))
	g, gctx := errgroup.WithContext(batchCtx)
	for i, run := range runs {
		i, run := i, run
		results[i].Collection = run.Source.Collection
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i].Err = err
				log.WithField("collection", run.Source.Collection).Warn("Skipping migration, batch was cancelled")
				return nil
			}
			if err := gctx.Err(); err != nil {
				sem.Release(1)
				results[i].Err = err
				log.WithField("collection", run.Source.Collection).Warn("Skipping migration, batch was cancelled")
				return nil
			}
			report, err := run.Run(ctx)
			results[i].Report = report
			results[i].Err = err
			if err != nil {
				// cancel before the slot is handed to a waiting run
				cancel()
			}
			sem.Release(1)
			return err
		})
	}
	err := g.Wait()
	return results, err
}
