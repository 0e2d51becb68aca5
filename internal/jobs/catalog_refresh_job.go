package jobs

import (
	"context"
	"log/slog"
	"time"
)

const catalogRefreshRunTimeout = 2 * time.Minute

type catalogRefresher interface {
	RefreshAll(ctx context.Context) error
}

// CatalogRefreshJob reloads every catalog source on a schedule, catching
// changes whose invalidation was lost.
type CatalogRefreshJob struct {
	*cronJob
	refresher catalogRefresher
}

func NewCatalogRefreshJob(refresher catalogRefresher, spec string, logger *slog.Logger) *CatalogRefreshJob {
	job := &CatalogRefreshJob{refresher: refresher}
	job.cronJob = newCronJob("catalog_refresh_job", spec, job.Run, logger)
	return job
}

func (j *CatalogRefreshJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, catalogRefreshRunTimeout)
	defer cancel()

	if err := j.refresher.RefreshAll(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Catalog refresh job failed", "error", err)
	}
}
