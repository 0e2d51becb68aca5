package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"heblo/internal/core/ports"
	"heblo/internal/pkg/errs"
)

// Refresher reloads invalidated sources and schedules the merge that publishes them.
type Refresher struct {
	sources   map[string]Source
	order     []string
	scheduler ports.MergeScheduler
	logger    *slog.Logger
}

func NewRefresher(scheduler ports.MergeScheduler, logger *slog.Logger, sources ...Source) *Refresher {
	r := &Refresher{
		sources:   make(map[string]Source, len(sources)),
		scheduler: scheduler,
		logger:    logger.With("component", "CatalogRefresher"),
	}
	for _, s := range sources {
		r.sources[s.Name()] = s
		r.order = append(r.order, s.Name())
	}
	return r
}

// HandleInvalidation refreshes one source and schedules a merge.
// A source that fails to refresh does not schedule a merge.
func (r *Refresher) HandleInvalidation(ctx context.Context, source string) error {
	s, ok := r.sources[source]
	if !ok {
		return errs.NewObjectNotFoundError("source", source)
	}

	if err := s.Refresh(ctx); err != nil {
		r.logger.ErrorContext(ctx, "failed to refresh catalog source", "source", source, "error", err)
		return fmt.Errorf("refresh %s: %w", source, err)
	}

	r.scheduler.ScheduleMerge(source)
	return nil
}

// RefreshAll refreshes every source. Failures are collected and do not stop
// the remaining sources.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	var joined []error
	for _, name := range r.order {
		if err := r.HandleInvalidation(ctx, name); err != nil {
			joined = append(joined, err)
		}
	}
	return errors.Join(joined...)
}
