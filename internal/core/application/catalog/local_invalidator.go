package catalog

import (
	"context"
	"log/slog"
	"sync"

	"heblo/internal/core/ports"
)

// invalidationHandler is satisfied by Refresher.
type invalidationHandler interface {
	HandleInvalidation(ctx context.Context, source string) error
}

// LocalInvalidator delivers invalidations to the in-process Refresher. It is used
// when no message broker is configured, i.e. for a single instance deployment.
type LocalInvalidator struct {
	handler invalidationHandler
	logger  *slog.Logger
	wg      sync.WaitGroup
}

var _ ports.CatalogInvalidator = (*LocalInvalidator)(nil)

func NewLocalInvalidator(handler invalidationHandler, logger *slog.Logger) *LocalInvalidator {
	return &LocalInvalidator{
		handler: handler,
		logger:  logger.With("component", "LocalCatalogInvalidator"),
	}
}

// Invalidate refreshes the source in the background. The request context only
// contributes its values; its cancellation does not abort the refresh.
func (i *LocalInvalidator) Invalidate(ctx context.Context, source string) {
	ctx = context.WithoutCancel(ctx)

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		if err := i.handler.HandleInvalidation(ctx, source); err != nil {
			i.logger.WarnContext(ctx, "local invalidation failed", "source", source, "error", err)
		}
	}()
}

// Wait blocks until all background refreshes have finished.
func (i *LocalInvalidator) Wait() {
	i.wg.Wait()
}
