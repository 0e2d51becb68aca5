package cmd

import (
	"context"
	"log/slog"

	httpin "heblo/internal/adapters/in/http"
	redisin "heblo/internal/adapters/in/redis"
	"heblo/internal/adapters/out/postgres"
	"heblo/internal/adapters/out/postgres/catalogsource"
	redisout "heblo/internal/adapters/out/redis"
	"heblo/internal/core/application/catalog"
	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/application/usecases/queries"
	"heblo/internal/core/domain/services"
	"heblo/internal/core/ports"
	"heblo/internal/jobs"
	"heblo/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	redisClient *redis.Client
	logger      *slog.Logger

	uowFactory  *postgres.GormUnitOfWorkFactory
	metrics     *metrics.Metrics
	scheduler   *catalog.MergeScheduler
	merger      *catalog.Merger
	refresher   *catalog.Refresher
	invalidator ports.CatalogInvalidator
}

// NewCompositionRoot wires the application. redisClient may be nil, in which
// case catalog invalidations stay in process. ctx bounds the merge scheduler.
func NewCompositionRoot(
	ctx context.Context,
	cfg Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) *CompositionRoot {
	c := &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		redisClient: redisClient,
		logger:      logger,
		metrics:     metrics.New(),
	}

	c.scheduler = catalog.NewMergeScheduler(ctx, logger,
		catalog.WithDebounce(cfg.CatalogMergeDebounce),
		catalog.WithMaxInterval(cfg.CatalogMergeMaxInterval),
		catalog.WithObserver(c.metrics),
	)

	sources := []catalog.Source{
		catalogsource.NewTransportBoxSource(gormDB),
		catalogsource.NewStockUpSource(gormDB),
	}
	c.merger = catalog.NewMerger(logger, sources...)
	c.scheduler.SetMergeCallback(c.merger.Merge)
	c.refresher = catalog.NewRefresher(c.scheduler, logger, sources...)

	local := catalog.NewLocalInvalidator(c.refresher, logger)
	if redisClient != nil {
		c.invalidator = redisout.NewCatalogInvalidator(redisClient, logger,
			redisout.WithChannel(cfg.RedisChannel),
			redisout.WithFallback(local),
		)
	} else {
		c.invalidator = local
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.invalidator)

	return c
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) Refresher() *catalog.Refresher {
	return c.refresher
}

func (c *CompositionRoot) Scheduler() *catalog.MergeScheduler {
	return c.scheduler
}

func (c *CompositionRoot) CreateCreateTransportBoxCommandHandler() *commands.CreateTransportBoxCommandHandler {
	h := commands.NewCreateTransportBoxCommandHandler(c.transportBoxUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateChangeTransportBoxStateCommandHandler() *commands.ChangeTransportBoxStateCommandHandler {
	h := commands.NewChangeTransportBoxStateCommandHandler(c.transportBoxUoWFactory(), c.metrics)
	return &h
}

func (c *CompositionRoot) CreateAddTransportBoxItemCommandHandler() *commands.AddTransportBoxItemCommandHandler {
	h := commands.NewAddTransportBoxItemCommandHandler(c.transportBoxUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateRemoveTransportBoxItemCommandHandler() *commands.RemoveTransportBoxItemCommandHandler {
	h := commands.NewRemoveTransportBoxItemCommandHandler(c.transportBoxUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateProcessReceivedBoxesCommandHandler() *commands.ProcessReceivedBoxesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	h := commands.NewProcessReceivedBoxesCommandHandler(f, services.NewReceiveFinalizer(), c.metrics, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetTransportBoxQueryHandler() queries.GetTransportBoxQueryHandler {
	return queries.NewGetTransportBoxQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransportBoxesQueryHandler() queries.GetTransportBoxesQueryHandler {
	return queries.NewGetTransportBoxesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCatalogQueryHandler() queries.GetCatalogQueryHandler {
	return queries.NewGetCatalogQueryHandler(c.scheduler, c.merger)
}

func (c *CompositionRoot) CreateGetMergeStatusQueryHandler() queries.GetMergeStatusQueryHandler {
	return queries.NewGetMergeStatusQueryHandler(c.scheduler)
}

// HTTPServer builds the API server over the use case handlers.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateTransportBox:         c.CreateCreateTransportBoxCommandHandler(),
		ChangeTransportBoxState:    c.CreateChangeTransportBoxStateCommandHandler(),
		AddTransportBoxItem:        c.CreateAddTransportBoxItemCommandHandler(),
		RemoveTransportBoxItem:     c.CreateRemoveTransportBoxItemCommandHandler(),
		GetTransportBox:            c.CreateGetTransportBoxQueryHandler(),
		GetTransportBoxes:          c.CreateGetTransportBoxesQueryHandler(),
		GetTransportBoxTransitions: queries.NewGetTransportBoxTransitionsQueryHandler(),
		GetCatalog:                 c.CreateGetCatalogQueryHandler(),
		GetMergeStatus:             c.CreateGetMergeStatusQueryHandler(),
	})
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewReceivedBoxesJob(c.CreateProcessReceivedBoxesCommandHandler(), c.cfg.ReceivedBoxesSchedule, c.logger),
		jobs.NewCatalogRefreshJob(c.refresher, c.cfg.CatalogRefreshSchedule, c.logger),
	)
}

// InvalidationSubscriber returns nil when Redis is not configured.
func (c *CompositionRoot) InvalidationSubscriber() *redisin.InvalidationSubscriber {
	if c.redisClient == nil {
		return nil
	}
	return redisin.NewInvalidationSubscriber(c.redisClient, c.cfg.RedisChannel, c.refresher, c.logger)
}

func (c *CompositionRoot) transportBoxUoWFactory() commands.TransportBoxUoWFactory {
	return FuncTransportBoxUoWFactory(func() commands.TransportBoxUoW {
		return c.uowFactory.Create()
	})
}

type FuncTransportBoxUoWFactory func() commands.TransportBoxUoW

func (f FuncTransportBoxUoWFactory) Create() commands.TransportBoxUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
