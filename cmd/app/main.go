package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"heblo/cmd"
	httpin "heblo/internal/adapters/in/http"
	"heblo/internal/adapters/out/postgres/stockuprepo"
	"heblo/internal/adapters/out/postgres/transportboxrepo"
	redisout "heblo/internal/adapters/out/redis"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustOpenDatabase(configs)
	redisClient := mustConnectRedis(ctx, configs)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	app := cmd.NewCompositionRoot(ctx, configs, gormDB, redisClient, logger)

	if subscriber := app.InvalidationSubscriber(); subscriber != nil {
		go func() {
			if runErr := subscriber.Run(ctx); runErr != nil {
				logger.ErrorContext(ctx, "Invalidation subscriber stopped", "error", runErr)
			}
		}()
	}

	if refreshErr := app.Refresher().RefreshAll(ctx); refreshErr != nil {
		logger.WarnContext(ctx, "Initial catalog refresh incomplete", "error", refreshErr)
	}

	jobManager := app.JobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs, logger)
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	models := append(transportboxrepo.Models(), &stockuprepo.StockUpOperationDTO{})
	if err = gormDB.AutoMigrate(models...); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func mustConnectRedis(ctx context.Context, configs cmd.Config) *redis.Client {
	if configs.RedisURL == "" {
		return nil
	}

	client, err := redisout.NewClient(ctx, configs.RedisURL)
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	return client
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	e, err := httpin.NewEcho(app.HTTPServer(), app.Metrics().Handler(), logger)
	if err != nil {
		log.Fatalf("Error building HTTP server: %v", err)
	}

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", startErr)
		}
	}()
	logger.InfoContext(ctx, "HTTP server started", "port", configs.HTTPPort)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}
