package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/package-service/internal/api/http"
	"github.com/spec-kit/package-service/internal/api/http/handlers"
	"github.com/spec-kit/package-service/internal/auth"
	"github.com/spec-kit/package-service/internal/catalog"
	"github.com/spec-kit/package-service/internal/config"
	"github.com/spec-kit/package-service/internal/events"
	"github.com/spec-kit/package-service/internal/observability"
	"github.com/spec-kit/package-service/internal/persistence"
	"github.com/spec-kit/package-service/internal/repository"
	"github.com/spec-kit/package-service/internal/service"
	"github.com/spec-kit/package-service/internal/ticket"
	"github.com/spec-kit/package-service/internal/worker"
	"github.com/spec-kit/package-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Configured() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.Files, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	products, err := catalog.LoadSeed(cfg.Catalog.SeedFile)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	feed := catalog.NewFeed(products)
	logger.Info("catalog loaded", zap.Int("products", len(products)))

	loc, err := cfg.Ticket.Location()
	if err != nil {
		logger.Fatal("invalid ticket timezone", zap.Error(err))
	}
	generator := ticket.NewGenerator(loc)

	packageRepo := newPackageRepository(cfg.Store.Backend, pg)
	sequencer := newTicketSequencer(cfg.Ticket.Sequencer, pg, redis)
	logger.Info("storage selected",
		zap.String("store", cfg.Store.Backend),
		zap.String("ticket_sequencer", cfg.Ticket.Sequencer))

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewProvisioningNotifier(dispatcher, generator, logger, cfg.Notification)
	worker.StartProvisioningWorker(notifier)

	packageService := service.NewPackageService(service.PackageDependencies{
		PackageRepo: packageRepo,
		Sequencer:   sequencer,
		Catalog:     feed,
		Generator:   generator,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Clock:       time.Now,
	})
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		PackageRepo: packageRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Clock:       time.Now,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, feed, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Catalog:     handlers.NewCatalogHandler(packageService),
		Packages:    handlers.NewPackagesHandler(packageService, lifecycleService),
		Operators:   auth.NewOperatorMiddleware(tokens),
		Idempotency: httptransport.IdempotencyMiddleware(redis.ClientHandle(), cfg.App.IdempotencyTTL(), logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	requests, errs := metrics.Snapshot()
	logger.Info("served", zap.Int("routes", len(requests)), zap.Int("error_kinds", len(errs)))
}

func newPackageRepository(backend string, pg *persistence.Postgres) repository.PackageRepository {
	if backend == config.BackendPostgres {
		return repository.NewPostgresPackageRepository(pg.PoolHandle())
	}
	return repository.NewMemoryPackageRepository()
}

func newTicketSequencer(backend string, pg *persistence.Postgres, redis *persistence.Redis) repository.TicketSequencer {
	switch backend {
	case config.BackendPostgres:
		return repository.NewPostgresTicketSequencer(pg.PoolHandle())
	case config.BackendRedis:
		return repository.NewRedisTicketSequencer(redis.ClientHandle())
	default:
		return repository.NewMemoryTicketSequencer()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
