package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		accountRepo  repository.AccountRepository
		ticketRepo   repository.TicketRepository
		snapshotRepo repository.SessionSnapshotRepository
	)
	if pg.Enabled() {
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
		ticketRepo = repository.NewTicketRepository(pg.PoolHandle())
	} else {
		accountRepo = repository.NewMemoryAccountRepository()
		ticketRepo = repository.NewMemoryTicketRepository()
	}
	if redis.Enabled() {
		snapshotRepo = repository.NewRedisSessionRepository(redis.Client)
	} else {
		snapshotRepo = repository.NewMemorySessionRepository()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification)
	var publisher *events.AMQPPublisher
	if cfg.Notification.AMQPURL != "" {
		publisher = events.NewAMQPPublisher(cfg.Notification.AMQPURL, cfg.Notification.AMQPQueue)
	}
	worker.StartNotificationWorker(dispatcher, notificationService, publisher, logger)

	if cfg.Helpdesk.SeedDemoData {
		seeder := service.NewSeeder(accountRepo, ticketRepo, logger, cfg.Helpdesk.DefaultPassword, cfg.Auth.BcryptCost)
		if err := seeder.Seed(ctx); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	sessions := service.NewSessionManager(service.SessionDependencies{
		Identity:     service.NewIdentityStore(accountRepo),
		SnapshotRepo: snapshotRepo,
		SnapshotKey:  cfg.Helpdesk.SessionKey,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	sessions.Restore(ctx)

	directory := service.NewUserDirectory(service.DirectoryDependencies{
		AccountRepo:     accountRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
		DefaultPassword: cfg.Helpdesk.DefaultPassword,
		BcryptCost:      cfg.Auth.BcryptCost,
		SubmitDelay:     cfg.Helpdesk.SubmitDelay(),
	})
	ticketStore := service.NewTicketStore(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		SubmitDelay: cfg.Helpdesk.SubmitDelay(),
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	validate := dto.NewValidator()

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(sessions, tokens, validate),
		Tickets:        handlers.NewTicketsHandler(ticketStore, validate),
		Users:          handlers.NewUsersHandler(directory, validate),
		Meta:           handlers.NewMetaHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessions),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
