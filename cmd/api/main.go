package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdesk-platform/intake-service/internal/api/http"
	"github.com/helpdesk-platform/intake-service/internal/api/http/handlers"
	"github.com/helpdesk-platform/intake-service/internal/classify"
	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/events"
	"github.com/helpdesk-platform/intake-service/internal/observability"
	"github.com/helpdesk-platform/intake-service/internal/persistence"
	"github.com/helpdesk-platform/intake-service/internal/repository"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
	"github.com/helpdesk-platform/intake-service/internal/seed"
	"github.com/helpdesk-platform/intake-service/internal/service"
	"github.com/helpdesk-platform/intake-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var (
		userRepo    repository.UserRepository
		ticketRepo  repository.TicketRepository
		messageRepo repository.TicketMessageRepository
		triageRepo  repository.TriageRepository
		kbRepo      repository.KBRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
		messageRepo = repository.NewTicketMessageRepository(pool)
		triageRepo = repository.NewTriageRepository(pool)
		kbRepo = repository.NewKBRepository(pool)
	} else {
		userRepo = memory.NewUserRepository()
		ticketRepo = memory.NewTicketRepository()
		messageRepo = memory.NewTicketMessageRepository()
		triageRepo = memory.NewTriageRepository()
		kbRepo = memory.NewKBRepository()
	}

	if err := seed.Run(ctx, cfg.Seed, userRepo, kbRepo, logger); err != nil {
		logger.Fatal("failed to seed baseline data", zap.Error(err))
	}

	var classifier classify.Classifier
	if cfg.Triage.ClassifierURL != "" {
		classifier = classify.NewHTTPClassifier(cfg.Triage.ClassifierURL)
	} else {
		logger.Warn("CLASSIFIER_URL not set; using keyword classifier")
		classifier = classify.NewKeywordClassifier()
	}

	identityService := service.NewIdentityService(userRepo, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		TriageRepo:  triageRepo,
		Dispatcher:  dispatcher,
	}, logger)
	triageService := service.NewTriageService(classifier, cfg.Triage, metrics, logger)
	kbService := service.NewKBService(kbRepo)
	intakeService := service.NewIntakeService(identityService, ticketService, triageService, kbService, redis, cfg.Intake, metrics, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Intake:  handlers.NewIntakeHandler(intakeService),
		Tickets: handlers.NewTicketsHandler(ticketService),
		KB:      handlers.NewKBHandler(kbService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
