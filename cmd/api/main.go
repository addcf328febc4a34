package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/assignment"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/kb"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/routing"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	knowledgeService := service.NewKnowledgeService(knowledgeRepo, kb.NewEngine(), cfg.KB.SeedFile, logger)
	if err := knowledgeService.SeedIfEmpty(ctx); err != nil {
		logger.Fatal("failed to seed knowledge base", zap.Error(err))
	}
	if _, err := knowledgeService.Rebuild(ctx); err != nil {
		logger.Warn("initial knowledge index build failed", zap.Error(err))
	}

	history := routing.NewCachedHistory(
		routing.NewHistory(ticketRepo),
		redis.Client,
		cfg.Intake.PriorCacheTTL(),
		logger,
	)
	router := routing.NewRouter(history, logger)
	selector := assignment.NewSelector(cfg.Roster.Teams)

	notifier := notify.NewNotifier(cfg.Notification, cfg.Roster.Contacts, logger)
	notificationService := service.NewNotificationService(dispatcher, notifier, metrics, logger)
	notificationService.RegisterHandlers()

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		TicketRepo: ticketRepo,
		Router:     router,
		Selector:   selector,
		Knowledge:  knowledgeService,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		AutoAssign: cfg.Intake.AutoAssign,
		SuggestK:   cfg.Intake.SuggestTopK,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher, logger)
	chatService := service.NewChatService(intakeService)
	authService := service.NewAuthService(cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	reindexWorker := worker.NewReindexWorker(knowledgeService, cfg.KB.ReindexCron, logger)
	if err := reindexWorker.Start(); err != nil {
		logger.Fatal("failed to start reindex worker", zap.Error(err))
	}
	defer reindexWorker.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(intakeService, ticketService),
		KB:             handlers.NewKBHandler(knowledgeService),
		Chat:           handlers.NewChatHandler(chatService),
		Staff:          handlers.NewStaffHandler(authService),
		AuthMiddleware: authMiddleware,
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
