package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/johnrue/summit-advisory-vercel-sub002/internal/api/http"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/http/handlers"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/auth"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/config"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/events"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/observability"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/persistence"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/service"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/worker"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/workflow"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	shiftRepo := repository.NewShiftRepository(pool)
	transitionRepo := repository.NewTransitionRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	guardRepo := repository.NewGuardRepository(pool)
	operationRepo := repository.NewBulkOperationRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	validator := workflow.NewValidator(workflow.DefaultColumns())

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	alertService := service.NewAlertService(alertRepo, logger)
	transitionService := service.NewTransitionService(service.TransitionDependencies{
		ShiftRepo:      shiftRepo,
		TransitionRepo: transitionRepo,
		AlertResolver:  alertService,
		Validator:      validator,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	bulkService := service.NewBulkService(service.BulkDependencies{
		Runner:        transitionService,
		ShiftRepo:     shiftRepo,
		GuardRepo:     guardRepo,
		OperationRepo: operationRepo,
		Notifier:      notificationService,
		Cloner:        shiftRepo,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	boardService := service.NewBoardService(shiftRepo, alertRepo, workflow.DefaultColumns(), redis.Client, cfg.Workflow.BoardSnapshotTTL(), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Shifts:         handlers.NewShiftsHandler(transitionService, boardService),
		Bulk:           handlers.NewBulkHandler(bulkService),
		Board:          handlers.NewBoardHandler(boardService),
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
