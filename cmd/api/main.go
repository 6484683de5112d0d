package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kamalhaddad27/servicedesk-fik/internal/api/http"
	"github.com/kamalhaddad27/servicedesk-fik/internal/api/http/handlers"
	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/config"
	"github.com/kamalhaddad27/servicedesk-fik/internal/events"
	"github.com/kamalhaddad27/servicedesk-fik/internal/observability"
	"github.com/kamalhaddad27/servicedesk-fik/internal/persistence"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	"github.com/kamalhaddad27/servicedesk-fik/internal/worker"
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

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	pool := pg.PoolHandle()
	actorRepo := repository.NewActorRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	disposisiRepo := repository.NewDisposisiRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, actorRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
		PageSize:     cfg.Desk.PageSize,
	})
	disposisiService := service.NewDisposisiService(service.DisposisiDependencies{
		TicketRepo:    ticketRepo,
		DisposisiRepo: disposisiRepo,
		ActorRepo:     actorRepo,
		Dispatcher:    dispatcher,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	reportService := service.NewReportService(reportRepo, redisStore, cfg.Desk.ReportCacheTTL(), logger)
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), actorRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(func() error {
			if pg.PoolHandle() == nil {
				return nil
			}
			return pg.PoolHandle().Ping(context.Background())
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, disposisiService),
		Admin:          handlers.NewAdminHandler(categoryService, authService),
		Reports:        handlers.NewReportsHandler(reportService),
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
