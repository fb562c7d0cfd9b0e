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

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/realtime"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/sla"
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
	customerRepo := repository.NewCustomerRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	timelineRepo := repository.NewTimelineRepository(pool)
	versionRepo := repository.NewVersionRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	widgetRepo := repository.NewWidgetRepository(pool)

	slaPolicy := sla.Policy{
		HighHours:    cfg.SLA.HighHours,
		MediumHours:  cfg.SLA.MediumHours,
		DefaultHours: cfg.SLA.DefaultHours,
	}
	if cfg.SLA.UrgentHours > 0 {
		slaPolicy.Overrides = map[domain.TicketPriority]int{
			domain.TicketPriorityUrgent: cfg.SLA.UrgentHours,
		}
	}
	metricsRepo := repository.NewMetricsRepository(pool, slaPolicy)

	dispatcher := events.NewInMemoryDispatcher()
	hub := realtime.NewHub(logger)
	realtime.Bridge(dispatcher, hub)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		TimelineRepo: timelineRepo,
		VersionRepo:  versionRepo,
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
		Dispatcher:   dispatcher,
		SLAPolicy:    slaPolicy,
	})
	versionService := service.NewVersionService(versionRepo, ticketRepo, timelineRepo, dispatcher)
	authService := service.NewAuthService(*cfg, agentRepo)
	dashboardService := service.NewDashboardService(
		ticketRepo,
		customerRepo,
		metricsRepo,
		widgetRepo,
		redis.Client,
		time.Duration(cfg.Scheduler.MetricsCacheTTLSec)*time.Second,
		logger,
	)
	alertService := service.NewAlertService(alertRepo, metricsRepo, dispatcher, logger)
	reportService := service.NewReportService(reportRepo, ticketRepo, customerRepo, dispatcher, slaPolicy, cfg.Export.MaxRows, logger)
	breachService := service.NewBreachService(ticketRepo, timelineRepo, dispatcher, slaPolicy, logger)
	directoryService := service.NewDirectoryService(customerRepo, agentRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, hub, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, slaPolicy),
		Versions:       handlers.NewVersionsHandler(versionService),
		Analytics:      handlers.NewAnalyticsHandler(dashboardService),
		Alerts:         handlers.NewAlertsHandler(alertService),
		Reports:        handlers.NewReportsHandler(reportService),
		Widgets:        handlers.NewWidgetsHandler(dashboardService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		AuthMiddleware: authMiddleware,
	})

	scheduler := worker.NewScheduler(cfg.Scheduler, reportService, alertService, breachService, logger)
	scheduler.Start()
	defer scheduler.Stop()

	wsServer := realtime.NewServer(hub, authService.TokenManager(), logger)
	go func() {
		if err := wsServer.Start(cfg.App.WSAddr()); err != nil {
			logger.Fatal("websocket listen", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = wsServer.Shutdown(shutdownCtx)
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
