package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/nexus-suite/helpdesk/internal/api/http"
	"github.com/nexus-suite/helpdesk/internal/api/http/handlers"
	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/completion"
	"github.com/nexus-suite/helpdesk/internal/config"
	"github.com/nexus-suite/helpdesk/internal/events"
	"github.com/nexus-suite/helpdesk/internal/observability"
	"github.com/nexus-suite/helpdesk/internal/persistence"
	"github.com/nexus-suite/helpdesk/internal/repository"
	"github.com/nexus-suite/helpdesk/internal/service"
	"github.com/nexus-suite/helpdesk/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.Open(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("persistence: %w", err)
	}
	defer backend.Close()

	if cfg.Completion.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; chat replies will fall back to the service error text")
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	directory, err := auth.NewDirectory(cfg.Auth.BcryptCost, auth.DemoAccounts...)
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(backend),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Directory:   directory,
		SessionRepo: repository.NewSessionRepository(backend),
	})

	poller := worker.NewTicketPoller(ticketService, cfg.Admin.PollInterval(), logger)
	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	profiles := service.NewProfileService(service.ProfileDependencies{
		Auth:      authService,
		Completer: completion.NewGemini(cfg.Completion),
		Snapshot:  poller,
		Observer:  metrics,
		Logger:    logger,
		CacheSize: cfg.Profiles.CacheSize,
		IdleTTL:   cfg.Profiles.IdleTTL(),
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Backend, backend),
		Metrics:           handlers.NewMetricsHandler(metrics),
		View:              handlers.NewViewHandler(profiles),
		Auth:              handlers.NewAuthHandler(profiles),
		Tickets:           handlers.NewTicketsHandler(ticketService, poller),
		Chat:              handlers.NewChatHandler(profiles, ticketService),
		ProfileMiddleware: auth.NewProfileMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret), profiles, cfg.Auth.CookieName),
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Backend))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case sig := <-waitForShutdown():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	return app.Shutdown()
}

func waitForShutdown() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
