package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/gymflow/portal/internal/api/http"
	"github.com/gymflow/portal/internal/api/http/handlers"
	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/auth"
	"github.com/gymflow/portal/internal/config"
	"github.com/gymflow/portal/internal/events"
	"github.com/gymflow/portal/internal/observability"
	"github.com/gymflow/portal/internal/persistence"
	"github.com/gymflow/portal/internal/service"
	"github.com/gymflow/portal/internal/session"
	"github.com/gymflow/portal/internal/worker"
)

type storages interface {
	For(browserID string) session.Storage
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return fmt.Errorf("invalid --addr: %w", err)
				}
				if host != "" {
					cfg.App.Host = host
				}
				cfg.App.Port = port
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides APP_HOST/APP_PORT)")
	return cmd
}

func serve(cfg *config.Config) error {
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.App.MetricsEnabled {
		metrics = observability.NewMetrics("gymflow_portal")
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewSessionAuditService(dispatcher, logger.Named("audit"), metrics).RegisterHandlers()

	api, err := apiclient.New(&http.Client{Timeout: cfg.API.Timeout()}, cfg.API.BaseURL, logger.Named("api"))
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	dependencies := map[string]handlers.Pinger{"api": api}
	var (
		backing storages
		memory  *session.MemoryStorages
	)
	switch cfg.Session.Storage {
	case config.StorageMemory:
		logger.Warn("session storage is in-memory; sessions do not survive restarts")
		memory = session.NewMemoryStorages()
		backing = memory
	default:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("init session storage: %w", err)
		}
		defer redis.Close()
		dependencies["redis"] = redis
		backing = redis.SessionStorages(cfg.Session, auth.TokenExpiry)
	}

	registry := session.NewRegistry(ctx, func(browserID string) *session.Store {
		return session.NewStore(session.Dependencies{
			Subject:    persistence.BrowserKey(browserID),
			Auth:       api,
			Storage:    backing.For(browserID),
			Dispatcher: dispatcher,
			Logger:     logger.Named("session"),
		})
	}, logger.Named("registry"))
	if memory != nil {
		registry.OnSweep(memory.Release)
	}
	worker.StartSessionSweeper(ctx, registry, cfg.Session.SweepInterval(), cfg.Session.IdleTimeout(), metrics, logger.Named("sweeper"))

	routes := auth.Routes{
		Login:        cfg.Routes.Login,
		AdminLanding: cfg.Routes.AdminLanding,
		UserLanding:  cfg.Routes.UserLanding,
	}
	dashboard := service.NewDashboardService(nil)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, routes, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Routes:   routes,
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:     handlers.NewAuthHandler(api, routes),
		Admin:    handlers.NewAdminHandler(api, dashboard),
		Members:  handlers.NewMembersHandler(api, dashboard),
		Invites:  handlers.NewInvitesHandler(api),
		Member:   handlers.NewMemberHandler(api, dashboard),
		Sessions: auth.NewSessionMiddleware(registry, cfg.Session),
		Metrics:  metrics,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portal listening", zap.String("addr", cfg.App.Addr()), zap.String("api", cfg.API.BaseURL))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case sig := <-waitForShutdown():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	cancel()
	return app.Shutdown()
}

func waitForShutdown() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
