package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/triage-service/internal/api/http"
	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/worker"
)

const serviceName = "triage-service"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard and JSON API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	cfg, logger := p.cfg, p.logger

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("tracing setup failed, continuing without traces", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	authService := service.NewAuthService(cfg.Auth, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, p.metrics, cfg.Server.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(serviceName, Version, p.postgres, p.redis),
		Auth:           handlers.NewAuthHandler(authService),
		Triage:         handlers.NewTriageHandler(p.triage),
		Tickets:        handlers.NewTicketsHandler(p.triage),
		Dashboard:      handlers.NewDashboardHandler(p.triage),
		Engineers:      handlers.NewEngineersHandler(p.triage),
		Runs:           handlers.NewRunsHandler(p.triage),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager()),
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: p.metrics.Handler()}
		go func() {
			logger.Info("metrics listener started", zap.String("addr", cfg.Metrics.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	syncWorker := worker.NewSyncWorker(p.triage, cfg.Sync.Interval(), logger)
	syncWorker.Start(ctx)

	go func() {
		logger.Info("http server started", zap.String("addr", cfg.Server.Addr()))
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()
	syncWorker.Wait()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}
	return app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
