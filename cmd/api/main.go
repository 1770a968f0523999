// Package main is the entrypoint for the claimrelay API server.
//
// Startup sequence:
//  1. Initialize the structured logger.
//  2. Load and validate configuration (env, dotenv, SSM).
//  3. Connect the pgx pool and construct repositories.
//  4. Construct provider gateways, metrics, and the notification pipeline.
//  5. Mount routes and serve until SIGINT/SIGTERM, then drain gracefully.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"claimrelay/internal/api/handlers"
	"claimrelay/internal/config"
	"claimrelay/internal/core"
	"claimrelay/internal/db"
	"claimrelay/internal/external"
	"claimrelay/internal/locale"
	"claimrelay/internal/metrics"
	"claimrelay/internal/notify"
	"claimrelay/internal/queue"
	"claimrelay/internal/types"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// slogAdapter wraps *slog.Logger to implement types.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

var _ types.Logger = (*slogAdapter)(nil)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	typedLogger := &slogAdapter{logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	entities := db.NewEntityRepository(pool)
	mailCfg := db.NewMailConfigRepository(pool)
	apiKeys := db.NewAPIKeyRepository(pool)
	audit, err := db.NewAuditRepository(pool)
	if err != nil {
		logger.Error("failed to initialize audit repository", "error", err)
		os.Exit(1)
	}

	resellerLocales, err := mailCfg.Locales(ctx)
	if err != nil {
		logger.Error("failed to load reseller locales", "error", err)
		os.Exit(1)
	}

	catalog, err := locale.NewCatalog(locale.CatalogConfig{
		ResellerLocales: resellerLocales,
		Logger:          typedLogger,
	})
	if err != nil {
		logger.Error("failed to build phrase catalog", "error", err)
		os.Exit(1)
	}

	var dispatcherMetrics types.DeliveryMetrics
	if cfg.Metrics.Enabled {
		dispatcherMetrics = metrics.NewCloudWatchDeliveryMetrics(
			cloudwatch.NewFromConfig(awsCfg), cfg.Metrics.Namespace, typedLogger)
	}

	emailGateway := external.NewEmailGateway(awsCfg, external.EmailGatewayConfig{
		ConfigurationSet: cfg.Email.ConfigurationSet,
		Logger:           typedLogger,
	})
	smsGateway := external.NewSMSGateway(awsCfg, external.SMSGatewayConfig{
		SenderID:         cfg.SMS.SenderID,
		BreakerThreshold: cfg.SMS.BreakerThreshold,
		BreakerCooldown:  cfg.SMS.BreakerCooldown,
		Phrases:          catalog,
		Logger:           typedLogger,
	})

	service := notify.NewService(notify.ServiceConfig{
		Resolver: notify.NewResolver(entities),
		Builder:  notify.NewTemplateBuilder(catalog, locale.NewStatusTable()),
		Dispatcher: notify.NewDispatcher(notify.DispatcherConfig{
			MailConfig: mailCfg,
			Phrases:    catalog,
			Email:      emailGateway,
			SMS:        smsGateway,
			Metrics:    dispatcherMetrics,
			Logger:     typedLogger,
		}),
		Audit:  audit,
		Logger: typedLogger,
	})

	publisher := queue.NewPublisher(
		sqs.NewFromConfig(awsCfg), cfg.AWS.NotificationQueue, nil, typedLogger)

	server, err := core.NewServer(cfg, apiKeys, logger)
	if err != nil {
		logger.Error("failed to construct server", "error", err)
		os.Exit(1)
	}

	notifyHandler := handlers.NewNotificationHandler(service, publisher, logger)
	server.V1RouteRegistrars = append(server.V1RouteRegistrars, func(r chi.Router) {
		notifyHandler.RegisterRoutes(r)
	})
	server.MountRoutes()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("api server listening",
			"port", cfg.Server.Port,
			"environment", cfg.Environment,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received, draining requests")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server terminated with error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
