// Package main is the entrypoint for the notification worker Lambda.
//
// The worker consumes envelopes from the notification SQS queue and runs
// each payload through the full dispatch pipeline. It uses partial batch
// responses: messages that fail on infrastructure errors are reported in
// batchItemFailures so SQS retries them, while validation failures are
// acknowledged (retrying cannot fix a bad payload).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"claimrelay/internal/config"
	"claimrelay/internal/db"
	"claimrelay/internal/external"
	"claimrelay/internal/locale"
	"claimrelay/internal/metrics"
	"claimrelay/internal/notify"
	"claimrelay/internal/queue"
	"claimrelay/internal/types"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// slogAdapter wraps *slog.Logger to implement types.Logger. slog satisfies
// Info, Error, and Warn directly but With returns *slog.Logger, so an
// adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// Compile-time assertion that slogAdapter implements types.Logger.
var _ types.Logger = (*slogAdapter)(nil)

// Handler holds the dependencies for the worker Lambda handler.
type Handler struct {
	service *notify.Service
	metrics *metrics.CloudWatchDeliveryMetrics
	logger  types.Logger
}

// Handle processes an SQS event containing one or more envelopes. Each
// message is processed independently.
func (h *Handler) Handle(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{}

	for _, record := range sqsEvent.Records {
		if err := h.processMessage(ctx, record); err != nil {
			h.logger.Error("failed to process SQS message",
				"message_id", record.MessageId,
				"error", err.Error(),
			)
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId},
			)
		}
	}

	return response, nil
}

// processMessage handles a single SQS message. A non-nil return means the
// message should be retried.
func (h *Handler) processMessage(ctx context.Context, record events.SQSMessage) error {
	var env queue.Envelope
	if err := json.Unmarshal([]byte(record.Body), &env); err != nil {
		h.logger.Error("failed to unmarshal queue envelope",
			"message_id", record.MessageId,
			"error", err.Error(),
		)
		// Permanent parse failure, do not retry.
		return nil
	}

	logger := h.logger.With("trace_id", env.TraceID)
	logger.Info("processing notification envelope")

	if h.metrics != nil && !env.EnqueuedAt.IsZero() {
		h.metrics.RecordQueueLag(ctx, time.Since(env.EnqueuedAt))
	}

	result, err := h.service.Notify(ctx, env.Payload)
	if err != nil {
		if isRetryable(err) {
			return fmt.Errorf("notify: %w", err)
		}
		// Validation and resolution failures are permanent for this payload.
		logger.Warn("envelope rejected by pipeline", "error", err.Error())
		return nil
	}

	logger.Info("envelope dispatched",
		"employee_email", result.EmployeeEmail,
		"client_email", result.ClientEmail,
		"client_sms", result.ClientSMS.Sent,
	)
	return nil
}

// isRetryable reports whether the error is an infrastructure failure worth
// retrying. Validation, not-found, and template errors are deterministic
// for a given payload.
func isRetryable(err error) bool {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		return true
	}
	code := string(appErr.Code)
	return strings.HasPrefix(code, "internal_") || strings.HasPrefix(code, "upstream_")
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	typedLogger := &slogAdapter{logger: logger}

	logger.Info("notify worker initializing (cold start)")

	ctx := context.Background()

	cfg, err := config.Load(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	entities := db.NewEntityRepository(pool)
	mailCfg := db.NewMailConfigRepository(pool)
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

	// Both variables stay nil when metrics are disabled. The separate
	// interface variable avoids handing the dispatcher a typed nil.
	var (
		deliveryMetrics   *metrics.CloudWatchDeliveryMetrics
		dispatcherMetrics types.DeliveryMetrics
	)
	if cfg.Metrics.Enabled {
		deliveryMetrics = metrics.NewCloudWatchDeliveryMetrics(
			cloudwatch.NewFromConfig(awsCfg), cfg.Metrics.Namespace, typedLogger)
		dispatcherMetrics = deliveryMetrics
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

	handler := &Handler{
		service: service,
		metrics: deliveryMetrics,
		logger:  typedLogger,
	}

	logger.Info("notify worker initialized",
		"queue_url", cfg.AWS.NotificationQueue,
		"metric_namespace", cfg.Metrics.Namespace,
	)

	// Local mode: read a JSON SQS event from stdin instead of starting the
	// Lambda runtime. Enables local testing without the Lambda RIE.
	if cfg.Environment == "local" {
		logger.Info("APP_ENV=local: reading SQS event from stdin")
		payload, err := io.ReadAll(os.Stdin)
		if err != nil || len(payload) == 0 {
			logger.Error("failed to read SQS event from stdin", "error", err)
			os.Exit(1)
		}
		var sqsEvent events.SQSEvent
		if err := json.Unmarshal(payload, &sqsEvent); err != nil {
			logger.Error("failed to parse stdin as SQS event", "error", err)
			os.Exit(1)
		}
		response, err := handler.Handle(ctx, sqsEvent)
		if err != nil {
			logger.Error("handler execution failed", "error", err)
			os.Exit(1)
		}
		logger.Info("handler execution completed",
			"records_processed", len(sqsEvent.Records),
			"failures", len(response.BatchItemFailures),
		)
		return
	}

	lambda.Start(handler.Handle)
}
