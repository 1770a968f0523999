package notify

import (
	"context"
	"encoding/json"

	"claimrelay/internal/types"
)

// AuditRecorder persists a record of a completed dispatch for later
// inspection. A narrow interface so the service is testable without the
// database-backed implementation.
type AuditRecorder interface {
	Record(ctx context.Context, event *types.ComplaintEvent, rawPayload []byte, result *types.NotificationResult) error
}

// Service is the entry point for the goods-return complaint notification
// operation. Each invocation is independent: the result record is local to
// the call and no state is shared between invocations.
type Service struct {
	resolver *Resolver
	builder  *TemplateBuilder
	dispatch *Dispatcher
	audit    AuditRecorder
	logger   types.Logger
}

// ServiceConfig holds the pipeline stages and optional collaborators.
type ServiceConfig struct {
	Resolver   *Resolver
	Builder    *TemplateBuilder
	Dispatcher *Dispatcher
	Audit      AuditRecorder // optional
	Logger     types.Logger
}

// NewService creates the notification Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		resolver: cfg.Resolver,
		builder:  cfg.Builder,
		dispatch: cfg.Dispatcher,
		audit:    cfg.Audit,
		logger:   cfg.Logger,
	}
}

// Notify runs the full pipeline over an untyped request payload:
//
//	validate -> resolve -> build template -> validate template -> dispatch
//
// All validation failures abort before any notification is sent. Once
// dispatch begins, partial completion is an accepted, reportable outcome:
// the returned result carries the per-channel flags and is never rolled
// back.
func (s *Service) Notify(ctx context.Context, payload map[string]any) (*types.NotificationResult, error) {
	event, err := ParseEvent(payload)
	if err != nil {
		return nil, err
	}

	parties, err := s.resolver.Resolve(ctx, event)
	if err != nil {
		return nil, err
	}

	data, err := s.builder.Build(ctx, event, parties)
	if err != nil {
		return nil, err
	}

	if err := ValidateTemplate(data); err != nil {
		return nil, err
	}

	result := &types.NotificationResult{}
	s.dispatch.Dispatch(ctx, event, parties.Client, data, result)

	s.logger.Info("complaint notification dispatched",
		"reseller_id", event.ResellerID,
		"complaint_id", event.ComplaintID,
		"notification_type", int(event.Type),
		"employee_email", result.EmployeeEmail,
		"client_email", result.ClientEmail,
		"client_sms", result.ClientSMS.Sent,
	)

	s.recordAudit(ctx, event, payload, result)

	return result, nil
}

// recordAudit persists the dispatch record. Audit failures are logged and
// absorbed: the notification already happened and the result stands.
func (s *Service) recordAudit(ctx context.Context, event *types.ComplaintEvent, payload map[string]any, result *types.NotificationResult) {
	if s.audit == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("audit payload marshal failed", "error", err.Error())
		return
	}

	if err := s.audit.Record(ctx, event, raw, result); err != nil {
		s.logger.Warn("audit record failed",
			"complaint_id", event.ComplaintID,
			"error", err.Error(),
		)
	}
}
