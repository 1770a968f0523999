package notify

import (
	"context"
	"time"

	"claimrelay/internal/types"
)

// Channel names used for logging and metrics dimensions.
const (
	ChannelEmployeeEmail = "employee_email"
	ChannelClientEmail   = "client_email"
	ChannelClientSMS     = "client_sms"
)

// Dispatcher performs the per-channel notification sends and records the
// outcome of each into the result. It never returns an error: failures in
// individual channels are absorbed into logs, metrics, and the result
// record so that one channel's failure cannot block the others.
type Dispatcher struct {
	mailCfg types.MailConfigSource
	phrases types.PhraseRenderer
	email   types.EmailSender
	sms     types.SMSSender
	metrics types.DeliveryMetrics
	clock   types.Clock
	logger  types.Logger
}

// DispatcherConfig holds the collaborators needed to create a Dispatcher.
type DispatcherConfig struct {
	MailConfig types.MailConfigSource
	Phrases    types.PhraseRenderer
	Email      types.EmailSender
	SMS        types.SMSSender
	Metrics    types.DeliveryMetrics
	Clock      types.Clock
	Logger     types.Logger
}

// NewDispatcher creates a Dispatcher with the given collaborators.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Dispatcher{
		mailCfg: cfg.MailConfig,
		phrases: cfg.Phrases,
		email:   cfg.Email,
		sms:     cfg.SMS,
		metrics: cfg.Metrics,
		clock:   clock,
		logger:  cfg.Logger,
	}
}

// Dispatch sends the employee email first. The client email and SMS follow
// only for CHANGE events that carry a target status in the normalized event.
// SMS. The guard reads the normalized event, never the raw payload. The
// result is mutated in place as channels succeed.
func (d *Dispatcher) Dispatch(ctx context.Context, event *types.ComplaintEvent, client *types.Entity, data types.TemplateData, result *types.NotificationResult) {
	from := d.fromAddress(ctx, event.ResellerID)

	d.dispatchEmployeeEmail(ctx, event, from, data, result)

	if event.Type != types.NotificationChange || !hasTargetStatus(event) {
		return
	}

	d.dispatchClientEmail(ctx, event, client, from, data, result)
	d.dispatchClientSMS(ctx, event, client, data, result)
}

// dispatchEmployeeEmail sends one message per permitted recipient. The
// channel is skipped entirely when the from address or the recipient list
// is empty; the flag records that a send was attempted, with transport
// errors absorbed per the channel-isolation policy.
func (d *Dispatcher) dispatchEmployeeEmail(ctx context.Context, event *types.ComplaintEvent, from string, data types.TemplateData, result *types.NotificationResult) {
	recipients, err := d.mailCfg.PermittedRecipients(ctx, event.ResellerID, types.EventGoodsReturn)
	if err != nil {
		d.logger.Error("permitted recipient lookup failed",
			"reseller_id", event.ResellerID,
			"error", err.Error(),
		)
		return
	}
	if from == "" || len(recipients) == 0 {
		d.logger.Info("employee email skipped: no from address or no recipients",
			"reseller_id", event.ResellerID,
		)
		return
	}

	subject, body, ok := d.renderMessage(ctx, event.ResellerID, data)
	if !ok {
		return
	}

	batch := make([]types.EmailMessage, 0, len(recipients))
	for _, to := range recipients {
		batch = append(batch, types.EmailMessage{
			From:    from,
			To:      to,
			Subject: subject,
			Body:    body,
		})
	}

	start := d.clock.Now()
	err = d.email.Send(ctx, batch, event.ResellerID, 0, types.EventGoodsReturn)
	d.observe(ctx, ChannelEmployeeEmail, err == nil, start)
	if err != nil {
		d.logger.Error("employee email send failed",
			"reseller_id", event.ResellerID,
			"recipients", len(batch),
			"error", err.Error(),
		)
	}

	result.EmployeeEmail = true
}

// dispatchClientEmail sends a single message to the client when both the
// from address and the client's email are present.
func (d *Dispatcher) dispatchClientEmail(ctx context.Context, event *types.ComplaintEvent, client *types.Entity, from string, data types.TemplateData, result *types.NotificationResult) {
	if from == "" || client.Email == "" {
		return
	}

	subject, body, ok := d.renderMessage(ctx, event.ResellerID, data)
	if !ok {
		return
	}

	batch := []types.EmailMessage{{
		From:    from,
		To:      client.Email,
		Subject: subject,
		Body:    body,
	}}

	start := d.clock.Now()
	err := d.email.Send(ctx, batch, event.ResellerID, client.ID, types.EventGoodsReturn)
	d.observe(ctx, ChannelClientEmail, err == nil, start)
	if err != nil {
		d.logger.Error("client email send failed",
			"reseller_id", event.ResellerID,
			"client_id", client.ID,
			"error", err.Error(),
		)
	}

	result.ClientEmail = true
}

// dispatchClientSMS invokes the SMS gateway when the client has a mobile
// number. The provider's error message is copied into the result
// independently of the sent flag.
func (d *Dispatcher) dispatchClientSMS(ctx context.Context, event *types.ComplaintEvent, client *types.Entity, data types.TemplateData, result *types.NotificationResult) {
	if client.Mobile == "" {
		return
	}

	start := d.clock.Now()
	sent, errMsg := d.sms.Send(ctx, client.Mobile, event.ResellerID, client.ID, types.EventGoodsReturn, data)
	d.observe(ctx, ChannelClientSMS, sent, start)

	result.ClientSMS.Sent = sent
	if errMsg != "" {
		result.ClientSMS.Message = errMsg
		d.logger.Warn("client sms reported error",
			"reseller_id", event.ResellerID,
			"client_id", client.ID,
			"provider_error", errMsg,
		)
	}
}

// fromAddress resolves the reseller's outbound address, absorbing lookup
// failures into an empty value (which skips the email channels).
func (d *Dispatcher) fromAddress(ctx context.Context, resellerID int64) string {
	from, err := d.mailCfg.FromAddress(ctx, resellerID)
	if err != nil {
		d.logger.Error("from address lookup failed",
			"reseller_id", resellerID,
			"error", err.Error(),
		)
		return ""
	}
	return from
}

// renderMessage renders the shared subject/body pair for email sends.
func (d *Dispatcher) renderMessage(ctx context.Context, resellerID int64, data types.TemplateData) (subject, body string, ok bool) {
	params := data.Params()

	subject, err := d.phrases.Render(ctx, PhraseEmailSubject, params, resellerID)
	if err != nil {
		d.logger.Error("subject rendering failed", "error", err.Error())
		return "", "", false
	}

	body, err = d.phrases.Render(ctx, PhraseEmailBody, params, resellerID)
	if err != nil {
		d.logger.Error("body rendering failed", "error", err.Error())
		return "", "", false
	}

	return subject, body, true
}

func (d *Dispatcher) observe(ctx context.Context, channel string, success bool, start time.Time) {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordDispatch(ctx, channel, success)
	d.metrics.RecordLatency(ctx, channel, d.clock.Now().Sub(start))
}
