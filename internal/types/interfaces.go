package types

import (
	"context"
	"time"
)

// Logger defines the structured logging interface used throughout the
// service. Backed by log/slog in production via a thin adapter.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// EntityStore resolves business entities by role and id. Lookup returns
// (nil, nil) when the entity does not exist; errors are reserved for
// infrastructure failures.
type EntityStore interface {
	Lookup(ctx context.Context, kind EntityKind, id int64) (*Entity, error)
}

// PhraseRenderer renders a localized phrase identified by key with the
// given parameters, using the locale configured for the reseller.
// Localization internals are opaque to the pipeline.
type PhraseRenderer interface {
	Render(ctx context.Context, key string, params map[string]string, resellerID int64) (string, error)
}

// StatusNamer resolves a complaint status code to its human-readable name.
// Unknown codes resolve to a literal "Unknown" placeholder, never an error.
type StatusNamer interface {
	StatusName(code int64) string
}

// MailConfigSource supplies the reseller's outbound email configuration:
// the "from" address and the employee recipient list permitted for a given
// event key.
type MailConfigSource interface {
	FromAddress(ctx context.Context, resellerID int64) (string, error)
	PermittedRecipients(ctx context.Context, resellerID int64, eventKey string) ([]string, error)
}

// EmailSender delivers a batch of rendered messages. Fire-and-forget from
// the pipeline's perspective: the gateway owns retries and provider errors.
// clientID is zero for employee-facing sends.
type EmailSender interface {
	Send(ctx context.Context, batch []EmailMessage, resellerID, clientID int64, eventKey string) error
}

// SMSSender dispatches one SMS built from the template data. It reports
// provider acceptance and an error message; the two are independent, and a
// failed send is a reportable outcome rather than an error.
type SMSSender interface {
	Send(ctx context.Context, to string, resellerID, clientID int64, eventKey string, data TemplateData) (sent bool, errMsg string)
}

// DeliveryMetrics records per-channel dispatch telemetry.
type DeliveryMetrics interface {
	RecordDispatch(ctx context.Context, channel string, success bool)
	RecordLatency(ctx context.Context, channel string, d time.Duration)
}
