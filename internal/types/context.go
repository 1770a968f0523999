package types

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	apiKeyIDKey  contextKey = "api_key_id"
)

// WithRequestID stores the request correlation ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID retrieves the request correlation ID from the context.
// Returns "" when none has been set.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithAPIKeyID stores the authenticated API key id in the context.
func WithAPIKeyID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, apiKeyIDKey, id)
}

// GetAPIKeyID retrieves the authenticated API key id from the context.
// Returns 0 when the request was not authenticated.
func GetAPIKeyID(ctx context.Context) int64 {
	id, _ := ctx.Value(apiKeyIDKey).(int64)
	return id
}
