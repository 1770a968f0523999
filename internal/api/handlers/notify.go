// Package handlers contains the HTTP handler implementations for the
// claimrelay API: synchronous goods-return notification dispatch and
// asynchronous enqueue.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"claimrelay/internal/core"
	"claimrelay/internal/types"
)

// Notifier runs the full notification pipeline synchronously.
type Notifier interface {
	Notify(ctx context.Context, payload map[string]any) (*types.NotificationResult, error)
}

// Enqueuer publishes a notification request for asynchronous processing and
// returns the trace id for correlation.
type Enqueuer interface {
	Publish(ctx context.Context, payload map[string]any, reason string) (string, error)
}

// EnqueueResponse is the body returned by the asynchronous endpoint.
type EnqueueResponse struct {
	TraceID string `json:"trace_id"`
	Status  string `json:"status"`
}

// NotificationHandler serves the goods-return complaint notification
// endpoints.
type NotificationHandler struct {
	notifier Notifier
	enqueuer Enqueuer
	logger   *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler. The enqueuer may be
// nil, in which case the asynchronous endpoint responds 404.
func NewNotificationHandler(notifier Notifier, enqueuer Enqueuer, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// RegisterRoutes mounts the notification endpoints onto the given router.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/goods-return", h.HandleNotify)
	if h.enqueuer != nil {
		r.Post("/notifications/goods-return/enqueue", h.HandleEnqueue)
	}
}

// HandleNotify runs the pipeline synchronously and returns the per-channel
// outcome report. Pipeline validation failures surface as structured errors;
// channel failures do not, they are reflected in the result flags.
func (h *NotificationHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := core.DecodeJSON(w, r, &payload); err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.notifier.Notify(r.Context(), payload)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleEnqueue accepts the payload without running the pipeline and queues
// it for the worker. Responds 202 with the trace id; payload validation
// happens in the worker so both paths accept the same requests.
func (h *NotificationHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := core.DecodeJSON(w, r, &payload); err != nil {
		core.Error(w, r, err)
		return
	}

	traceID, err := h.enqueuer.Publish(r.Context(), payload, "api_enqueue")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusAccepted, core.APIResponse{Data: EnqueueResponse{
		TraceID: traceID,
		Status:  "queued",
	}})
}
