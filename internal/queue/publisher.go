// Package queue provides the SQS producer used for asynchronous complaint
// notification dispatch, and the envelope format shared with the worker.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"claimrelay/internal/types"
)

// Envelope wraps a raw complaint event payload for queue transit. The
// payload itself stays untyped: validation happens in the worker so that
// enqueue never rejects a message the synchronous path would accept.
type Envelope struct {
	TraceID    string         `json:"trace_id"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
	Payload    map[string]any `json:"payload"`
}

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher enqueues complaint notification requests for the worker.
type Publisher struct {
	client   SQSSender
	queueURL string
	clock    types.Clock
	logger   types.Logger
}

// NewPublisher creates a Publisher targeting the given queue URL.
func NewPublisher(client SQSSender, queueURL string, clock types.Clock, logger types.Logger) *Publisher {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Publisher{
		client:   client,
		queueURL: queueURL,
		clock:    clock,
		logger:   logger,
	}
}

// Publish wraps the payload in an Envelope and sends it to the queue.
// Returns the generated trace id for response correlation.
func (p *Publisher) Publish(ctx context.Context, payload map[string]any, reason string) (string, error) {
	env := Envelope{
		TraceID:    uuid.New().String(),
		EnqueuedAt: p.clock.Now(),
		Payload:    payload,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalQueue,
			fmt.Sprintf("failed to marshal queue envelope: %v", err), err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"reason": {
				DataType:    aws.String("String"),
				StringValue: aws.String(reason),
			},
			"event": {
				DataType:    aws.String("String"),
				StringValue: aws.String(types.EventGoodsReturn),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return "", types.NewAppError(types.ErrCodeInternalQueue,
			fmt.Sprintf("failed to send message to %s: %v", p.queueURL, err), err)
	}

	p.logger.Info("notification message enqueued",
		"queue_url", p.queueURL,
		"trace_id", env.TraceID,
		"reason", reason,
	)

	return env.TraceID, nil
}
