// Package metrics emits delivery telemetry to AWS CloudWatch. Metric
// emission is best effort: failures are logged and never propagate into the
// dispatch path.
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"claimrelay/internal/types"
)

// Metric and dimension names.
const (
	metricDispatchAttempt = "DispatchAttempt"
	metricDispatchLatency = "DispatchLatency"
	metricQueueLag        = "NotificationQueueLag"

	dimChannel = "Channel"
	dimResult  = "Result"
)

// CloudWatchAPI abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchDeliveryMetrics implements types.DeliveryMetrics by emitting
// per-channel dispatch metrics to CloudWatch.
//
// Metrics emitted:
//   - DispatchAttempt: Dims {Channel, Result} -- on every dispatch outcome
//   - DispatchLatency: Dims {Channel} -- time taken for the dispatch attempt
//   - NotificationQueueLag: No dims -- enqueue-to-processing delay
type CloudWatchDeliveryMetrics struct {
	client    CloudWatchAPI
	namespace string
	logger    types.Logger
}

// Compile-time assertion that CloudWatchDeliveryMetrics implements
// types.DeliveryMetrics.
var _ types.DeliveryMetrics = (*CloudWatchDeliveryMetrics)(nil)

// NewCloudWatchDeliveryMetrics creates a metrics emitter publishing to the
// given CloudWatch namespace.
func NewCloudWatchDeliveryMetrics(client CloudWatchAPI, namespace string, logger types.Logger) *CloudWatchDeliveryMetrics {
	return &CloudWatchDeliveryMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordDispatch emits a DispatchAttempt metric with Channel and Result
// dimensions.
func (m *CloudWatchDeliveryMetrics) RecordDispatch(ctx context.Context, channel string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(metricDispatchAttempt),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String(dimChannel), Value: aws.String(channel)},
					{Name: aws.String(dimResult), Value: aws.String(result)},
				},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record dispatch metric",
			"error", err.Error(),
			"channel", channel,
			"result", result,
		)
	}
}

// RecordLatency emits a DispatchLatency metric with the Channel dimension.
// Duration is recorded in milliseconds.
func (m *CloudWatchDeliveryMetrics) RecordLatency(ctx context.Context, channel string, d time.Duration) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(metricDispatchLatency),
				Value:      aws.Float64(float64(d.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String(dimChannel), Value: aws.String(channel)},
				},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record latency metric",
			"error", err.Error(),
			"channel", channel,
			"duration_ms", d.Milliseconds(),
		)
	}
}

// RecordQueueLag emits the delay between SQS enqueue and worker processing
// start, including visibility timeout and backlog.
func (m *CloudWatchDeliveryMetrics) RecordQueueLag(ctx context.Context, lag time.Duration) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(metricQueueLag),
				Value:      aws.Float64(float64(lag.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record queue lag metric",
			"error", err.Error(),
			"lag_ms", lag.Milliseconds(),
		)
	}
}
