// Package snsnotify implements the notifier port on SNS. Publishes are
// best-effort behind a circuit breaker: a broken topic degrades to dropped
// notifications, never to failed operations.
package snsnotify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/utils/metrics"
)

// Notifier publishes notifications to an SNS topic.
type Notifier struct {
	client   *sns.Client
	topicARN string
	breaker  *gobreaker.CircuitBreaker[any]
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewNotifier creates a new SNS notifier.
func NewNotifier(client *sns.Client, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Notifier {
	threshold := cfg.Notify.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "sns-notifier",
		MaxRequests: 1,
		Timeout:     cfg.Notify.CircuitTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}

	return &Notifier{
		client:   client,
		topicARN: cfg.Notify.TopicARN,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
		metrics:  m,
		logger:   logger,
	}
}

var _ outbound.NotifierPort = (*Notifier)(nil)

// Send publishes one notification. Failures and open-breaker rejections are
// logged and counted, never returned.
func (n *Notifier) Send(ctx context.Context, subject, body, recipientID string, metadata map[string]string) {
	attrs := map[string]snstypes.MessageAttributeValue{
		"recipient": {
			DataType:    aws.String("String"),
			StringValue: aws.String(recipientID),
		},
	}
	for key, value := range metadata {
		attrs[key] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	_, err := n.breaker.Execute(func() (any, error) {
		return n.client.Publish(ctx, &sns.PublishInput{
			TopicArn:          aws.String(n.topicARN),
			Subject:           aws.String(subject),
			Message:           aws.String(body),
			MessageAttributes: attrs,
		})
	})
	if err != nil {
		n.observe("error")
		n.logger.Warn("notification publish failed",
			zap.String("recipient", recipientID),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return
	}
	n.observe("ok")
}

func (n *Notifier) observe(outcome string) {
	if n.metrics == nil {
		return
	}
	n.metrics.NotificationsTotal.WithLabelValues(outcome).Inc()
}
