// Package notify implements the best-effort notification dispatcher.
// Notifications are advisory: they ride behind already-committed writes and
// must never influence the outcome of the operation that triggered them.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
)

// Dispatcher fans out notifications through a NotifierPort. Send never fails
// and never panics out to the caller.
type Dispatcher struct {
	notifier outbound.NotifierPort
	logger   *zap.Logger
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(notifier outbound.NotifierPort, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Send delivers one notification, best-effort. A nil transport or a transport
// panic is logged and swallowed.
func (d *Dispatcher) Send(ctx context.Context, subject, body, recipientID string, metadata map[string]string) {
	if d == nil || d.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("notification dispatch panicked",
				zap.String("recipient", recipientID),
				zap.Any("panic", r),
			)
		}
	}()

	d.notifier.Send(ctx, subject, body, recipientID, metadata)
	d.logger.Debug("notification dispatched",
		zap.String("subject", subject),
		zap.String("recipient", recipientID),
	)
}

// SendAll delivers the same notification to each recipient, skipping the
// actor so users are never notified about their own changes.
func (d *Dispatcher) SendAll(ctx context.Context, subject, body string, recipientIDs []string, actorID string, metadata map[string]string) {
	seen := make(map[string]struct{}, len(recipientIDs))
	for _, recipient := range recipientIDs {
		if recipient == "" || recipient == actorID {
			continue
		}
		if _, dup := seen[recipient]; dup {
			continue
		}
		seen[recipient] = struct{}{}
		d.Send(ctx, subject, body, recipient, metadata)
	}
}
