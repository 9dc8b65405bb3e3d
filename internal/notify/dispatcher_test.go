package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/logger"
)

type captureNotifier struct {
	recipients []string
	panicWith  any
}

func (n *captureNotifier) Send(_ context.Context, _, _, recipientID string, _ map[string]string) {
	if n.panicWith != nil {
		panic(n.panicWith)
	}
	n.recipients = append(n.recipients, recipientID)
}

func TestSendSwallowsPanic(t *testing.T) {
	notifier := &captureNotifier{panicWith: "sns exploded"}
	d := NewDispatcher(notifier, logger.NewNop())

	assert.NotPanics(t, func() {
		d.Send(context.Background(), "subject", "body", "u1", nil)
	})
}

func TestSendToleratesNilTransport(t *testing.T) {
	d := NewDispatcher(nil, logger.NewNop())
	assert.NotPanics(t, func() {
		d.Send(context.Background(), "subject", "body", "u1", nil)
	})
}

func TestSendAll(t *testing.T) {
	t.Run("skips actor, blanks, and duplicates", func(t *testing.T) {
		notifier := &captureNotifier{}
		d := NewDispatcher(notifier, logger.NewNop())

		d.SendAll(context.Background(), "s", "b",
			[]string{"actor", "u1", "", "u2", "u1"}, "actor", nil)

		assert.Equal(t, []string{"u1", "u2"}, notifier.recipients)
	})

	t.Run("no recipients is fine", func(t *testing.T) {
		notifier := &captureNotifier{}
		d := NewDispatcher(notifier, logger.NewNop())

		d.SendAll(context.Background(), "s", "b", nil, "actor", nil)
		assert.Empty(t, notifier.recipients)
	})
}
