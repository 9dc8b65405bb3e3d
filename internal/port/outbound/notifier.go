package outbound

import "context"

// NotifierPort is the transport behind the notification dispatcher.
// Implementations must never return an error to callers: delivery is
// best-effort and failures are logged at the source.
type NotifierPort interface {
	Send(ctx context.Context, subject, body, recipientID string, metadata map[string]string)
}
