package audit

import "errors"

var (
	// ErrWebhookRejected is returned when the webhook answers with a non-2xx status.
	ErrWebhookRejected = errors.New("audit webhook rejected event")
	// ErrWebhookUnreachable is returned when the webhook request fails in transport.
	ErrWebhookUnreachable = errors.New("audit webhook unreachable")
)
