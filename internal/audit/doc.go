// Package audit delivers engine audit events outside the request path.
//
// Services hand events to a [Queue] which never blocks them. A background
// worker drains the queue into a [Recorder]: the [LogRecorder] always, and
// the [WebhookRecorder] when a webhook URL is configured.
package audit
