package audit

import (
	"context"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// DefaultQueueSize is used when the configured size is not positive.
const DefaultQueueSize = 256

// Queue is the asynchronous audit emitter. Emit never blocks: when the
// buffer is full the event is dropped and a warning is logged. Run drains
// the buffer into the recorder until its context is cancelled.
type Queue struct {
	events   chan models.AuditEvent
	recorder Recorder
	logger   *logger.Logger
}

func NewQueue(size int, recorder Recorder, logger *logger.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events:   make(chan models.AuditEvent, size),
		recorder: recorder,
		logger:   logger,
	}
}

// Emit implements service.AuditEmitter.
func (q *Queue) Emit(_ context.Context, event models.AuditEvent) {
	select {
	case q.events <- event:
	default:
		q.logger.Warn().
			Str("func", "Queue.Emit").
			Str("action", string(event.Action)).
			Str("session_id", event.SessionID).
			Msg("audit queue is full, event dropped")
	}
}

// Len reports the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Run delivers events until ctx is done, then delivers whatever is still
// buffered without blocking.
func (q *Queue) Run(ctx context.Context) {
	q.logger.Info().Str("func", "Queue.Run").Msg("audit worker started")
	defer q.logger.Info().Str("func", "Queue.Run").Msg("audit worker stopped")

	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case event := <-q.events:
			q.deliver(ctx, event)
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case event := <-q.events:
			q.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, event models.AuditEvent) {
	if err := q.recorder.Record(ctx, event); err != nil {
		q.logger.Err(err).
			Str("func", "Queue.deliver").
			Str("action", string(event.Action)).
			Str("session_id", event.SessionID).
			Msg("failed to record audit event")
	}
}
