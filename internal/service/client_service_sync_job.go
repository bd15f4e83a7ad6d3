package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
)

const defaultFlushInterval = 5 * time.Minute

// clientSyncJob pushes the outbox on a timer. One loop runs at a time; done
// is closed when that loop returns.
type clientSyncJob struct {
	outbox ClientSyncService
	logger *logger.Logger

	mu   sync.Mutex
	stop context.CancelFunc
	done chan struct{}
}

func NewClientSyncJob(outbox ClientSyncService, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{outbox: outbox, logger: logger}
}

func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultFlushInterval
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()

	loopCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	j.stop, j.done = stop, done

	go func() {
		defer close(done)
		j.loop(loopCtx, interval)
	}()
}

func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()
}

func (j *clientSyncJob) stopLocked() {
	if j.stop == nil {
		return
	}
	j.stop()
	<-j.done
	j.stop, j.done = nil, nil
}

func (j *clientSyncJob) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.flush(ctx)
		}
	}
}

// flush keeps the loop alive on error; failed entries stay pending and are
// retried on the next tick.
func (j *clientSyncJob) flush(ctx context.Context) {
	report, err := j.outbox.Flush(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "clientSyncJob.flush").Msg("scheduled flush failed")
		return
	}
	if report.Sent == 0 {
		return
	}

	j.logger.Info().
		Str("func", "clientSyncJob.flush").
		Str("session_id", report.SessionID).
		Int("sent", report.Sent).
		Int("synced", report.Synced).
		Int("failed", report.Failed).
		Int("conflicts", len(report.Conflicts)).
		Msg("scheduled flush done")
}
