package audit

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// Recorder persists or forwards a single audit event.
type Recorder interface {
	Record(ctx context.Context, event models.AuditEvent) error
}

// LogRecorder writes events to the structured log.
type LogRecorder struct {
	logger *logger.Logger
}

func NewLogRecorder(logger *logger.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (l *LogRecorder) Record(_ context.Context, event models.AuditEvent) error {
	l.logger.Info().
		Str("func", "LogRecorder.Record").
		Str("action", string(event.Action)).
		Int64("company_id", event.Tenant.CompanyID).
		Int64("scope_id", event.Tenant.ScopeID).
		Int64("user_id", event.UserID).
		Str("session_id", event.SessionID).
		Str("status", string(event.Status)).
		Interface("summary", event.Summary).
		Strs("conflicts", event.Conflicts).
		Time("occurred_at", event.OccurredAt).
		Msg("audit event")
	return nil
}

// MultiRecorder fans an event out to every recorder. All recorders are
// called even when one fails; the failures are joined.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, event models.AuditEvent) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
