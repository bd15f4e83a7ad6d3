package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// Field name constants used to scope validation.
const (
	FieldSessionID  = "session_id"
	FieldItems      = "items"
	FieldResolution = "resolution"
)

// MaxBatchItems bounds the number of mutations in one reconcile call.
const MaxBatchItems = 1000

// SyncRequestValidator validates reconcile and resolve requests.
type SyncRequestValidator struct{}

func NewSyncRequestValidator() Validator {
	return &SyncRequestValidator{}
}

func (v *SyncRequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ReconcileRequest:
		return v.validateReconcileRequest(ctx, value, fields...)
	case *models.ReconcileRequest:
		return v.validateReconcileRequest(ctx, *value, fields...)

	case models.ResolveRequest:
		return v.validateResolveRequest(ctx, value, fields...)
	case *models.ResolveRequest:
		return v.validateResolveRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncRequestValidator) validateReconcileRequest(_ context.Context, req models.ReconcileRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSessionID, FieldItems, FieldResolution}
	}

	for _, f := range fields {
		switch f {
		case FieldSessionID:
			if req.SessionID != nil && strings.TrimSpace(*req.SessionID) == "" {
				return ErrInvalidSessionID
			}
		case FieldItems:
			if len(req.Items) > MaxBatchItems {
				return fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(req.Items), MaxBatchItems)
			}
		case FieldResolution:
			for entityID, r := range req.Resolution {
				if entityID == "" {
					return ErrEmptyResolutionKey
				}
				if err := validateResolution(entityID, r); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func validateResolution(entityID string, r models.Resolution) error {
	switch r.Kind {
	case models.ServerWins, models.ClientWins:
		return nil
	case models.FieldMerge:
		if len(r.Fields) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyResolutionFields, entityID)
		}
		for field, side := range r.Fields {
			if !side.IsValid() {
				return fmt.Errorf("%w: %s.%s", ErrInvalidSide, entityID, field)
			}
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidResolutionKind, entityID)
}

func (v *SyncRequestValidator) validateResolveRequest(_ context.Context, req models.ResolveRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldResolution}
	}

	for _, f := range fields {
		switch f {
		case FieldResolution:
			if len(req.Resolution) == 0 {
				return ErrEmptyResolution
			}
			for field, side := range req.Resolution {
				if !side.IsValid() {
					return fmt.Errorf("%w: %s", ErrInvalidSide, field)
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}
