package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/validators"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// ReconcileValidationService rejects malformed reconcile requests with
// [ErrInvalidRequest] before they reach the orchestrator.
type ReconcileValidationService struct {
	inner     ReconcileService
	validator validators.Validator
}

func NewReconcileValidationService() ReconcileServiceWrapper {
	return &ReconcileValidationService{
		validator: validators.NewSyncRequestValidator(),
	}
}

func (v *ReconcileValidationService) Reconcile(ctx context.Context, principal models.Principal, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return v.inner.Reconcile(ctx, principal, req)
}

func (v *ReconcileValidationService) Wrap(wrapped ReconcileService) ReconcileService {
	v.inner = wrapped
	return v
}

// ConflictValidationService rejects malformed resolution requests with
// [ErrInvalidResolution].
type ConflictValidationService struct {
	inner     ConflictService
	validator validators.Validator
}

func NewConflictValidationService(inner ConflictService) ConflictService {
	return &ConflictValidationService{
		inner:     inner,
		validator: validators.NewSyncRequestValidator(),
	}
}

func (v *ConflictValidationService) GetConflictDiff(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ConflictDiffRequest) (models.ConflictDiff, error) {
	return v.inner.GetConflictDiff(ctx, principal, sessionID, itemID, req)
}

func (v *ConflictValidationService) ResolveConflict(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.ResolveResponse{}, fmt.Errorf("%w: %w", ErrInvalidResolution, err)
	}

	return v.inner.ResolveConflict(ctx, principal, sessionID, itemID, req)
}
