package grpc

import (
	"context"

	"github.com/MKhiriev/go-sync-keeper/internal/service"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

func (h *Handler) Reconcile(ctx context.Context, req *models.ReconcileRequest) (*models.ReconcileResponse, error) {
	principal, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.services.ReconcileService.Reconcile(ctx, principal, *req)
	if err != nil {
		return nil, mapError(ctx, err, "*Handler.Reconcile")
	}
	return &resp, nil
}

func (h *Handler) GetSession(ctx context.Context, req *SessionRequest) (*models.SessionDetails, error) {
	principal, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	details, err := h.services.SessionService.GetSession(ctx, principal, req.SessionID)
	if err != nil {
		return nil, mapError(ctx, err, "*Handler.GetSession")
	}
	return &details, nil
}

func (h *Handler) ListSessions(ctx context.Context, req *ListSessionsRequest) (*models.SessionList, error) {
	principal, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := h.services.SessionService.ListSessions(ctx, principal, req.Limit)
	if err != nil {
		return nil, mapError(ctx, err, "*Handler.ListSessions")
	}
	return &list, nil
}

func (h *Handler) GetConflictDiff(ctx context.Context, req *ConflictDiffRequest) (*models.ConflictDiff, error) {
	principal, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	diff, err := h.services.ConflictService.GetConflictDiff(ctx, principal, req.SessionID, req.ItemID, req.ConflictDiffRequest)
	if err != nil {
		return nil, mapError(ctx, err, "*Handler.GetConflictDiff")
	}
	return &diff, nil
}

func (h *Handler) ResolveConflict(ctx context.Context, req *ResolveConflictRequest) (*models.ResolveResponse, error) {
	principal, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.services.ConflictService.ResolveConflict(ctx, principal, req.SessionID, req.ItemID, req.ResolveRequest)
	if err != nil {
		return nil, mapError(ctx, err, "*Handler.ResolveConflict")
	}
	return &resp, nil
}

// GetVersion is the only method served without a token.
func (h *Handler) GetVersion(ctx context.Context, _ *VersionRequest) (*VersionResponse, error) {
	return &VersionResponse{Version: h.services.AppInfoService.GetAppVersion(ctx)}, nil
}

func principalFromContext(ctx context.Context) (models.Principal, error) {
	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		return models.Principal{}, mapError(ctx, service.ErrNoPrincipal, "principalFromContext")
	}
	return principal, nil
}

var _ SyncEngineServer = (*Handler)(nil)
