package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// getConflictDiff is the read side of conflict resolution. The body is
// optional; when present its client_data replaces the stored submission.
func (h *Handler) getConflictDiff(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r, "*Handler.getConflictDiff")
	if !ok {
		return
	}

	var req models.ConflictDiffRequest
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.getConflictDiff").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	diff, err := h.services.ConflictService.GetConflictDiff(r.Context(), principal,
		chi.URLParam(r, "sessionID"), chi.URLParam(r, "itemID"), req)
	if err != nil {
		writeError(w, r, err, "*Handler.getConflictDiff")
		return
	}

	utils.WriteJSON(w, diff, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r, "*Handler.resolveConflict")
	if !ok {
		return
	}

	var req models.ResolveRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.resolveConflict").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	resp, err := h.services.ConflictService.ResolveConflict(r.Context(), principal,
		chi.URLParam(r, "sessionID"), chi.URLParam(r, "itemID"), req)
	if err != nil {
		writeError(w, r, err, "*Handler.resolveConflict")
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
