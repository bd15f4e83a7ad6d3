package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r, "*Handler.reconcile")
	if !ok {
		return
	}

	var req models.ReconcileRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.reconcile").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	resp, err := h.services.ReconcileService.Reconcile(r.Context(), principal, req)
	if err != nil {
		writeError(w, r, err, "*Handler.reconcile")
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r, "*Handler.listSessions")
	if !ok {
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.listSessions").Send()
		http.Error(w, ErrInvalidLimit.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.services.SessionService.ListSessions(r.Context(), principal, limit)
	if err != nil {
		writeError(w, r, err, "*Handler.listSessions")
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r, "*Handler.getSession")
	if !ok {
		return
	}

	details, err := h.services.SessionService.GetSession(r.Context(), principal, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err, "*Handler.getSession")
		return
	}

	utils.WriteJSON(w, details, http.StatusOK)
}
