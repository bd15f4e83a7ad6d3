// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// Reconcile implements [ServerAdapter]. It POSTs req to
// POST /api/sync/reconcile and decodes the [models.ReconcileResponse].
func (h *httpServerAdapter) Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	var result models.ReconcileResponse

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result)
	if err := h.send(r, http.MethodPost, "/api/sync/reconcile", "reconcile"); err != nil {
		return models.ReconcileResponse{}, err
	}

	return result, nil
}

// ListSessions implements [ServerAdapter]. It GETs /api/sync/sessions,
// passing limit as a query parameter when positive.
func (h *httpServerAdapter) ListSessions(ctx context.Context, limit int) (models.SessionList, error) {
	var result models.SessionList

	r := h.authedRequest(ctx).SetResult(&result)
	if limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if err := h.send(r, http.MethodGet, "/api/sync/sessions", "list sessions"); err != nil {
		return models.SessionList{}, err
	}

	return result, nil
}

// GetSession implements [ServerAdapter]. It GETs
// /api/sync/sessions/{sessionID}.
func (h *httpServerAdapter) GetSession(ctx context.Context, sessionID string) (models.SessionDetails, error) {
	var result models.SessionDetails

	r := h.authedRequest(ctx).SetResult(&result)
	if err := h.send(r, http.MethodGet, sessionPath(sessionID), "get session"); err != nil {
		return models.SessionDetails{}, err
	}

	return result, nil
}

// GetConflictDiff implements [ServerAdapter]. It POSTs the optional client
// data to /api/sync/sessions/{sessionID}/items/{itemID}/diff.
func (h *httpServerAdapter) GetConflictDiff(ctx context.Context, sessionID, itemID string, req models.ConflictDiffRequest) (models.ConflictDiff, error) {
	var result models.ConflictDiff

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result)
	if err := h.send(r, http.MethodPost, itemPath(sessionID, itemID, "diff"), "get conflict diff"); err != nil {
		return models.ConflictDiff{}, err
	}

	return result, nil
}

// ResolveConflict implements [ServerAdapter]. It POSTs the resolution to
// /api/sync/sessions/{sessionID}/items/{itemID}/resolve. Returns
// [ErrConflict] (wrapped) on HTTP 409.
func (h *httpServerAdapter) ResolveConflict(ctx context.Context, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error) {
	var result models.ResolveResponse

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result)
	if err := h.send(r, http.MethodPost, itemPath(sessionID, itemID, "resolve"), "resolve conflict"); err != nil {
		return models.ResolveResponse{}, err
	}

	return result, nil
}

// GetVersion implements [ServerAdapter]. The endpoint is unauthenticated and
// answers with plain text.
func (h *httpServerAdapter) GetVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version/")
	if err != nil {
		return "", fmt.Errorf("get version request: %w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

func sessionPath(sessionID string) string {
	return "/api/sync/sessions/" + url.PathEscape(sessionID)
}

func itemPath(sessionID, itemID, action string) string {
	return sessionPath(sessionID) + "/items/" + url.PathEscape(itemID) + "/" + action
}
