// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body when a
// webhook secret is configured.
const SignatureHeader = "X-Signature"

// WebhookRecorder POSTs each event as JSON to an external endpoint.
type WebhookRecorder struct {
	client *utils.HTTPClient
	url    string
	secret string
}

// NewWebhookRecorder builds a recorder from the audit settings. The caller
// decides whether a webhook is configured at all.
func NewWebhookRecorder(cfg config.Audit) *WebhookRecorder {
	return &WebhookRecorder{
		client: utils.NewHTTPClient(cfg.Timeout),
		url:    strings.TrimSpace(cfg.WebhookURL),
		secret: cfg.WebhookSecret,
	}
}

func (w *WebhookRecorder) Record(ctx context.Context, event models.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	req := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if w.secret != "" {
		req.SetHeader(SignatureHeader, utils.SignBody(body, w.secret))
	}

	resp, err := req.Post(w.url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWebhookUnreachable, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode())
	}

	return nil
}
