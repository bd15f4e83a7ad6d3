package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

func TestAuth_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		wantStatus     int
		wantBody       string
		wantNextCalled bool
	}{
		{
			name:       "no header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrEmptyAuthorizationHeader.Error(),
		},
		{
			name:       "no scheme",
			header:     goodToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrInvalidAuthorizationHeader.Error(),
		},
		{
			name:       "wrong scheme",
			header:     "Basic " + goodToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrInvalidAuthorizationHeader.Error(),
		},
		{
			name:       "rejected token",
			header:     "Bearer expired",
			wantStatus: http.StatusUnauthorized,
			wantBody:   app.MsgTokenIsExpiredOrInvalid,
		},
		{
			name:           "valid token",
			header:         "Bearer " + goodToken,
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "lower-case scheme",
			header:         "bearer " + goodToken,
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, _ := newTestServices()
			h := NewHandler(services, config.Server{}, logger.Nop())

			var (
				nextCalled bool
				principal  models.Principal
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				principal, _ = utils.GetPrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/sync/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rr.Body.String()))
			}
			if tt.wantNextCalled {
				assert.Equal(t, testPrincipal, principal)
			}
		})
	}
}

func TestPrincipalFromRequest_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	_, ok := principalFromRequest(rr, req, "test")

	require.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, app.MsgNoPrincipal, strings.TrimSpace(rr.Body.String()))
}
