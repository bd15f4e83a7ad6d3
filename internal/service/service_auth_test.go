package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
)

func TestAuthService_ParseToken(t *testing.T) {
	cfg := config.App{TokenSignKey: "sign-key", TokenIssuer: "identity"}
	svc := NewAuthService(cfg, logger.Nop())

	valid, err := utils.GenerateJWTToken("identity", testPrincipal, time.Hour, "sign-key")
	require.NoError(t, err)
	expired, err := utils.GenerateJWTToken("identity", testPrincipal, -time.Hour, "sign-key")
	require.NoError(t, err)
	foreign, err := utils.GenerateJWTToken("identity", testPrincipal, time.Hour, "other-key")
	require.NoError(t, err)
	wrongIssuer, err := utils.GenerateJWTToken("someone-else", testPrincipal, time.Hour, "sign-key")
	require.NoError(t, err)

	principal, err := svc.ParseToken(context.Background(), valid.String())
	require.NoError(t, err)
	assert.Equal(t, testPrincipal, principal)

	for name, token := range map[string]string{
		"expired":      expired.String(),
		"wrong key":    foreign.String(),
		"wrong issuer": wrongIssuer.String(),
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrTokenIsExpired)
		})
	}
}
