package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

type authService struct {
	tokenSignKey string
	tokenIssuer  string

	logger *logger.Logger
}

func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		logger:       logger,
	}
}

// ParseToken validates a raw JWT issued upstream and converts its claims
// into the caller's principal.
//
// Any validation failure (expired, wrong issuer, bad signature, malformed
// subject) is normalised to [ErrTokenIsExpired] so that transports do not
// need to inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Principal, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Principal{}, ErrTokenIsExpired
	}

	principal, err := token.Principal()
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: %w", ErrTokenIsExpired, err)
	}
	return principal, nil
}
