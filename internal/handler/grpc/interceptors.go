package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
)

const (
	authorizationKey = "authorization"
	traceIDKey       = "x-trace-id"

	maxTraceIDLength = 128
)

// withLogging attaches a trace-scoped logger to the context, applies the
// request timeout and writes one access log entry per call.
func (h *Handler) withLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	traceID := firstMetadataValue(ctx, traceIDKey)
	if traceID == "" || len(traceID) > maxTraceIDLength {
		traceID = uuid.NewString()
	}
	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	resp, err := handler(ctx, req)

	l.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// auth resolves the bearer token from the "authorization" metadata into the
// caller's principal. GetVersion is served without a token.
func (h *Handler) auth(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == GetVersionMethod {
		return handler(ctx, req)
	}

	log := logger.FromContext(ctx)

	header := firstMetadataValue(ctx, authorizationKey)
	if header == "" {
		log.Warn().Str("func", "*Handler.auth").Msg("missing authorization metadata")
		return nil, status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	}

	tokenString, err := utils.ParseBearerToken(header)
	if err != nil {
		log.Err(err).Str("func", "*Handler.auth").Send()
		return nil, status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	}

	principal, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, service.ErrTokenIsExpired) {
			log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
		}
		return nil, status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	}

	return handler(utils.WithPrincipal(ctx, principal), req)
}

func firstMetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
