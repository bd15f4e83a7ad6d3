package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
)

type errorStatus struct {
	code    codes.Code
	message string
}

var errorStatusMap = map[error]errorStatus{
	service.ErrInvalidRequest:         {codes.InvalidArgument, app.MsgInvalidRequest},
	service.ErrInvalidResolution:      {codes.InvalidArgument, app.MsgInvalidResolution},
	service.ErrUnknownResolutionField: {codes.InvalidArgument, app.MsgUnknownResolutionField},
	service.ErrNoPrincipal:            {codes.Unauthenticated, app.MsgNoPrincipal},
	service.ErrTokenIsExpired:         {codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid},
	service.ErrSessionNotFound:        {codes.NotFound, app.MsgSessionNotFound},
	service.ErrItemNotFound:           {codes.NotFound, app.MsgItemNotFound},
	service.ErrItemNotInConflict:      {codes.FailedPrecondition, app.MsgItemNotInConflict},
	service.ErrVersionIsNotSpecified:  {codes.Internal, app.MsgVersionIsNotSpecified},
	context.DeadlineExceeded:          {codes.DeadlineExceeded, context.DeadlineExceeded.Error()},
	context.Canceled:                  {codes.Canceled, context.Canceled.Error()},
}

func statusFromError(err error) errorStatus {
	for target, st := range errorStatusMap {
		if errors.Is(err, target) {
			return st
		}
	}
	return errorStatus{codes.Internal, app.MsgInternalServerError}
}

// mapError logs err and converts it into a gRPC status error.
func mapError(ctx context.Context, err error, funcName string) error {
	st := statusFromError(err)

	event := logger.FromContext(ctx).Warn()
	if st.code == codes.Internal {
		event = logger.FromContext(ctx).Error()
	}
	event.Err(err).Str("func", funcName).Str("code", st.code.String()).Msg(st.message)

	return status.Error(st.code, st.message)
}
