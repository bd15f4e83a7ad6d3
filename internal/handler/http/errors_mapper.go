package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
)

type errorResponse struct {
	status  int
	message string
}

// errorStatusMap lists the service errors a client can act on. Everything
// else, store failures included, is an internal error.
var errorStatusMap = map[error]errorResponse{
	service.ErrInvalidRequest:         {http.StatusBadRequest, app.MsgInvalidRequest},
	service.ErrInvalidResolution:      {http.StatusBadRequest, app.MsgInvalidResolution},
	service.ErrUnknownResolutionField: {http.StatusBadRequest, app.MsgUnknownResolutionField},
	service.ErrNoPrincipal:            {http.StatusUnauthorized, app.MsgNoPrincipal},
	service.ErrTokenIsExpired:         {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrSessionNotFound:        {http.StatusNotFound, app.MsgSessionNotFound},
	service.ErrItemNotFound:           {http.StatusNotFound, app.MsgItemNotFound},
	service.ErrItemNotInConflict:      {http.StatusConflict, app.MsgItemNotInConflict},
	service.ErrVersionIsNotSpecified:  {http.StatusInternalServerError, app.MsgVersionIsNotSpecified},
}

func statusFromError(err error) (int, string) {
	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeError logs err and answers with the mapped status and message.
func writeError(w http.ResponseWriter, r *http.Request, err error, funcName string) {
	status, message := statusFromError(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg(message)

	http.Error(w, message, status)
}
