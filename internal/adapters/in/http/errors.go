package http

import (
	"errors"
	"net/http"

	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	msgCheckConnection = "check your connection"
	msgRequestRejected = "request rejected"
)

// errorResponse maps an error onto a status code and a body. Saga failures are
// matched before their transport causes.
func errorResponse(err error) (int, Error) {
	var roleErr *session.RoleUnauthorizedError
	var statusErr *commands.StatusUpdateFailedError

	switch {
	case errors.Is(err, session.ErrCredentialMissing), errors.Is(err, session.ErrCredentialInvalid):
		return http.StatusUnauthorized, Error{
			Code:     http.StatusUnauthorized,
			Message:  "sign in required",
			Redirect: session.EntryPath,
		}
	case errors.As(err, &roleErr):
		return http.StatusForbidden, Error{
			Code:     http.StatusForbidden,
			Message:  roleErr.Reason,
			Redirect: session.EntryPath,
		}
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrCapacityExceeded):
		return http.StatusConflict, Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.As(err, &statusErr):
		body := Error{Code: http.StatusBadGateway, Message: "order status was not updated: " + causeMessage(err)}
		if statusErr.VehicleBound {
			body.Retry = "status"
		}
		return http.StatusBadGateway, body
	case errors.Is(err, commands.ErrAssignmentFailed):
		return http.StatusBadGateway, Error{
			Code:    http.StatusBadGateway,
			Message: "vehicle was not assigned: " + causeMessage(err),
		}
	case errors.Is(err, errs.ErrServiceUnreachable):
		return http.StatusServiceUnavailable, Error{Code: http.StatusServiceUnavailable, Message: msgCheckConnection}
	case errors.Is(err, errs.ErrRequestRejected):
		return http.StatusBadGateway, Error{Code: http.StatusBadGateway, Message: msgRequestRejected}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

func causeMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrServiceUnreachable):
		return msgCheckConnection
	case errors.Is(err, errs.ErrRequestRejected):
		return msgRequestRejected
	default:
		return "unexpected failure"
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code, body := errorResponse(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "status", code, "error", err)
	}
	return c.JSON(code, body)
}
