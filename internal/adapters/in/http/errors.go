package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"heblo/internal/adapters/in/http/api"
	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps an error returned by a handler to a response status and message.
// Transition errors are checked first because a rejected transition may also
// carry a validation cause.
func statusOf(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal != nil {
			return httpErr.Code, fmt.Sprintf("%v: %v", httpErr.Message, httpErr.Internal)
		}
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	switch {
	case errors.Is(err, errs.ErrInvalidStateTransition), errors.Is(err, commands.ErrTransitionIsSystemOnly):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// NewErrorHandler renders every error as api.Error.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status, message := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "request failed",
				"method", ctx.Request().Method,
				"path", ctx.Path(),
				"error", err,
			)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, api.Error{Code: status, Message: message})
		}
		if writeErr != nil {
			logger.WarnContext(ctx.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}
