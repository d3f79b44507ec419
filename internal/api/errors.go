package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/intake"
	"pipelinetracker/pkg/domain"
)

// ErrorMessage is the body of every error response.
type ErrorMessage struct {
	Detail string `json:"detail"`
	Advice string `json:"advice,omitempty"`
}

// ErrorMessageOption decorates an ErrorMessage.
type ErrorMessageOption func(*ErrorMessage)

// WithAdvice attaches a hint for resolving the error.
func WithAdvice(advice string) ErrorMessageOption {
	return func(m *ErrorMessage) {
		if advice != "" {
			m.Advice = advice
		}
	}
}

// NewErrorMessage builds an HTTP error carrying an ErrorMessage body. cause is
// kept as the internal error for logging and may be nil.
func NewErrorMessage(code int, detail string, cause error, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Detail: detail}
	for _, opt := range opts {
		opt(&msg)
	}
	he := echo.NewHTTPError(code, msg)
	if cause != nil {
		he = he.SetInternal(cause)
	}
	return he
}

func unprocessable(detail string, cause error, opts ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnprocessableEntity, detail, cause, opts...)
}

// toHTTPError maps an error returned by a handler onto its HTTP status and
// response body.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if _, ok := he.Message.(ErrorMessage); ok {
			return he
		}
		return NewErrorMessage(he.Code, fmt.Sprint(he.Message), he.Internal)
	}

	var constraint *domain.ConstraintError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidReference):
		if errors.As(err, &constraint) {
			return unprocessable(string(constraint.Kind)+" constraint violated", err)
		}
		return unprocessable(err.Error(), err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, intake.ErrNotFound):
		return NewErrorMessage(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, domain.ErrConflict):
		detail := "conflicts with an existing record"
		if errors.As(err, &constraint) && constraint.Constraint != "" {
			detail += " (" + constraint.Constraint + ")"
		}
		return NewErrorMessage(http.StatusConflict, detail, err, WithAdvice("use a different unique value"))
	case errors.Is(err, intake.ErrStorage):
		return NewErrorMessage(http.StatusInternalServerError, err.Error(), err)
	default:
		return NewErrorMessage(http.StatusInternalServerError, "internal server error", err)
	}
}

// errorHandler renders errors as ErrorMessage JSON. Server errors are logged.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := toHTTPError(err)
	if he.Code >= http.StatusInternalServerError {
		c.Logger().Errorj(logFields(c, "cause", err))
	}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, he.Message)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
