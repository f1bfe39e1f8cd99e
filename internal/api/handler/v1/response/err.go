package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/edugamify/classroom-api/internal/domain"
)

// Err is the body of every failed request.
type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("%d %s: %v", e.HTTPStatusCode, e.Code, e.Err)
}

func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", e.RequestID),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err))
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

// FromError maps an error kind to its status. Errors of no known kind are
// storage failures and get a generic message.
func FromError(err error) *Err {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return newErr(err, http.StatusBadRequest, "invalid_input")
	case errors.Is(err, domain.ErrUnauthenticated):
		return newErr(err, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, domain.ErrForbidden):
		return newErr(err, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return newErr(err, http.StatusNotFound, "not_found")
	case errors.Is(err, domain.ErrConflict):
		return newErr(err, http.StatusConflict, "conflict")
	default:
		return ErrInternalServerError(err)
	}
}

func newErr(err error, status int, code string) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: status,
		Code:           code,
		Message:        domain.Message(err),
		Details:        domain.Details(err),
	}
}

// ErrBadRequest reports malformed input. Field errors from request
// validation end up in Details.
func ErrBadRequest(err error) *Err {
	var fields validation.Errors
	if errors.As(err, &fields) {
		details := make(map[string]any, len(fields))
		for field, fieldErr := range fields {
			details[field] = fieldErr.Error()
		}

		return &Err{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			Code:           "invalid_input",
			Message:        "invalid request",
			Details:        details,
		}
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Code:           "invalid_input",
		Message:        err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Code:           "storage_failure",
		Message:        "internal server error",
	}
}

func ErrPayloadTooLarge(err error, limit int64) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		Code:           "invalid_input",
		Message:        "request body too large",
		Details:        map[string]any{"max_bytes": limit},
	}
}
