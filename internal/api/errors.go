// internal/api/errors.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
)

var (
	errMissingCaller = errors.New("X-Caller header is required")
	errInvalidCaller = errors.New("X-Caller is not a valid public key")
)

// statusFor maps an engine error to an HTTP status by its kind.
func statusFor(err error) int {
	switch {
	case errors.Is(err, curve.ErrConfigNotInitialized), errors.Is(err, curve.ErrPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, curve.ErrConfigAlreadyInitialized), errors.Is(err, curve.ErrPoolAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}

	ce, ok := curve.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ce.Kind() {
	case curve.KindInvalidInput:
		return http.StatusBadRequest
	case curve.KindAuthorization:
		return http.StatusForbidden
	case curve.KindSlippage:
		return http.StatusPreconditionFailed
	case curve.KindHalt:
		return http.StatusLocked
	case curve.KindInsufficientResource, curve.KindArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func errorBody(err error, status int) ErrorResponse {
	if status == http.StatusInternalServerError {
		return ErrorResponse{Error: "internal error"}
	}
	resp := ErrorResponse{Error: err.Error()}
	if ce, ok := curve.AsError(err); ok {
		resp.Code = uint32(ce.Code)
		resp.Name = ce.Name
		resp.Kind = ce.Kind().String()
	}
	return resp
}
