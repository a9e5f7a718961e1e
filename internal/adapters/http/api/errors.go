package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/pitwall/internal/app"
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/optimizer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps an upstream error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidRoster),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, optimizer.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
