package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/aircargo/internal/domain"
)

// statusFromError maps the domain error taxonomy to HTTP statuses.
// Unrecognized errors are internal failures.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusinessRule), errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrResourceLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
