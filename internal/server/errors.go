package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/coverletter-agent/internal/docload"
	"github.com/jonathan/coverletter-agent/internal/fetch"
	"github.com/jonathan/coverletter-agent/internal/letter"
	"github.com/jonathan/coverletter-agent/internal/types"
)

// HTTPStatus maps pipeline and validation errors to response status codes.
func HTTPStatus(err error) int {
	var fetchErr *fetch.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &fetchErr):
		// Upstream job board failure
		return http.StatusBadGateway
	case errors.As(err, &validationErrs),
		errors.Is(err, types.ErrJobSourceRequired),
		errors.Is(err, types.ErrJobSourceConflict),
		errors.Is(err, docload.ErrUnsupportedFormat),
		errors.Is(err, docload.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, letter.ErrExtractionEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
