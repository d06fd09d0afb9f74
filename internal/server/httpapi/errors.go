package httpapi

import (
	"errors"
	"net/http"

	"github.com/q42jaap/opvault/internal/common"
)

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidPath),
		errors.Is(err, common.ErrUnsupportedFieldType),
		errors.Is(err, common.ErrMissingAttribute):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
