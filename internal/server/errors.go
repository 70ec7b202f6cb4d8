package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Configuration refusals map to 422 so callers can tell "disabled on
// purpose" apart from request or server failures.
func HTTPStatus(err error) int {
	var cfgErr *pipeline.ConfigurationError
	var nfErr *pipeline.NotFoundError
	var extErr *llm.ExternalServiceError

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &extErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
