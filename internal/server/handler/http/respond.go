// Package http provides the HTTP handlers and routing for the ledger API.
package http

import (
	"errors"
	"net/http"

	"github.com/rmanoharan/ledgerdesk/internal/httputil"
	"github.com/rmanoharan/ledgerdesk/internal/service"
)

// writeServiceError maps a service-layer error onto an HTTP status and a
// user-facing message. Internal details never leak into responses; an
// unrecognized error becomes a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		httputil.WriteError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, service.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrDuplicateUsername):
		httputil.WriteError(w, http.StatusBadRequest, "username already exists")
	default:
		httputil.WriteError(w, http.StatusInternalServerError, "server error")
	}
}
