package v1

import (
	"errors"
	"net/http"

	"github.com/cashwire/transferd/internal/errs"
)

// errorResponse is the standard error payload for the API. Every failure kind
// maps to a distinct code so no outcome collapses into a generic error.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErr(w, http.StatusBadRequest, msg, "invalid_request")
}

// writeDomainErr maps a service error onto its HTTP status and code.
func writeDomainErr(w http.ResponseWriter, err error) {
	status, code := errStatus(err)
	writeErr(w, status, err.Error(), code)
}

func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalid):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient_funds"
	case errors.Is(err, errs.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity, "currency_mismatch"
	case errors.Is(err, errs.ErrTransferConflict):
		return http.StatusConflict, "transfer_conflict"
	case errors.Is(err, errs.ErrPoolExhausted):
		return http.StatusServiceUnavailable, "pool_exhausted"
	case errors.Is(err, errs.ErrConnection):
		return http.StatusServiceUnavailable, "connection_error"
	default:
		return http.StatusInternalServerError, "store_error"
	}
}
