package api

import (
	"errors"
	"net/http"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/services"
	"steel-ledger/mtrledger/internal/tabular"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMtrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrWriteBusy):
		return http.StatusConflict
	case errors.Is(err, tabular.ErrSpreadsheetUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Internal errors are logged and
// replaced by a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logging.Error("Request failed", "path", r.URL.Path, "error", err)
		common.RespondError(w, start, nil, "Internal server error", code)
		return
	}
	common.RespondError(w, start, err, "", code)
}
