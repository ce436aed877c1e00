package common

import (
	"encoding/json"
	"net/http"
	"time"

	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/models/dtos"
)

func statusOr(def int, override []int) int {
	if len(override) > 0 {
		return override[0]
	}
	return def
}

// RespondSuccess writes the "ok" envelope. Status defaults to 200.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	writeJSON(w, statusOr(http.StatusOK, statusCode), dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// RespondError writes the "error" envelope. Status defaults to 500; an empty message falls
// back to err's text.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	msg := message
	if msg == "" && err != nil {
		msg = err.Error()
	}

	writeJSON(w, statusOr(http.StatusInternalServerError, statusCode), dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	})
}

func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("Failed to write response body", "status", code, "error", err)
	}
}
