package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"

	"github.com/go-chi/chi/v5"
)

const maxPayloadBytes = 1 << 20

// UpsertMtrHandler handles POST /api/v1/mtr
//
// Body is a JSON object with at least heat_number and batch_number. Responds 201 when a
// certificate was created and 200 when an existing one was replaced.
func UpsertMtrHandler(svc MtrStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			common.RespondError(w, start, err, "", http.StatusRequestEntityTooLarge)
			return
		}

		res, err := svc.UpsertRaw(r.Context(), body)
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		code := http.StatusOK
		if res.Operation == string(constants.UpsertCreated) {
			code = http.StatusCreated
		}
		common.RespondSuccess(w, start, constants.MsgUpsertComplete, res, code)
	}
}

// BatchUpsertMtrHandler handles POST /api/v1/mtr/batch with a JSON array of objects.
func BatchUpsertMtrHandler(svc MtrStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 16*maxPayloadBytes))
		if err != nil {
			common.RespondError(w, start, err, "", http.StatusRequestEntityTooLarge)
			return
		}

		res, err := svc.BatchUpsertRaw(r.Context(), body)
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, constants.MsgUpsertComplete, res)
	}
}

// ListMtrHandler handles GET /api/v1/mtr?heat_number=
func ListMtrHandler(svc MtrStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recs, err := svc.ListByHeat(r.Context(), r.URL.Query().Get("heat_number"))
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, "", recs)
	}
}

// DeleteMtrHandler handles DELETE /api/v1/mtr/{id}
func DeleteMtrHandler(svc MtrStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 0)
		if err != nil || id == 0 {
			common.RespondError(w, start, nil, "id must be a positive integer", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), uint(id)); err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, "MTR deleted", nil)
	}
}
