package api

import (
	"io"
	"net/http"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/services"
)

// ImportInventoryHandler handles POST /api/v1/inventory/import
//
// Multipart form: file (required), delimiter (default from config), has_header (default true).
// The whole inventory table is replaced by the file's rows.
func ImportInventoryHandler(svc InventoryImporter, maxBytes int64, defaultDelimiter string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			common.RespondError(w, start, err, constants.MsgUploadFile, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondServiceError(w, r, start, services.ErrNoFile)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			common.RespondError(w, start, err, "Failed to read upload", http.StatusBadRequest)
			return
		}

		delimiter := r.FormValue("delimiter")
		if delimiter == "" {
			delimiter = defaultDelimiter
		}

		res, err := svc.Import(r.Context(), services.ImportRequest{
			Data:      data,
			Filename:  header.Filename,
			Delimiter: delimiter,
			HasHeader: common.ParseBoolDefault(r.FormValue("has_header"), true),
		})
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, constants.MsgImportComplete, res)
	}
}
