package api

import (
	"fmt"
	"net/http"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func joinFilterFrom(r *http.Request) services.JoinFilter {
	q := r.URL.Query()
	return services.JoinFilter{
		Status:     q.Get("status"),
		HeatNumber: q.Get("heat_number"),
	}
}

// JoinedViewHandler handles GET /api/v1/joined?status=&heat_number=
func JoinedViewHandler(svc JoinedViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rows, err := svc.Query(r.Context(), joinFilterFrom(r))
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, fmt.Sprintf("%d rows", len(rows)), rows)
	}
}

// ExportJoinedHandler handles GET /api/v1/joined/export and streams an .xlsx workbook.
func ExportJoinedHandler(svc JoinedExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		data, err := svc.ExportJoinedXLSX(r.Context(), joinFilterFrom(r))
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="joined_view.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// StatsHandler handles GET /api/v1/stats
func StatsHandler(svc JoinedViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, start, err)
			return
		}

		common.RespondSuccess(w, start, "", stats)
	}
}
