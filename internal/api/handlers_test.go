package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/models/dtos"
	gormModels "steel-ledger/mtrledger/internal/models/gorm"
	"steel-ledger/mtrledger/internal/services"
	"steel-ledger/mtrledger/internal/tabular"

	"github.com/go-chi/chi/v5"
)

// Mock MtrStore
type mockMtrStore struct {
	upsertRawFunc      func(ctx context.Context, body []byte) (*dtos.UpsertResult, error)
	batchUpsertRawFunc func(ctx context.Context, body []byte) (*dtos.BatchUpsertResult, error)
	listByHeatFunc     func(ctx context.Context, heatNumber string) ([]gormModels.MtrRecord, error)
	deleteFunc         func(ctx context.Context, id uint) error
}

func (m *mockMtrStore) UpsertRaw(ctx context.Context, body []byte) (*dtos.UpsertResult, error) {
	return m.upsertRawFunc(ctx, body)
}

func (m *mockMtrStore) BatchUpsertRaw(ctx context.Context, body []byte) (*dtos.BatchUpsertResult, error) {
	return m.batchUpsertRawFunc(ctx, body)
}

func (m *mockMtrStore) ListByHeat(ctx context.Context, heatNumber string) ([]gormModels.MtrRecord, error) {
	return m.listByHeatFunc(ctx, heatNumber)
}

func (m *mockMtrStore) Delete(ctx context.Context, id uint) error {
	return m.deleteFunc(ctx, id)
}

// Mock InventoryImporter
type mockImporter struct {
	importFunc func(ctx context.Context, req services.ImportRequest) (*dtos.ImportResult, error)
}

func (m *mockImporter) Import(ctx context.Context, req services.ImportRequest) (*dtos.ImportResult, error) {
	return m.importFunc(ctx, req)
}

// Mock JoinedViewer
type mockJoinedViewer struct {
	queryFunc func(ctx context.Context, filter services.JoinFilter) ([]dtos.JoinedRow, error)
}

func (m *mockJoinedViewer) Query(ctx context.Context, filter services.JoinFilter) ([]dtos.JoinedRow, error) {
	return m.queryFunc(ctx, filter)
}

func (m *mockJoinedViewer) Stats(ctx context.Context) (*dtos.StatsResponse, error) {
	return &dtos.StatsResponse{MtrCount: 1}, nil
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) dtos.APIResponse {
	t.Helper()
	var resp dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestUpsertMtrHandler_StatusCodes(t *testing.T) {
	logging.InitNop()

	cases := []struct {
		name     string
		result   *dtos.UpsertResult
		err      error
		wantCode int
	}{
		{"created", &dtos.UpsertResult{ID: 1, Operation: "created"}, nil, http.StatusCreated},
		{"updated", &dtos.UpsertResult{ID: 1, Operation: "updated"}, nil, http.StatusOK},
		{"missing keys", nil, services.ErrMissingKeys, http.StatusBadRequest},
		{"not mapping", nil, services.ErrPayloadNotMapping, http.StatusBadRequest},
		{"busy", nil, services.ErrWriteBusy, http.StatusConflict},
		{"db down", nil, errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mock := &mockMtrStore{
				upsertRawFunc: func(ctx context.Context, body []byte) (*dtos.UpsertResult, error) {
					return c.result, c.err
				},
			}

			req := httptest.NewRequest("POST", "/api/v1/mtr", bytes.NewReader([]byte(`{}`)))
			rr := httptest.NewRecorder()
			UpsertMtrHandler(mock).ServeHTTP(rr, req)

			if rr.Code != c.wantCode {
				t.Errorf("Expected status %d, got %d", c.wantCode, rr.Code)
			}

			resp := decodeResponse(t, rr)
			if c.err != nil && resp.Status != "error" {
				t.Errorf("Expected error status, got %s", resp.Status)
			}
			if c.wantCode == http.StatusInternalServerError && resp.Message == c.err.Error() {
				t.Error("Expected internal error details to be hidden")
			}
		})
	}
}

func TestDeleteMtrHandler(t *testing.T) {
	logging.InitNop()

	var deleted uint
	mock := &mockMtrStore{
		deleteFunc: func(ctx context.Context, id uint) error {
			if id == 404 {
				return services.ErrMtrNotFound
			}
			deleted = id
			return nil
		},
	}

	r := chi.NewRouter()
	r.Delete("/api/v1/mtr/{id}", DeleteMtrHandler(mock))

	cases := map[string]int{
		"/api/v1/mtr/7":   http.StatusOK,
		"/api/v1/mtr/404": http.StatusNotFound,
		"/api/v1/mtr/abc": http.StatusBadRequest,
	}
	for path, want := range cases {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("DELETE", path, nil))
		if rr.Code != want {
			t.Errorf("%s: expected %d, got %d", path, want, rr.Code)
		}
	}
	if deleted != 7 {
		t.Errorf("Expected id 7 deleted, got %d", deleted)
	}
}

func TestImportInventoryHandler(t *testing.T) {
	logging.InitNop()

	var got services.ImportRequest
	mock := &mockImporter{
		importFunc: func(ctx context.Context, req services.ImportRequest) (*dtos.ImportResult, error) {
			got = req
			if req.Filename == "bad.txt" {
				return nil, tabular.ErrUnsupportedFormat
			}
			if req.Filename == "book.xlsx" {
				return nil, tabular.ErrSpreadsheetUnavailable
			}
			return &dtos.ImportResult{ImportedCount: 2, SourceFile: req.Filename}, nil
		},
	}
	handler := ImportInventoryHandler(mock, 1<<20, ",")

	upload := func(filename, delimiter, hasHeader string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		if filename != "" {
			fw, _ := mw.CreateFormFile("file", filename)
			fw.Write([]byte("Heat No;Lot\nH1;L1\nH2;L2\n"))
		}
		if delimiter != "" {
			mw.WriteField("delimiter", delimiter)
		}
		if hasHeader != "" {
			mw.WriteField("has_header", hasHeader)
		}
		mw.Close()

		req := httptest.NewRequest("POST", "/api/v1/inventory/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	rr := upload("ledger.csv", ";", "false")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Filename != "ledger.csv" || got.Delimiter != ";" || got.HasHeader {
		t.Errorf("Expected form fields passed through, got %+v", got)
	}

	upload("ledger.csv", "", "")
	if got.Delimiter != "," || !got.HasHeader {
		t.Errorf("Expected defaults delimiter=, has_header=true, got %+v", got)
	}

	if rr := upload("", "", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without file, got %d", rr.Code)
	}
	if rr := upload("bad.txt", "", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported format, got %d", rr.Code)
	}
	if rr := upload("book.xlsx", "", ""); rr.Code != http.StatusNotImplemented {
		t.Errorf("Expected 501 when spreadsheets are unavailable, got %d", rr.Code)
	}
}

func TestJoinedViewHandler_PassesFilter(t *testing.T) {
	logging.InitNop()

	var got services.JoinFilter
	mock := &mockJoinedViewer{
		queryFunc: func(ctx context.Context, filter services.JoinFilter) ([]dtos.JoinedRow, error) {
			got = filter
			if filter.Status == "bogus" {
				return nil, services.ErrInvalidStatus
			}
			return []dtos.JoinedRow{{ID: 1, JoinStatus: "Missing MTR"}}, nil
		},
	}

	rr := httptest.NewRecorder()
	JoinedViewHandler(mock).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/joined?status=Missing+MTR&heat_number=H1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if got.Status != "Missing MTR" || got.HeatNumber != "H1" {
		t.Errorf("Expected filter from query, got %+v", got)
	}

	resp := decodeResponse(t, rr)
	rows, ok := resp.Data.([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("Expected one row in data, got %v", resp.Data)
	}
	if rows[0].(map[string]any)["join_status"] != "Missing MTR" {
		t.Errorf("Expected flattened row, got %v", rows[0])
	}

	rr = httptest.NewRecorder()
	JoinedViewHandler(mock).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/joined?status=bogus", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid status, got %d", rr.Code)
	}
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

func TestHealthCheckHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"up", nil, http.StatusOK, "ok"},
		{"down", errors.New("connection refused"), http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheckHandler(mockPinger{err: tt.err}, "sqlite", time.Now()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Status != tt.want {
				t.Errorf("Expected status %q, got %q", tt.want, body.Status)
			}
		})
	}
}
