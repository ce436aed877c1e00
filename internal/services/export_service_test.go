package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportService_JoinedXLSX(t *testing.T) {
	db := setupTestDB(t)
	mtrSvc := newTestMtrService(db)
	ctx := context.Background()

	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1","grade":"A36"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	seedInventory(t, db, "H1", "H2")

	svc := NewExportService(NewJoinService(db, nil, nil, nil))
	data, err := svc.ExportJoinedXLSX(ctx, JoinFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(joinedSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}

	panes, err := f.GetPanes(joinedSheet)
	if err != nil {
		t.Fatalf("GetPanes: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("Expected frozen header row, got %+v", panes)
	}

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("Expected column %s in header", name)
		return -1
	}

	statusCol, gradeCol := col("join_status"), col("mtr_grade")
	if rows[1][statusCol] != "Matched" || rows[1][gradeCol] != "A36" {
		t.Errorf("Expected matched row with grade A36, got %v", rows[1])
	}
	if rows[2][statusCol] != "Missing MTR" {
		t.Errorf("Expected Missing MTR, got %v", rows[2][statusCol])
	}
	if len(rows[2]) > gradeCol && rows[2][gradeCol] != "" {
		t.Errorf("Expected empty MTR cells on missing row, got %q", rows[2][gradeCol])
	}
}
