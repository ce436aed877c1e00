package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"steel-ledger/mtrledger/internal/common"
	gormModels "steel-ledger/mtrledger/internal/models/gorm"
	"steel-ledger/mtrledger/internal/tabular"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newTestImportService(db *gorm.DB) *InventoryImportService {
	return NewInventoryImportService(db, tabular.NewReader(), common.NewLocalWriteLocker(time.Second), nil)
}

func countInventory(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&gormModels.InventoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count inventory: %v", err)
	}
	return count
}

func TestInventoryImport_ReplacesTable(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestImportService(db)
	ctx := context.Background()

	fileA := "Heat No,Item No\nA1,I1\nA2,I2\nA3,I3\n"
	res, err := svc.Import(ctx, ImportRequest{Data: []byte(fileA), Filename: "a.csv", HasHeader: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.ImportedCount != 3 {
		t.Errorf("Expected 3 imported, got %d", res.ImportedCount)
	}

	fileB := "Heat No;Item No\nB1;I1\n;\nB2;I2\n"
	res, err = svc.Import(ctx, ImportRequest{Data: []byte(fileB), Filename: "b.csv", Delimiter: ";", HasHeader: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.ImportedCount != 2 {
		t.Errorf("Expected 2 imported, got %d", res.ImportedCount)
	}
	if res.SourceFile != "b.csv" || res.ImportBatchID == "" {
		t.Errorf("Expected source file and batch id, got %+v", res)
	}

	var recs []gormModels.InventoryRecord
	db.Order("id").Find(&recs)
	if len(recs) != 2 {
		t.Fatalf("Expected exactly 2 inventory records, got %d", len(recs))
	}
	for _, r := range recs {
		if r.SourceFile == nil || *r.SourceFile != "b.csv" {
			t.Errorf("Expected only rows from b.csv, got %v", r.SourceFile)
		}
		if r.ImportBatchID != res.ImportBatchID {
			t.Errorf("Expected batch id %s, got %s", res.ImportBatchID, r.ImportBatchID)
		}
	}
}

func TestInventoryImport_ValidationLeavesTableUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestImportService(db)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportRequest{Data: []byte("Heat No\nH1\n"), Filename: "seed.csv", HasHeader: true}); err != nil {
		t.Fatalf("Expected seed import to succeed, got %v", err)
	}

	cases := []struct {
		name string
		req  ImportRequest
		want error
	}{
		{"no data", ImportRequest{Filename: "x.csv"}, ErrNoFile},
		{"no filename", ImportRequest{Data: []byte("a\n1\n")}, ErrNoFile},
		{"header only", ImportRequest{Data: []byte("a,b\n,\n"), Filename: "x.csv", HasHeader: true}, ErrNoRows},
		{"unsupported", ImportRequest{Data: []byte("a"), Filename: "x.json"}, tabular.ErrUnsupportedFormat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Import(ctx, c.req)
			if !errors.Is(err, c.want) {
				t.Errorf("Expected %v, got %v", c.want, err)
			}
			if !IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}

	if count := countInventory(t, db); count != 1 {
		t.Errorf("Expected seeded row to survive failed imports, got %d rows", count)
	}
}

func TestInventoryImport_XLSX(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestImportService(db)

	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetCellValue("Sheet1", "A1", "Heat No")
	_ = f.SetCellValue("Sheet1", "B1", "Posting Date")
	_ = f.SetCellValue("Sheet1", "A2", "H9")
	_ = f.SetCellValue("Sheet1", "B2", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res, err := svc.Import(context.Background(), ImportRequest{Data: buf.Bytes(), Filename: "ledger.xlsx", HasHeader: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.ImportedCount != 1 {
		t.Fatalf("Expected 1 imported, got %d", res.ImportedCount)
	}

	var rec gormModels.InventoryRecord
	db.First(&rec)
	if rec.PostingDate == nil || rec.PostingDate.Format("2006-01-02") != "2024-05-06" {
		t.Errorf("Expected posting_date 2024-05-06, got %v", rec.PostingDate)
	}
}

func TestInventoryImport_WriteBusy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryImportService(db, tabular.NewReader(), busyLocker{}, nil)

	_, err := svc.Import(context.Background(), ImportRequest{Data: []byte("Heat No\nH1\n"), Filename: "a.csv", HasHeader: true})
	if !errors.Is(err, ErrWriteBusy) {
		t.Errorf("Expected ErrWriteBusy, got %v", err)
	}
}

func TestInventoryImport_ManyBatches(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestImportService(db)

	const rows = 1000
	var b strings.Builder
	b.WriteString("Heat No,Item No,Quantity,Date\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "H%d,I%d,%d,2024-01-15\n", i%37, i, i)
	}

	res, err := svc.Import(context.Background(), ImportRequest{Data: []byte(b.String()), Filename: "big.csv", HasHeader: true})
	if err != nil {
		t.Fatalf("Expected %d-row import to succeed, got %v", rows, err)
	}
	if res.ImportedCount != rows {
		t.Errorf("Expected %d imported, got %d", rows, res.ImportedCount)
	}
	if count := countInventory(t, db); count != rows {
		t.Errorf("Expected %d stored rows, got %d", rows, count)
	}
}
