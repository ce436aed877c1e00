package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/db/repositories"
	gormModels "steel-ledger/mtrledger/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

func newTestStatsRepo(t *testing.T, db *gorm.DB) *repositories.StatsRepo {
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	return repositories.NewStatsRepo(sqlx.NewDb(sqlDB, "sqlite3"))
}

func seedInventory(t *testing.T, db *gorm.DB, heats ...string) {
	recs := make([]gormModels.InventoryRecord, 0, len(heats))
	for _, h := range heats {
		rec := gormModels.InventoryRecord{ImportBatchID: "seed", RawRowData: "{}"}
		if h != "" {
			heat := h
			rec.HeatNumber = &heat
		}
		recs = append(recs, rec)
	}
	if err := db.Create(&recs).Error; err != nil {
		t.Fatalf("Failed to seed inventory: %v", err)
	}
}

func TestLatestByHeat_Ranking(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	mtrs := []gormModels.MtrRecord{
		{ID: 1, HeatNumber: "H1", BatchNumber: "old", UploadedAt: t1},
		{ID: 2, HeatNumber: "H1", BatchNumber: "new", UploadedAt: t2},
		{ID: 3, HeatNumber: "H2", BatchNumber: "low-id", UploadedAt: t1},
		{ID: 4, HeatNumber: "H2", BatchNumber: "high-id", UploadedAt: t1},
		{ID: 9, HeatNumber: "H3", BatchNumber: "no-time"},
		{ID: 5, HeatNumber: "H3", BatchNumber: "timed", UploadedAt: t1},
	}

	latest := LatestByHeat(mtrs)

	cases := map[string]string{"H1": "new", "H2": "high-id", "H3": "timed"}
	for heat, want := range cases {
		if got := latest[heat]; got == nil || got.BatchNumber != want {
			t.Errorf("Heat %s: expected %s, got %v", heat, want, got)
		}
	}
}

func TestJoinService_LatestMatchAndMissing(t *testing.T) {
	db := setupTestDB(t)
	mtrSvc := newTestMtrService(db)
	ctx := context.Background()

	// clock advances one hour per call, so B2 is newer
	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1","grade":"T1"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B2","grade":"T2"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	seedInventory(t, db, "H1", "H404", "")

	svc := NewJoinService(db, newTestStatsRepo(t, db), common.NewJoinCache(time.Minute), nil)
	rows, err := svc.Resolve(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected one row per inventory line, got %d", len(rows))
	}

	matched := rows[0]
	if matched.JoinStatus != string(constants.JoinStatusMatched) {
		t.Errorf("Expected Matched, got %s", matched.JoinStatus)
	}
	if matched.Mtr == nil || matched.Mtr.Grade == nil || *matched.Mtr.Grade != "T2" {
		t.Errorf("Expected latest certificate T2, got %+v", matched.Mtr)
	}

	for _, r := range rows[1:] {
		if r.JoinStatus != string(constants.JoinStatusMissingMTR) || r.Mtr != nil {
			t.Errorf("Expected Missing MTR without certificate, got %s %+v", r.JoinStatus, r.Mtr)
		}
	}

	raw, err := json.Marshal(rows[1])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), `"mtr_`) {
		t.Errorf("Expected no mtr_ attributes on a missing row, got %s", raw)
	}
	if !strings.Contains(string(raw), `"inv_heat_number":"H404"`) {
		t.Errorf("Expected prefixed inventory attributes, got %s", raw)
	}

	raw, _ = json.Marshal(matched)
	if !strings.Contains(string(raw), `"mtr_grade":"T2"`) || !strings.Contains(string(raw), `"join_status":"Matched"`) {
		t.Errorf("Expected mtr_ attributes on a matched row, got %s", raw)
	}
}

func TestJoinService_CacheFollowsWrites(t *testing.T) {
	db := setupTestDB(t)
	mtrSvc := newTestMtrService(db)
	ctx := context.Background()
	seedInventory(t, db, "H1")

	svc := NewJoinService(db, newTestStatsRepo(t, db), common.NewJoinCache(time.Hour), nil)

	rows, err := svc.Resolve(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rows[0].JoinStatus != string(constants.JoinStatusMissingMTR) {
		t.Fatalf("Expected Missing MTR before upsert, got %s", rows[0].JoinStatus)
	}

	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1","grade":"A"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	rows, _ = svc.Resolve(ctx)
	if rows[0].JoinStatus != string(constants.JoinStatusMatched) {
		t.Errorf("Expected Matched after upsert, got %s", rows[0].JoinStatus)
	}

	// an update keeps count and max id but moves uploaded_at
	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1","grade":"B"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	rows, _ = svc.Resolve(ctx)
	if rows[0].Mtr == nil || *rows[0].Mtr.Grade != "B" {
		t.Errorf("Expected updated grade B, got %+v", rows[0].Mtr)
	}
}

func TestJoinService_QueryFilters(t *testing.T) {
	db := setupTestDB(t)
	mtrSvc := newTestMtrService(db)
	ctx := context.Background()

	if _, err := mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	seedInventory(t, db, "H1", "H1", "H2")

	svc := NewJoinService(db, nil, nil, nil)

	rows, err := svc.Query(ctx, JoinFilter{Status: "Missing MTR"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 missing row, got %d", len(rows))
	}

	rows, _ = svc.Query(ctx, JoinFilter{HeatNumber: "H1"})
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows for H1, got %d", len(rows))
	}

	if _, err := svc.Query(ctx, JoinFilter{Status: "bogus"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestJoinService_Stats(t *testing.T) {
	db := setupTestDB(t)
	mtrSvc := newTestMtrService(db)
	ctx := context.Background()

	mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B1"}`))
	mtrSvc.UpsertRaw(ctx, []byte(`{"heat_number":"H1","batch_number":"B2"}`))
	seedInventory(t, db, "H1", "H2", "H3")

	svc := NewJoinService(db, newTestStatsRepo(t, db), common.NewJoinCache(0), nil)
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if stats.MtrCount != 2 || stats.MtrHeatCount != 1 || stats.InventoryCount != 3 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.Matched != 1 || stats.MissingMTR != 2 {
		t.Errorf("Expected 1 matched and 2 missing, got %+v", stats)
	}
}
