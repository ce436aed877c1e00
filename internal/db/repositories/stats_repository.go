package repositories

import (
	"context"
	"fmt"

	"steel-ledger/mtrledger/internal/constants"

	"github.com/jmoiron/sqlx"
)

type StatsRepo struct {
	db *sqlx.DB
}

func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db}
}

type dataFingerprint struct {
	MtrCount       int64  `db:"mtr_count"`
	MtrMaxID       int64  `db:"mtr_max_id"`
	MtrLastUpload  string `db:"mtr_last_upload"`
	InventoryCount int64  `db:"inventory_count"`
	InventoryMaxID int64  `db:"inventory_max_id"`
	ImportBatchID  string `db:"import_batch_id"`
}

// TableCounts is a cheap summary of both tables
type TableCounts struct {
	MtrCount       int64  `db:"mtr_count"`
	MtrHeatCount   int64  `db:"mtr_heat_count"`
	InventoryCount int64  `db:"inventory_count"`
	SourceFile     string `db:"source_file"`
}

// Fingerprint returns a string that changes whenever either table is written.
func (r *StatsRepo) Fingerprint(ctx context.Context) (string, error) {
	var fp dataFingerprint
	if err := r.db.GetContext(ctx, &fp, constants.DataFingerprint); err != nil {
		return "", err
	}
	return fmt.Sprintf("m%d.%d.%s|i%d.%d.%s",
		fp.MtrCount, fp.MtrMaxID, fp.MtrLastUpload,
		fp.InventoryCount, fp.InventoryMaxID, fp.ImportBatchID), nil
}

func (r *StatsRepo) Counts(ctx context.Context) (*TableCounts, error) {
	var counts TableCounts
	if err := r.db.GetContext(ctx, &counts, constants.TableCounts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// Ping checks the connection
func (r *StatsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
