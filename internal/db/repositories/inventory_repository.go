package repositories

import (
	"context"
	"fmt"

	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// InventoryRepository handles inventory table operations
type InventoryRepository struct {
	db *gormlib.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gormlib.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ReplaceAll swaps the whole table for records in a single transaction. Readers see
// either the previous snapshot or the new one, never an empty table.
func (r *InventoryRepository) ReplaceAll(ctx context.Context, records []gorm.InventoryRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Where("1 = 1").Delete(&gorm.InventoryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete existing inventory: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		batch, err := insertBatchSize(tx, &gorm.InventoryRecord{})
		if err != nil {
			return err
		}
		if err := tx.CreateInBatches(records, batch).Error; err != nil {
			return fmt.Errorf("failed to insert inventory: %w", err)
		}
		return nil
	})
}

// ListAll returns every inventory line in insertion order
func (r *InventoryRepository) ListAll(ctx context.Context) ([]gorm.InventoryRecord, error) {
	var recs []gorm.InventoryRecord
	err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error
	return recs, err
}

// insertBatchSize keeps one multi-row INSERT under the driver's bound-parameter limit.
func insertBatchSize(db *gormlib.DB, model any) (int, error) {
	stmt := &gormlib.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return 0, fmt.Errorf("failed to parse %T schema: %w", model, err)
	}
	return batchRows(len(stmt.Schema.DBNames)), nil
}

func batchRows(columns int) int {
	if columns <= 0 {
		return constants.InventoryInsertBatchSize
	}
	return max(1, min(constants.InventoryInsertBatchSize, constants.MaxSQLVariables/columns))
}
