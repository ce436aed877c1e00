package repositories

import (
	"context"
	"errors"

	"steel-ledger/mtrledger/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// MtrRepository handles mtr_data table operations
type MtrRepository struct {
	db *gormlib.DB
}

// NewMtrRepository creates a new MTR repository
func NewMtrRepository(db *gormlib.DB) *MtrRepository {
	return &MtrRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *MtrRepository) WithTx(tx *gormlib.DB) *MtrRepository {
	return &MtrRepository{db: tx}
}

// Transaction runs fn inside one database transaction
func (r *MtrRepository) Transaction(ctx context.Context, fn func(repo *MtrRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		return fn(r.WithTx(tx))
	})
}

// FindByKey looks up the certificate for a heat/batch pair. Returns nil when absent.
func (r *MtrRepository) FindByKey(ctx context.Context, heatNumber, batchNumber string) (*gorm.MtrRecord, error) {
	var rec gorm.MtrRecord

	err := r.db.WithContext(ctx).
		Where("heat_number = ? AND batch_number = ?", heatNumber, batchNumber).
		Take(&rec).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rec, nil
}

// Create inserts a new certificate
func (r *MtrRepository) Create(ctx context.Context, rec *gorm.MtrRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Replace overwrites every column of an existing certificate, including clearing
// fields that are nil on rec.
func (r *MtrRepository) Replace(ctx context.Context, rec *gorm.MtrRecord) error {
	return r.db.WithContext(ctx).
		Model(&gorm.MtrRecord{ID: rec.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(rec).Error
}

// ListAll returns every certificate, newest id first
func (r *MtrRepository) ListAll(ctx context.Context) ([]gorm.MtrRecord, error) {
	var recs []gorm.MtrRecord
	err := r.db.WithContext(ctx).Order("id DESC").Find(&recs).Error
	return recs, err
}

// ListByHeat returns the certificates for one heat, latest upload first
func (r *MtrRepository) ListByHeat(ctx context.Context, heatNumber string) ([]gorm.MtrRecord, error) {
	var recs []gorm.MtrRecord
	err := r.db.WithContext(ctx).
		Where("heat_number = ?", heatNumber).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&recs).Error
	return recs, err
}

// Delete removes a certificate by id and reports whether it existed
func (r *MtrRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&gorm.MtrRecord{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
