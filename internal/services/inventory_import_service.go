package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/db/repositories"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"
	"steel-ledger/mtrledger/internal/models/dtos"
	"steel-ledger/mtrledger/internal/models/gorm"
	"steel-ledger/mtrledger/internal/tabular"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// ImportRequest is one uploaded ledger file.
type ImportRequest struct {
	Data      []byte
	Filename  string
	Delimiter string
	HasHeader bool
}

// InventoryImportService replaces the inventory table with the contents of an upload.
type InventoryImportService struct {
	repo    *repositories.InventoryRepository
	reader  *tabular.Reader
	locker  common.WriteLocker
	metrics *metrics.MetricsRegistry
}

func NewInventoryImportService(db *gormlib.DB, reader *tabular.Reader, locker common.WriteLocker, metricsReg *metrics.MetricsRegistry) *InventoryImportService {
	return &InventoryImportService{
		repo:    repositories.NewInventoryRepository(db),
		reader:  reader,
		locker:  locker,
		metrics: metricsReg,
	}
}

// Import parses req, maps every row and swaps the table contents in one transaction.
// Nothing is written when parsing or mapping fails.
func (s *InventoryImportService) Import(ctx context.Context, req ImportRequest) (*dtos.ImportResult, error) {
	start := time.Now()

	filename := filepath.Base(strings.TrimSpace(req.Filename))
	if len(req.Data) == 0 || filename == "" || filename == "." {
		return nil, ErrNoFile
	}

	opts := tabular.Options{Delimiter: req.Delimiter, HasHeader: req.HasHeader}
	if opts.Delimiter == "" {
		opts.Delimiter = tabular.DefaultOptions().Delimiter
	}

	rows, err := s.reader.Read(req.Data, filename, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	batchID := uuid.NewString()
	log := logging.With("file", filename, "import_batch_id", batchID)
	log.Infow("Parsed inventory file", "rows", len(rows))

	records := make([]gorm.InventoryRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := MapInventoryRow(row, filename)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rec.ImportBatchID = batchID
		records = append(records, rec)
	}

	unlock, err := acquireWriteLock(ctx, s.locker)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.repo.ReplaceAll(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to replace inventory: %w", err)
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.InventoryRowsImported.Add(float64(len(records)))
		s.metrics.ImportDuration.Observe(duration.Seconds())
	}
	log.Infow("Inventory import complete",
		"imported", len(records),
		"duration_ms", duration.Milliseconds(),
	)

	return &dtos.ImportResult{
		ImportedCount: len(records),
		SourceFile:    filename,
		ImportBatchID: batchID,
	}, nil
}
