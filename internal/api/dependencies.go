package api

import (
	"context"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/config"
	"steel-ledger/mtrledger/internal/db/repositories"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"
	"steel-ledger/mtrledger/internal/models/dtos"
	gormModels "steel-ledger/mtrledger/internal/models/gorm"
	"steel-ledger/mtrledger/internal/services"
	"steel-ledger/mtrledger/internal/tabular"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// MtrStore is the MTR surface the handlers need
type MtrStore interface {
	UpsertRaw(ctx context.Context, body []byte) (*dtos.UpsertResult, error)
	BatchUpsertRaw(ctx context.Context, body []byte) (*dtos.BatchUpsertResult, error)
	ListByHeat(ctx context.Context, heatNumber string) ([]gormModels.MtrRecord, error)
	Delete(ctx context.Context, id uint) error
}

type InventoryImporter interface {
	Import(ctx context.Context, req services.ImportRequest) (*dtos.ImportResult, error)
}

type JoinedViewer interface {
	Query(ctx context.Context, filter services.JoinFilter) ([]dtos.JoinedRow, error)
	Stats(ctx context.Context) (*dtos.StatsResponse, error)
}

type JoinedExporter interface {
	ExportJoinedXLSX(ctx context.Context, filter services.JoinFilter) ([]byte, error)
}

// Repositories are the read-side handles the router uses directly. Write paths go through services.
type Repositories struct {
	Stats *repositories.StatsRepo
}

type Services struct {
	Mtr    *services.MtrService
	Import *services.InventoryImportService
	Join   *services.JoinService
	Export *services.ExportService
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies builds every repository and service once. With Redis configured the
// write lock is shared across instances; otherwise it only covers this process.
func InitDependencies(cfg *config.Config, orm *gorm.DB, sqlDB *sqlx.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Stats: repositories.NewStatsRepo(sqlDB),
	}

	var locker common.WriteLocker
	if cfg.RedisEnabled() {
		locker = common.NewRedisWriteLocker(common.NewRedisClient(cfg))
		logging.Info("Write lock backed by Redis", "addr", cfg.RedisAddr())
	} else {
		locker = common.NewLocalWriteLocker(30 * time.Second)
		logging.Info("Write lock is process-local (REDIS_HOST not set)")
	}

	joinSvc := services.NewJoinService(orm, repos.Stats, common.NewJoinCache(cfg.JoinCacheTTL()), metricsReg)

	svcs := &Services{
		Mtr:    services.NewMtrService(orm, locker, metricsReg),
		Import: services.NewInventoryImportService(orm, tabular.NewReader(), locker, metricsReg),
		Join:   joinSvc,
		Export: services.NewExportService(joinSvc),
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
