package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/db/repositories"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"
	"steel-ledger/mtrledger/internal/models/dtos"
	"steel-ledger/mtrledger/internal/models/gorm"

	"golang.org/x/sync/errgroup"
	gormlib "gorm.io/gorm"
)

// JoinFilter narrows a joined view. Empty fields match everything.
type JoinFilter struct {
	Status     string
	HeatNumber string
}

func (f JoinFilter) validate() error {
	switch constants.JoinStatus(f.Status) {
	case "", constants.JoinStatusMatched, constants.JoinStatusMissingMTR:
		return nil
	}
	return ErrInvalidStatus
}

func (f JoinFilter) match(row dtos.JoinedRow) bool {
	if f.Status != "" && row.JoinStatus != f.Status {
		return false
	}
	if f.HeatNumber != "" {
		if row.Inventory == nil || row.Inventory.HeatNumber == nil || *row.Inventory.HeatNumber != f.HeatNumber {
			return false
		}
	}
	return true
}

// JoinService correlates every inventory line with the latest certificate for its heat.
// It only reads and never takes the write lock.
type JoinService struct {
	mtrRepo *repositories.MtrRepository
	invRepo *repositories.InventoryRepository
	stats   *repositories.StatsRepo
	cache   *common.JoinCache
	metrics *metrics.MetricsRegistry
}

// NewJoinService wires the resolver. stats and cache may be nil, which disables caching.
func NewJoinService(db *gormlib.DB, stats *repositories.StatsRepo, cache *common.JoinCache, metricsReg *metrics.MetricsRegistry) *JoinService {
	return &JoinService{
		mtrRepo: repositories.NewMtrRepository(db),
		invRepo: repositories.NewInventoryRepository(db),
		stats:   stats,
		cache:   cache,
		metrics: metricsReg,
	}
}

// LatestByHeat picks one certificate per heat: newest uploaded_at first, records with no
// upload time last, higher id on ties.
func LatestByHeat(mtrs []gorm.MtrRecord) map[string]*gorm.MtrRecord {
	latest := make(map[string]*gorm.MtrRecord, len(mtrs))
	for i := range mtrs {
		m := &mtrs[i]
		if cur, ok := latest[m.HeatNumber]; !ok || ranksBefore(m, cur) {
			latest[m.HeatNumber] = m
		}
	}
	return latest
}

func ranksBefore(a, b *gorm.MtrRecord) bool {
	switch {
	case a.UploadedAt.IsZero() != b.UploadedAt.IsZero():
		return b.UploadedAt.IsZero()
	case !a.UploadedAt.Equal(b.UploadedAt):
		return a.UploadedAt.After(b.UploadedAt)
	default:
		return a.ID > b.ID
	}
}

// Join emits one row per inventory line, in input order. Lines without a heat number
// never match.
func Join(inventory []gorm.InventoryRecord, latest map[string]*gorm.MtrRecord) []dtos.JoinedRow {
	rows := make([]dtos.JoinedRow, 0, len(inventory))
	for i := range inventory {
		inv := &inventory[i]
		row := dtos.JoinedRow{
			ID:         inv.ID,
			JoinStatus: string(constants.JoinStatusMissingMTR),
			Inventory:  inv,
		}
		if inv.HeatNumber != nil && *inv.HeatNumber != "" {
			if m, ok := latest[*inv.HeatNumber]; ok {
				row.Mtr = m
				row.JoinStatus = string(constants.JoinStatusMatched)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Resolve returns the full joined view. A cached view is served only when the
// tables' fingerprint is unchanged since it was built.
func (s *JoinService) Resolve(ctx context.Context) ([]dtos.JoinedRow, error) {
	if s.stats == nil || !s.cache.Enabled() {
		return s.compute(ctx)
	}

	before, err := s.stats.Fingerprint(ctx)
	if err != nil {
		logging.Warn("Fingerprint query failed, bypassing joined view cache", "error", err)
		return s.compute(ctx)
	}

	if rows, found := s.cache.Get(before); found {
		s.recordCache(true)
		return rows, nil
	}
	s.recordCache(false)

	rows, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	// a write landed while computing; the result belongs to neither fingerprint
	after, err := s.stats.Fingerprint(ctx)
	if err == nil && after == before {
		// older fingerprints can never be served again
		s.cache.Flush()
		s.cache.Set(before, rows)
	}

	return rows, nil
}

// Query resolves the view and applies filter.
func (s *JoinService) Query(ctx context.Context, filter JoinFilter) ([]dtos.JoinedRow, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.HeatNumber = strings.TrimSpace(filter.HeatNumber)
	if err := filter.validate(); err != nil {
		return nil, err
	}

	rows, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if filter == (JoinFilter{}) {
		return rows, nil
	}

	out := make([]dtos.JoinedRow, 0, len(rows))
	for _, row := range rows {
		if filter.match(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Stats summarizes both tables and the current join.
func (s *JoinService) Stats(ctx context.Context) (*dtos.StatsResponse, error) {
	resp := &dtos.StatsResponse{}

	if s.stats != nil {
		counts, err := s.stats.Counts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count tables: %w", err)
		}
		resp.MtrCount = counts.MtrCount
		resp.MtrHeatCount = counts.MtrHeatCount
		resp.InventoryCount = counts.InventoryCount
		resp.SourceFile = counts.SourceFile
	}

	rows, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Mtr != nil {
			resp.Matched++
		} else {
			resp.MissingMTR++
		}
	}
	return resp, nil
}

func (s *JoinService) compute(ctx context.Context) ([]dtos.JoinedRow, error) {
	start := time.Now()

	var (
		mtrs      []gorm.MtrRecord
		inventory []gorm.InventoryRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mtrs, err = s.mtrRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load MTR records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		inventory, err = s.invRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := Join(inventory, LatestByHeat(mtrs))

	if s.metrics != nil {
		matched := 0
		for _, r := range rows {
			if r.Mtr != nil {
				matched++
			}
		}
		s.metrics.JoinResolveDuration.Observe(time.Since(start).Seconds())
		s.metrics.JoinedRows.WithLabelValues(string(constants.JoinStatusMatched)).Set(float64(matched))
		s.metrics.JoinedRows.WithLabelValues(string(constants.JoinStatusMissingMTR)).Set(float64(len(rows) - matched))
	}
	logging.Debug("Joined view computed",
		"mtr_records", len(mtrs),
		"inventory_rows", len(inventory),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return rows, nil
}

func (s *JoinService) recordCache(hit bool) {
	if s.metrics == nil {
		return
	}
	pattern := string(constants.CachePrefixJoinedView)
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}
