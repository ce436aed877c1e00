package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/db/repositories"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"
	"steel-ledger/mtrledger/internal/models/dtos"
	"steel-ledger/mtrledger/internal/models/gorm"

	"github.com/go-playground/validator/v10"
	gormlib "gorm.io/gorm"
)

// MtrService creates or fully replaces certificates keyed by (heat_number, batch_number).
type MtrService struct {
	repo     *repositories.MtrRepository
	locker   common.WriteLocker
	validate *validator.Validate
	metrics  *metrics.MetricsRegistry
	clock    func() time.Time
}

func NewMtrService(db *gormlib.DB, locker common.WriteLocker, metricsReg *metrics.MetricsRegistry) *MtrService {
	return &MtrService{
		repo:     repositories.NewMtrRepository(db),
		locker:   locker,
		validate: validator.New(),
		metrics:  metricsReg,
		clock:    time.Now,
	}
}

// WithClock replaces the time source used for uploaded_at.
func (s *MtrService) WithClock(clock func() time.Time) *MtrService {
	s.clock = clock
	return s
}

// UpsertRaw decodes a JSON object and upserts it.
func (s *MtrService) UpsertRaw(ctx context.Context, body []byte) (*dtos.UpsertResult, error) {
	v, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrPayloadNotMapping, err)
	}
	return s.UpsertValue(ctx, v)
}

// UpsertValue upserts an already decoded JSON value, which must be an object.
func (s *MtrService) UpsertValue(ctx context.Context, v any) (*dtos.UpsertResult, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrPayloadNotMapping
	}
	return s.Upsert(ctx, dtos.MtrPayloadFromMap(m))
}

// Upsert writes payload under its key. An existing certificate is overwritten field by
// field, including clearing fields the payload leaves empty.
func (s *MtrService) Upsert(ctx context.Context, payload dtos.MtrPayload) (*dtos.UpsertResult, error) {
	payload.HeatNumber = strings.TrimSpace(payload.HeatNumber)
	payload.BatchNumber = strings.TrimSpace(payload.BatchNumber)

	if err := s.validate.StructCtx(ctx, payload); err != nil {
		logging.Debug("MTR payload rejected", "fields", validationSummary(err))
		return nil, ErrMissingKeys
	}

	unlock, err := acquireWriteLock(ctx, s.locker)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec := recordFromPayload(payload, s.clock())
	var op constants.UpsertOp

	err = s.repo.Transaction(ctx, func(repo *repositories.MtrRepository) error {
		existing, err := repo.FindByKey(ctx, rec.HeatNumber, rec.BatchNumber)
		if err != nil {
			return fmt.Errorf("failed to look up MTR: %w", err)
		}

		if existing != nil {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			op = constants.UpsertUpdated
			if err := repo.Replace(ctx, &rec); err != nil {
				return fmt.Errorf("failed to update MTR: %w", err)
			}
			return nil
		}

		op = constants.UpsertCreated
		if err := repo.Create(ctx, &rec); err != nil {
			return fmt.Errorf("failed to create MTR: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MtrUpsertsTotal.WithLabelValues(string(op)).Inc()
	}
	logging.Info("MTR upserted",
		"id", rec.ID,
		"heat_number", rec.HeatNumber,
		"batch_number", rec.BatchNumber,
		"operation", op,
	)

	return &dtos.UpsertResult{ID: rec.ID, Operation: string(op)}, nil
}

// BatchUpsertRaw upserts every element of a JSON array in order. Elements that fail
// validation are reported per item; any other failure aborts the remaining items.
func (s *MtrService) BatchUpsertRaw(ctx context.Context, body []byte) (*dtos.BatchUpsertResult, error) {
	v, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrPayloadNotList, err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, ErrPayloadNotList
	}

	result := &dtos.BatchUpsertResult{Items: make([]dtos.BatchUpsertItem, 0, len(items))}
	for i, item := range items {
		res, err := s.UpsertValue(ctx, item)
		if err != nil {
			if !IsValidation(err) {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			result.Failed++
			result.Items = append(result.Items, dtos.BatchUpsertItem{Index: i, Error: err.Error()})
			continue
		}

		switch constants.UpsertOp(res.Operation) {
		case constants.UpsertCreated:
			result.Created++
		case constants.UpsertUpdated:
			result.Updated++
		}
		result.Items = append(result.Items, dtos.BatchUpsertItem{Index: i, Result: res})
	}

	return result, nil
}

// ListByHeat returns the certificates for a heat, latest upload first. An empty heat
// lists everything.
func (s *MtrService) ListByHeat(ctx context.Context, heatNumber string) ([]gorm.MtrRecord, error) {
	heatNumber = strings.TrimSpace(heatNumber)
	if heatNumber == "" {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByHeat(ctx, heatNumber)
}

func (s *MtrService) Delete(ctx context.Context, id uint) error {
	unlock, err := acquireWriteLock(ctx, s.locker)
	if err != nil {
		return err
	}
	defer unlock()

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete MTR: %w", err)
	}
	if !found {
		return ErrMtrNotFound
	}

	logging.Info("MTR deleted", "id", id)
	return nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the JSON value")
	}
	return v, nil
}

func recordFromPayload(p dtos.MtrPayload, uploadedAt time.Time) gorm.MtrRecord {
	return gorm.MtrRecord{
		HeatNumber:        p.HeatNumber,
		BatchNumber:       p.BatchNumber,
		Grade:             p.Grade,
		Manufacturer:      p.Manufacturer,
		CertificateNumber: p.CertificateNumber,
		CertificateDate:   p.CertificateDate,

		CElement:  p.C,
		MnElement: p.Mn,
		SiElement: p.Si,
		PElement:  p.P,
		SElement:  p.S,
		CuElement: p.Cu,
		NiElement: p.Ni,
		CrElement: p.Cr,
		MoElement: p.Mo,
		NElement:  p.N,

		YieldStrength:   p.YieldStrength,
		TensileStrength: p.TensileStrength,
		Elongation:      p.Elongation,
		ReductionArea:   p.ReductionArea,
		Hardness:        p.Hardness,

		ImpactTestTemp:   p.ImpactTestTemp,
		ImpactCouponSize: p.ImpactCouponSize,
		ImpactSpecimen1:  p.ImpactSpecimen1,
		ImpactSpecimen2:  p.ImpactSpecimen2,
		ImpactSpecimen3:  p.ImpactSpecimen3,
		ImpactAverage:    p.ImpactAverage,

		CountryOfMelt:        p.CountryOfMelt,
		CountryOfManufacture: p.CountryOfManufacture,
		SourceFile:           p.SourceFile,

		UploadedAt: uploadedAt,
	}
}
