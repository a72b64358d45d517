package reports

import (
	"context"
	"errors"
	"time"

	"asset-register/internal/domain"
	"asset-register/internal/observability/metrics"

	"gorm.io/gorm"
)

var ErrStationNotFound = errors.New("Station not found")

// Service loads station assets and runs them through the aggregator.
type Service struct {
	DB       *gorm.DB
	Currency string
	Title    string
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return DefaultCurrency
	}
	return s.Currency
}

// StationReport builds the report for one station from the database. Every outcome, including
// an unknown station, is recorded in the report metrics.
func (s *Service) StationReport(ctx context.Context, stationID uint) (_ *StationReport, err error) {
	start := time.Now()
	defer func() { metrics.ObserveReport(metrics.ReportSourceDatabase, start, err) }()

	var station domain.Station
	if err := s.DB.WithContext(ctx).Where("id = ?", stationID).First(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	assets, err := s.stationAssets(ctx, stationID)
	if err != nil {
		return nil, err
	}
	agg := AggregateForStation(FromDomain(assets), UintID(stationID))
	report := NewStationReport(StationInfoFromDomain(station), agg, s.currency(), s.now())
	return &report, nil
}

// SnapshotReport aggregates a client-held asset listing without touching the database.
func (s *Service) SnapshotReport(assets []Asset, stationID ID, stationName string) StationReport {
	start := time.Now()
	agg := AggregateForStation(assets, stationID)
	report := NewStationReport(StationInfo{ID: stationID, Name: stationName}, agg, s.currency(), s.now())
	metrics.ObserveReport(metrics.ReportSourceSnapshot, start, nil)
	return report
}

func (s *Service) stationAssets(ctx context.Context, stationID uint) ([]domain.Asset, error) {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	assetIDs := s.DB.Model(&domain.Assignment{}).Select("asset_id").Where("station_id = ?", stationID)

	var assets []domain.Asset
	err := s.DB.WithContext(ctx).
		Where("id IN (?)", assetIDs).
		Preload("Assignments", byID).
		Preload("Assignments.BatchAllocations", byID).
		Preload("Assignments.BatchAllocations.Batch").
		Order("id").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}
