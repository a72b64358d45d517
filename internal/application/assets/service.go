package assets

import (
	"context"
	"errors"
	"strings"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"

	"gorm.io/gorm"
)

var (
	ErrAssetNotFound    = errors.New("Asset not found")
	ErrAssetNumberTaken = errors.New("Asset number already exists")
)

// Service handles the asset catalogue.
type Service struct {
	DB *gorm.DB
}

type Input struct {
	Name        string  `json:"name" validate:"notblank,max=160"`
	AssetNumber string  `json:"asset_number" validate:"notblank,max=60"`
	Category    *string `json:"category" validate:"omitempty,max=80"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ListFilter narrows List. StationID keeps only assets with an assignment at that station.
type ListFilter struct {
	StationID *uint
	Search    string
}

func withTree(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.
		Preload("Batches", byID).
		Preload("Assignments", byID).
		Preload("Assignments.Station").
		Preload("Assignments.Employee").
		Preload("Assignments.BatchAllocations", byID).
		Preload("Assignments.BatchAllocations.Batch")
}

// List returns assets with batches and assignments preloaded, the shape report snapshots consume.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Asset, error) {
	db := s.DB.WithContext(ctx)
	q := withTree(db).Order("id")
	if f.StationID != nil {
		sub := s.DB.Model(&domain.Assignment{}).Select("asset_id").Where("station_id = ?", *f.StationID)
		q = q.Where("id IN (?)", sub)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(asset_number) LIKE ?", like, like)
	}
	var out []domain.Asset
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one asset with its full tree.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Asset, error) {
	var a domain.Asset
	if err := withTree(s.DB.WithContext(ctx)).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create registers a new asset. Asset numbers are unique.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Asset, error) {
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := numberFree(db, in.AssetNumber, 0); err != nil {
		return nil, err
	}
	a := &domain.Asset{Name: in.Name, AssetNumber: in.AssetNumber, Category: in.Category, Description: in.Description}
	if err := db.Create(a).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, a.ID)
}

// Update replaces the asset's descriptive fields.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*domain.Asset, error) {
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	var a domain.Asset
	if err := db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	if err := numberFree(db, in.AssetNumber, id); err != nil {
		return nil, err
	}
	err := db.Model(&a).Select("name", "asset_number", "category", "description").Updates(domain.Asset{
		Name: in.Name, AssetNumber: in.AssetNumber, Category: in.Category, Description: in.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the asset together with its assignments, their allocations and its batches.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Asset
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		assignmentIDs := tx.Model(&domain.Assignment{}).Select("id").Where("asset_id = ?", id)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&domain.BatchAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&domain.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&domain.Batch{}).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
}

func numberFree(db *gorm.DB, number string, exceptID uint) error {
	q := db.Model(&domain.Asset{}).Where("asset_number = ?", number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAssetNumberTaken
	}
	return nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.AssetNumber = strings.TrimSpace(in.AssetNumber)
	in.Category = trimmedOrNil(in.Category)
	in.Description = trimmedOrNil(in.Description)
	return in
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
