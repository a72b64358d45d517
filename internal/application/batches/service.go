package batches

import (
	"context"
	"errors"
	"strings"
	"time"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBatchNotFound       = errors.New("Batch not found")
	ErrAssetNotFound       = errors.New("Asset not found")
	ErrQuantityBelowInUse  = errors.New("Quantity cannot be lower than the number of allocated units")
	ErrBatchHasAllocations = errors.New("Batch still has allocated units")
)

const dateLayout = "2006-01-02"

// Service handles purchase batches of an asset.
type Service struct {
	DB *gorm.DB
}

type Input struct {
	Name          string          `json:"name" validate:"notblank,max=120"`
	PurchaseDate  *string         `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Quantity      int             `json:"quantity" validate:"min=1"`
	Supplier      *string         `json:"supplier" validate:"omitempty,max=160"`
}

// BatchWithUsage is a batch plus how many of its units are allocated to assignments.
type BatchWithUsage struct {
	domain.Batch
	Allocated int64 `json:"allocated"`
	Available int64 `json:"available"`
}

func (in Input) validate() error {
	fields, ok := validation.Check(in)
	if in.PurchasePrice.IsNegative() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["purchase_price"] = "must be at least 0"
		ok = false
	}
	if !ok {
		return &validation.Error{Fields: fields}
	}
	return nil
}

func (in Input) purchaseDate() *time.Time {
	if in.PurchaseDate == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *in.PurchaseDate)
	if err != nil {
		return nil
	}
	return &t
}

// ListByAsset returns the asset's batches oldest first, with allocation counts.
func (s *Service) ListByAsset(ctx context.Context, assetID uint) ([]BatchWithUsage, error) {
	db := s.DB.WithContext(ctx)
	if err := assetExists(db, assetID); err != nil {
		return nil, err
	}
	var batches []domain.Batch
	if err := db.Where("asset_id = ?", assetID).Order("id").Find(&batches).Error; err != nil {
		return nil, err
	}
	out := make([]BatchWithUsage, 0, len(batches))
	for _, b := range batches {
		used, err := allocatedCount(db, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BatchWithUsage{Batch: b, Allocated: used, Available: int64(b.Quantity) - used})
	}
	return out, nil
}

// Get returns one batch with its allocation count.
func (s *Service) Get(ctx context.Context, id uint) (*BatchWithUsage, error) {
	db := s.DB.WithContext(ctx)
	var b domain.Batch
	if err := db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	used, err := allocatedCount(db, id)
	if err != nil {
		return nil, err
	}
	return &BatchWithUsage{Batch: b, Allocated: used, Available: int64(b.Quantity) - used}, nil
}

// Create records a purchase of Quantity units of the asset.
func (s *Service) Create(ctx context.Context, assetID uint, in Input) (*BatchWithUsage, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := assetExists(db, assetID); err != nil {
		return nil, err
	}
	b := &domain.Batch{
		AssetID:       assetID,
		Name:          in.Name,
		PurchaseDate:  in.purchaseDate(),
		PurchasePrice: in.PurchasePrice.Round(2),
		Quantity:      in.Quantity,
		Supplier:      in.Supplier,
	}
	if err := db.Create(b).Error; err != nil {
		return nil, err
	}
	return &BatchWithUsage{Batch: *b, Available: int64(b.Quantity)}, nil
}

// Update edits a batch. Quantity may not drop below the allocated unit count.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*BatchWithUsage, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Batch
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBatchNotFound
			}
			return err
		}
		used, err := allocatedCount(tx, id)
		if err != nil {
			return err
		}
		if int64(in.Quantity) < used {
			return ErrQuantityBelowInUse
		}
		b.Name = in.Name
		b.PurchaseDate = in.purchaseDate()
		b.PurchasePrice = in.PurchasePrice.Round(2)
		b.Quantity = in.Quantity
		b.Supplier = in.Supplier
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a batch none of whose units are allocated.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Batch
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBatchNotFound
			}
			return err
		}
		used, err := allocatedCount(tx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return ErrBatchHasAllocations
		}
		return tx.Delete(&b).Error
	})
}

func allocatedCount(db *gorm.DB, batchID uint) (int64, error) {
	var n int64
	err := db.Model(&domain.BatchAllocation{}).Where("batch_id = ?", batchID).Count(&n).Error
	return n, err
}

func assetExists(db *gorm.DB, assetID uint) error {
	var n int64
	if err := db.Model(&domain.Asset{}).Where("id = ?", assetID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.PurchaseDate = trimmedOrNil(in.PurchaseDate)
	in.Supplier = trimmedOrNil(in.Supplier)
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
