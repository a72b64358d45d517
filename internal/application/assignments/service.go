package assignments

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAssignmentNotFound = errors.New("Assignment not found")
	ErrAllocationNotFound = errors.New("Allocation not found")
	ErrAssetNotFound      = errors.New("Asset not found")
	ErrStationNotFound    = errors.New("Station not found")
	ErrEmployeeNotFound   = errors.New("Employee not found")
	ErrBatchNotFound      = errors.New("Batch not found")
	ErrBatchNotForAsset   = errors.New("Batch does not belong to this asset")
	ErrBatchExhausted     = errors.New("Not enough units left in batch")
	ErrFilterRequired     = errors.New("station_id or asset_id is required")
)

const dateLayout = "2006-01-02"

// Service manages assignments of assets to stations and the batch units they carry.
type Service struct {
	DB *gorm.DB
}

type AllocationInput struct {
	BatchID      uint    `json:"batch_id" validate:"required"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=120"`
	AssignedAt   *string `json:"assigned_at" validate:"omitempty,datetime=2006-01-02"`
}

type CreateInput struct {
	AssetID     uint              `json:"asset_id" validate:"required"`
	StationID   uint              `json:"station_id" validate:"required"`
	EmployeeID  *uint             `json:"employee_id"`
	AssignedAt  *string           `json:"assigned_at" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string           `json:"notes" validate:"omitempty,max=1000"`
	Allocations []AllocationInput `json:"batch_allocations" validate:"dive"`
}

// ListFilter selects assignments by station, asset or both. At least one is required.
type ListFilter struct {
	StationID *uint
	AssetID   *uint
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Asset").
		Preload("Station").
		Preload("Employee").
		Preload("BatchAllocations", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("BatchAllocations.Batch")
}

// List returns matching assignments with asset, station, employee and allocations loaded.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Assignment, error) {
	if f.StationID == nil && f.AssetID == nil {
		return nil, ErrFilterRequired
	}
	q := withDetails(s.DB.WithContext(ctx)).Order("id")
	if f.StationID != nil {
		q = q.Where("station_id = ?", *f.StationID)
	}
	if f.AssetID != nil {
		q = q.Where("asset_id = ?", *f.AssetID)
	}
	var out []domain.Assignment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one assignment with its details.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Assignment, error) {
	var a domain.Assignment
	if err := withDetails(s.DB.WithContext(ctx)).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create assigns an asset to a station with its batch units in one transaction and records a
// CREATED event.
func (s *Service) Create(ctx context.Context, actorUserID string, in CreateInput) (*domain.Assignment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &domain.Asset{}, in.AssetID, ErrAssetNotFound); err != nil {
			return err
		}
		if err := exists(tx, &domain.Station{}, in.StationID, ErrStationNotFound); err != nil {
			return err
		}
		if in.EmployeeID != nil {
			if err := exists(tx, &domain.Employee{}, *in.EmployeeID, ErrEmployeeNotFound); err != nil {
				return err
			}
		}

		requested := map[uint]int64{}
		for _, al := range in.Allocations {
			requested[al.BatchID]++
		}
		for batchID, n := range requested {
			if err := reserve(tx, in.AssetID, batchID, n); err != nil {
				return err
			}
		}

		a := domain.Assignment{
			AssetID:    in.AssetID,
			StationID:  in.StationID,
			EmployeeID: in.EmployeeID,
			AssignedAt: parseDate(in.AssignedAt),
			Notes:      trimmedOrNil(in.Notes),
		}
		for _, al := range in.Allocations {
			a.BatchAllocations = append(a.BatchAllocations, allocationFromInput(al))
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		id = a.ID

		batchIDs := make([]uint, 0, len(in.Allocations))
		for _, al := range in.Allocations {
			batchIDs = append(batchIDs, al.BatchID)
		}
		return recordEvent(tx, a.ID, domain.AssignmentEventCreated, actorUserID, map[string]interface{}{
			"asset_id":    a.AssetID,
			"station_id":  a.StationID,
			"employee_id": a.EmployeeID,
			"batch_ids":   batchIDs,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment and its allocations and records a DELETED event.
func (s *Service) Delete(ctx context.Context, actorUserID string, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Assignment
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		res := tx.Where("assignment_id = ?", id).Delete(&domain.BatchAllocation{})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Delete(&a).Error; err != nil {
			return err
		}
		return recordEvent(tx, id, domain.AssignmentEventDeleted, actorUserID, map[string]interface{}{
			"asset_id":       a.AssetID,
			"station_id":     a.StationID,
			"released_units": res.RowsAffected,
		})
	})
}

// AddAllocation attaches one more batch unit to an existing assignment.
func (s *Service) AddAllocation(ctx context.Context, actorUserID string, assignmentID uint, in AllocationInput) (*domain.BatchAllocation, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var alloc domain.BatchAllocation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Assignment
		if err := tx.First(&a, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		if err := reserve(tx, a.AssetID, in.BatchID, 1); err != nil {
			return err
		}
		alloc = allocationFromInput(in)
		alloc.AssignmentID = a.ID
		if err := tx.Create(&alloc).Error; err != nil {
			return err
		}
		return recordEvent(tx, a.ID, domain.AssignmentEventUnitAllocated, actorUserID, map[string]interface{}{
			"allocation_id": alloc.ID,
			"batch_id":      in.BatchID,
			"serial_number": alloc.SerialNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

// RemoveAllocation detaches one unit from an assignment.
func (s *Service) RemoveAllocation(ctx context.Context, actorUserID string, assignmentID, allocationID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alloc domain.BatchAllocation
		err := tx.Where("id = ? AND assignment_id = ?", allocationID, assignmentID).First(&alloc).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return err
		}
		if err := tx.Delete(&alloc).Error; err != nil {
			return err
		}
		return recordEvent(tx, assignmentID, domain.AssignmentEventUnitDeallocated, actorUserID, map[string]interface{}{
			"allocation_id": alloc.ID,
			"batch_id":      alloc.BatchID,
			"serial_number": alloc.SerialNumber,
		})
	})
}

// ListEvents returns the audit trail of an assignment, oldest first. Events outlive the assignment.
func (s *Service) ListEvents(ctx context.Context, assignmentID uint) ([]domain.AssignmentEvent, error) {
	var events []domain.AssignmentEvent
	err := s.DB.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// reserve checks that n more units of batchID can be allocated to assetID.
func reserve(tx *gorm.DB, assetID, batchID uint, n int64) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b domain.Batch
	if err := q.First(&b, batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		return err
	}
	if b.AssetID != assetID {
		return ErrBatchNotForAsset
	}
	var used int64
	if err := tx.Model(&domain.BatchAllocation{}).Where("batch_id = ?", batchID).Count(&used).Error; err != nil {
		return err
	}
	if used+n > int64(b.Quantity) {
		return ErrBatchExhausted
	}
	return nil
}

func exists(tx *gorm.DB, model interface{}, id uint, notFound error) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func recordEvent(tx *gorm.DB, assignmentID uint, eventType, actorUserID string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ev := domain.AssignmentEvent{
		AssignmentID: assignmentID,
		EventType:    eventType,
		EventData:    datatypes.JSON(payload),
	}
	if actorUserID != "" {
		ev.ActorUserID = &actorUserID
	}
	return tx.Create(&ev).Error
}

func allocationFromInput(in AllocationInput) domain.BatchAllocation {
	batchID := in.BatchID
	return domain.BatchAllocation{
		BatchID:      &batchID,
		SerialNumber: trimmedOrNil(in.SerialNumber),
		AssignedAt:   parseDate(in.AssignedAt),
	}
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
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
