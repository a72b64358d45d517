package stations

import (
	"context"
	"errors"
	"strings"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"

	"gorm.io/gorm"
)

var (
	ErrStationNotFound  = errors.New("Station not found")
	ErrStationCodeTaken = errors.New("Station code already exists")
	ErrStationInUse     = errors.New("Station still has assigned assets")
)

// Service handles station CRUD.
type Service struct {
	DB *gorm.DB
}

type Input struct {
	Name        string  `json:"name" validate:"notblank,max=120"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = trimmedOrNil(in.Code)
	in.Description = trimmedOrNil(in.Description)
	return in
}

// List returns all stations ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Station, error) {
	var out []domain.Station
	if err := s.DB.WithContext(ctx).Order("name, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one station.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Station, error) {
	var st domain.Station
	if err := s.DB.WithContext(ctx).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Create adds a station. Codes are unique among live stations.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Station, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureCodeFree(db, in.Code, 0); err != nil {
		return nil, err
	}
	st := &domain.Station{Name: in.Name, Code: in.Code, Description: in.Description}
	if err := db.Create(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

// Update replaces the station's editable fields.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*domain.Station, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureCodeFree(db, in.Code, id); err != nil {
		return nil, err
	}
	st.Name, st.Code, st.Description = in.Name, in.Code, in.Description
	if err := db.Save(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a station that no assignment references and detaches its employees.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st domain.Station
		if err := tx.First(&st, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStationNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&domain.Assignment{}).Where("station_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrStationInUse
		}
		if err := tx.Model(&domain.Employee{}).Where("station_id = ?", id).Update("station_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).Where("station_id = ?", id).Update("station_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&st).Error
	})
}

func ensureCodeFree(db *gorm.DB, code *string, exceptID uint) error {
	if code == nil {
		return nil
	}
	q := db.Model(&domain.Station{}).Where("code = ?", *code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrStationCodeTaken
	}
	return nil
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
