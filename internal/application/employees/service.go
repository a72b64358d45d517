package employees

import (
	"context"
	"errors"
	"strings"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"

	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound       = errors.New("Employee not found")
	ErrEmployeeNumberTaken    = errors.New("Employee number already exists")
	ErrStationNotFound        = errors.New("Station not found")
	ErrEmployeeHasAssignments = errors.New("Employee still holds assigned assets")
)

// Service handles employee CRUD.
type Service struct {
	DB *gorm.DB
}

type Input struct {
	FullName       string  `json:"full_name" validate:"notblank,max=120"`
	EmployeeNumber string  `json:"employee_number" validate:"notblank,max=40"`
	JobTitle       *string `json:"job_title" validate:"omitempty,max=120"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	StationID      *uint   `json:"station_id"`
}

// ListFilter narrows List. A nil StationID lists everyone.
type ListFilter struct {
	StationID *uint
}

// List returns employees with their station, ordered by name.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Employee, error) {
	q := s.DB.WithContext(ctx).Preload("Station").Order("full_name, id")
	if f.StationID != nil {
		q = q.Where("station_id = ?", *f.StationID)
	}
	var out []domain.Employee
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one employee with their station.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Employee, error) {
	var e domain.Employee
	if err := s.DB.WithContext(ctx).Preload("Station").First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create adds an employee. Employee numbers are unique among live employees.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Employee, error) {
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := s.checkRefs(db, in, 0); err != nil {
		return nil, err
	}
	e := &domain.Employee{
		FullName:       in.FullName,
		EmployeeNumber: in.EmployeeNumber,
		JobTitle:       in.JobTitle,
		Phone:          in.Phone,
		StationID:      in.StationID,
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, e.ID)
}

// Update replaces the employee's editable fields.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*domain.Employee, error) {
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := s.checkRefs(db, in, id); err != nil {
		return nil, err
	}
	err = db.Model(e).Select("full_name", "employee_number", "job_title", "phone", "station_id").Updates(domain.Employee{
		FullName:       in.FullName,
		EmployeeNumber: in.EmployeeNumber,
		JobTitle:       in.JobTitle,
		Phone:          in.Phone,
		StationID:      in.StationID,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an employee who is not named on any assignment.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e domain.Employee
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&domain.Assignment{}).Where("employee_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmployeeHasAssignments
		}
		return tx.Delete(&e).Error
	})
}

func (s *Service) checkRefs(db *gorm.DB, in Input, exceptID uint) error {
	q := db.Model(&domain.Employee{}).Where("employee_number = ?", in.EmployeeNumber)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmployeeNumberTaken
	}
	if in.StationID != nil {
		if err := db.Model(&domain.Station{}).Where("id = ?", *in.StationID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrStationNotFound
		}
	}
	return nil
}

func normalize(in Input) Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.EmployeeNumber = strings.TrimSpace(in.EmployeeNumber)
	in.JobTitle = trimmedOrNil(in.JobTitle)
	in.Phone = trimmedOrNil(in.Phone)
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
