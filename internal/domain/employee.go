package domain

import (
	"time"

	"gorm.io/gorm"
)

// Employee works at (at most) one station.
type Employee struct {
	ID             uint           `gorm:"column:id;primaryKey" json:"id"`
	FullName       string         `gorm:"column:full_name;not null" json:"full_name"`
	EmployeeNumber string         `gorm:"column:employee_number;not null;index" json:"employee_number"`
	JobTitle       *string        `gorm:"column:job_title" json:"job_title"`
	Phone          *string        `gorm:"column:phone" json:"phone"`
	StationID      *uint          `gorm:"column:station_id;index" json:"station_id"`
	Station        *Station       `gorm:"foreignKey:StationID" json:"station,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}
