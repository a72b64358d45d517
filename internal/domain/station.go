package domain

import (
	"time"

	"gorm.io/gorm"
)

// Station is an organizational location (station or department) that holds assets and employees.
type Station struct {
	ID          uint           `gorm:"column:id;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Code        *string        `gorm:"column:code;type:varchar(20)" json:"code"`
	Description *string        `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Station) TableName() string {
	return "stations"
}
