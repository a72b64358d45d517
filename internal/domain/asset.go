package domain

import (
	"time"

	"gorm.io/gorm"
)

// Asset is a registered kind of physical equipment. Units of it are bought in Batches
// and handed out to stations through Assignments.
type Asset struct {
	ID          uint           `gorm:"column:id;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	AssetNumber string         `gorm:"column:asset_number;not null;index" json:"asset_number"`
	Category    *string        `gorm:"column:category" json:"category"`
	Description *string        `gorm:"column:description" json:"description"`
	Batches     []Batch        `gorm:"foreignKey:AssetID" json:"batches,omitempty"`
	Assignments []Assignment   `gorm:"foreignKey:AssetID" json:"assignments,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Asset) TableName() string {
	return "assets"
}
