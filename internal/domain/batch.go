package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Batch is a purchase record: Quantity units of one asset bought together at one price and date.
type Batch struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"id"`
	AssetID       uint            `gorm:"column:asset_id;not null;index" json:"asset_id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	PurchaseDate  *time.Time      `gorm:"column:purchase_date" json:"purchase_date"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:decimal(18,2);not null;default:0" json:"purchase_price"`
	Quantity      int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Supplier      *string         `gorm:"column:supplier" json:"supplier"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}
