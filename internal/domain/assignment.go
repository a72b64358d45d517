package domain

import (
	"time"
)

// Assignment records that an asset is assigned to a station, optionally in the care of an employee.
type Assignment struct {
	ID               uint              `gorm:"column:id;primaryKey" json:"id"`
	AssetID          uint              `gorm:"column:asset_id;not null;index" json:"asset_id"`
	StationID        uint              `gorm:"column:station_id;not null;index" json:"station_id"`
	EmployeeID       *uint             `gorm:"column:employee_id;index" json:"employee_id"`
	AssignedAt       *time.Time        `gorm:"column:assigned_at" json:"assigned_at"`
	Notes            *string           `gorm:"column:notes" json:"notes"`
	Asset            *Asset            `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	Station          *Station          `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Employee         *Employee         `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	BatchAllocations []BatchAllocation `gorm:"foreignKey:AssignmentID" json:"batch_allocations"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// BatchAllocation links an assignment to one physical unit of a batch.
// BatchID is nullable: the batch may have been removed after the allocation was made.
type BatchAllocation struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"id"`
	AssignmentID uint       `gorm:"column:assignment_id;not null;index" json:"assignment_id"`
	BatchID      *uint      `gorm:"column:batch_id;index" json:"batch_id"`
	Batch        *Batch     `gorm:"foreignKey:BatchID" json:"batch"`
	SerialNumber *string    `gorm:"column:serial_number" json:"serial_number"`
	AssignedAt   *time.Time `gorm:"column:assigned_at" json:"assigned_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (BatchAllocation) TableName() string {
	return "batch_allocations"
}
