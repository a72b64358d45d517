package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssignmentEventCreated         = "CREATED"
	AssignmentEventDeleted         = "DELETED"
	AssignmentEventUnitAllocated   = "UNIT_ALLOCATED"
	AssignmentEventUnitDeallocated = "UNIT_DEALLOCATED"
)

// AssignmentEvent is an append-only audit record for assignment changes.
type AssignmentEvent struct {
	EventID      uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	AssignmentID uint           `gorm:"column:assignment_id;not null;index" json:"assignment_id"`
	EventType    string         `gorm:"column:event_type;not null" json:"event_type"`
	EventData    datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	ActorUserID  *string        `gorm:"column:actor_user_id" json:"actor_user_id"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (AssignmentEvent) TableName() string {
	return "assignment_events"
}

func (e *AssignmentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
