package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaybillFeeSplit reallocates part of one waybill's fee from the assigned
// driver to a target driver. The amount reduces the originating driver's
// settlement income for the waybill's month and credits the target driver's
// fee split income for the same month.
type WaybillFeeSplit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WaybillID uuid.UUID `gorm:"type:uuid;not null;index" json:"waybill_id"`
	// DriverID is the originating driver, denormalized from the waybill so
	// monthly aggregation does not need a join.
	DriverID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"driver_id"`
	TargetDriverID uuid.UUID      `gorm:"type:uuid;not null;index" json:"target_driver_id"`
	Amount         float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	Notes          *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Waybill      Waybill `gorm:"foreignKey:WaybillID" json:"-"`
	TargetDriver Driver  `gorm:"foreignKey:TargetDriverID" json:"target_driver,omitempty"`
}

// BeforeCreate generates a UUID before creating a new fee split
func (s *WaybillFeeSplit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WaybillFeeSplit model
func (WaybillFeeSplit) TableName() string {
	return "waybill_fee_splits"
}
