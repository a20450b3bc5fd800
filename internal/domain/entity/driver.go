package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Driver represents a driver eligible for monthly profit-share settlements
type Driver struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Phone        *string   `gorm:"size:50" json:"phone,omitempty"`
	LicensePlate *string   `gorm:"size:50" json:"license_plate,omitempty"`
	// DefaultProfitShareRatio is the standing ratio used to seed a new monthly
	// settlement for this driver.
	DefaultProfitShareRatio float64        `gorm:"type:decimal(5,2);default:50" json:"default_profit_share_ratio"`
	Active                  bool           `gorm:"default:true" json:"active"`
	Notes                   *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Waybills    []Waybill          `gorm:"foreignKey:DriverID" json:"-"`
	Settlements []DriverSettlement `gorm:"foreignKey:DriverID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new driver
func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}
