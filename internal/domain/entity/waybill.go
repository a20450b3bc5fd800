package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Waybill represents a single delivery order, the atomic unit of billable work
type Waybill struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	WaybillDate time.Time          `gorm:"type:date;not null;index" json:"waybill_date"`
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	DriverID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"driver_id"`
	Fee         float64            `gorm:"type:decimal(15,2);not null" json:"fee"`
	Status      enum.WaybillStatus `gorm:"default:0;index" json:"status"`
	// TaxAmount is only set once the waybill enters the need-tax branch.
	TaxAmount *float64 `gorm:"type:decimal(15,2)" json:"tax_amount,omitempty"`
	// InvoiceID points at the active (non-void) invoice covering this waybill.
	InvoiceID         *uuid.UUID     `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	PaymentReceivedAt *time.Time     `json:"payment_received_at,omitempty"`
	PaymentMethod     *string        `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentNotes      *string        `gorm:"type:text" json:"payment_notes,omitempty"`
	Notes             *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Company       Company               `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Driver        Driver                `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	ExtraExpenses []WaybillExtraExpense `gorm:"foreignKey:WaybillID" json:"extra_expenses,omitempty"`
	FeeSplits     []WaybillFeeSplit     `gorm:"foreignKey:WaybillID" json:"fee_splits,omitempty"`
}

// BeforeCreate generates a UUID before creating a new waybill
func (w *Waybill) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Waybill model
func (Waybill) TableName() string {
	return "waybills"
}

// SplitAllocated returns the total fee amount already split away to other
// drivers. Requires FeeSplits to be preloaded.
func (w *Waybill) SplitAllocated() float64 {
	var total float64
	for _, s := range w.FeeSplits {
		total += s.Amount
	}
	return total
}

// WaybillExtraExpense represents an ancillary charge attached to a waybill,
// such as tolls or crane hire, billable alongside the base freight fee
type WaybillExtraExpense struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	WaybillID uuid.UUID      `gorm:"type:uuid;not null;index" json:"waybill_id"`
	Item      string         `gorm:"size:255;not null" json:"item"`
	Fee       float64        `gorm:"type:decimal(15,2);not null" json:"fee"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Waybill Waybill `gorm:"foreignKey:WaybillID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new extra expense
func (e *WaybillExtraExpense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WaybillExtraExpense model
func (WaybillExtraExpense) TableName() string {
	return "waybill_extra_expenses"
}
