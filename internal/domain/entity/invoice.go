package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice represents a tax invoice aggregating one or more waybills for one
// company. Subtotal, tax and total are derived from the line snapshots on
// every read; they are never stored.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string    `gorm:"size:100;not null;uniqueIndex:idx_invoices_company_number" json:"invoice_number"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_company_number" json:"company_id"`
	InvoiceDate   time.Time `gorm:"type:date;not null" json:"invoice_date"`
	TaxRate       float64   `gorm:"type:decimal(6,4);default:0.05" json:"tax_rate"`
	// ExtraExpensesIncludeTax controls whether extra expenses enter the tax
	// base or only the subtotal.
	ExtraExpensesIncludeTax bool               `gorm:"default:false" json:"extra_expenses_include_tax"`
	Status                  enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	PaymentMethod           *string            `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentNote             *string            `gorm:"type:text" json:"payment_note,omitempty"`
	PaidAt                  *time.Time         `json:"paid_at,omitempty"`
	Notes                   *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
	DeletedAt               gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Company       Company               `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Waybills      []InvoiceWaybill      `gorm:"foreignKey:InvoiceID" json:"waybills,omitempty"`
	ExtraExpenses []InvoiceExtraExpense `gorm:"foreignKey:InvoiceID" json:"extra_expenses,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// WaybillAmount returns the sum of the waybill fee snapshots
func (i *Invoice) WaybillAmount() float64 {
	var total float64
	for _, w := range i.Waybills {
		total += w.Fee
	}
	return total
}

// ExtraExpenseAmount returns the sum of the selected extra expense snapshots
func (i *Invoice) ExtraExpenseAmount() float64 {
	var total float64
	for _, e := range i.ExtraExpenses {
		total += e.Fee
	}
	return total
}

// Subtotal returns waybill fees plus selected extra expenses
func (i *Invoice) Subtotal() float64 {
	return i.WaybillAmount() + i.ExtraExpenseAmount()
}

// Tax returns the tax amount. When ExtraExpensesIncludeTax is set the whole
// subtotal is taxed, otherwise only the waybill fees are.
func (i *Invoice) Tax() float64 {
	if i.ExtraExpensesIncludeTax {
		return i.Subtotal() * i.TaxRate
	}
	return i.WaybillAmount() * i.TaxRate
}

// Total returns subtotal plus tax
func (i *Invoice) Total() float64 {
	return i.Subtotal() + i.Tax()
}

// WaybillIDs returns the IDs of all waybills referenced by this invoice
func (i *Invoice) WaybillIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(i.Waybills))
	for n, w := range i.Waybills {
		ids[n] = w.WaybillID
	}
	return ids
}

// MarshalJSON includes the derived amounts in API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(i),
		Subtotal: i.Subtotal(),
		Tax:      i.Tax(),
		Total:    i.Total(),
	})
}

// InvoiceWaybill is a line snapshot tying a waybill to an invoice. The fee is
// captured at creation time so voided invoices stay reconstructable even when
// the waybill is later edited.
type InvoiceWaybill struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	WaybillID uuid.UUID      `gorm:"type:uuid;not null;index" json:"waybill_id"`
	Fee       float64        `gorm:"type:decimal(15,2);not null" json:"fee"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Waybill Waybill `gorm:"foreignKey:WaybillID" json:"waybill,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice waybill line
func (iw *InvoiceWaybill) BeforeCreate(tx *gorm.DB) error {
	if iw.ID == uuid.Nil {
		iw.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceWaybill model
func (InvoiceWaybill) TableName() string {
	return "invoice_waybills"
}

// InvoiceExtraExpense is a line snapshot for a waybill extra expense included
// in an invoice. Selection is per invoice; the same expense may be included
// in one invoice and left out of another, but never twice within one.
type InvoiceExtraExpense struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_extra_expense" json:"invoice_id"`
	ExtraExpenseID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_extra_expense" json:"extra_expense_id"`
	Fee            float64        `gorm:"type:decimal(15,2);not null" json:"fee"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Invoice      Invoice             `gorm:"foreignKey:InvoiceID" json:"-"`
	ExtraExpense WaybillExtraExpense `gorm:"foreignKey:ExtraExpenseID" json:"extra_expense,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice extra expense line
func (ie *InvoiceExtraExpense) BeforeCreate(tx *gorm.DB) error {
	if ie.ID == uuid.Nil {
		ie.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceExtraExpense model
func (InvoiceExtraExpense) TableName() string {
	return "invoice_extra_expenses"
}
