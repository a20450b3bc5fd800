package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CollectionRequest is a receivable batch grouping waybills billed to one
// company for payment collection, distinct from the tax invoice. Subtotal,
// tax amount and total are derived from the item snapshots on every read.
type CollectionRequest struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	RequestNumber string                `gorm:"size:100;unique;not null" json:"request_number"`
	RequestDate   time.Time             `gorm:"type:date;not null" json:"request_date"`
	CompanyID     uuid.UUID             `gorm:"type:uuid;not null;index" json:"company_id"`
	TaxRate       float64               `gorm:"type:decimal(6,4);default:0" json:"tax_rate"`
	Status        enum.CollectionStatus `gorm:"default:0;index" json:"status"`
	PaymentReceivedAt *time.Time        `json:"payment_received_at,omitempty"`
	PaymentMethod     *string           `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentNotes      *string           `gorm:"type:text" json:"payment_notes,omitempty"`
	CancelReason      *string           `gorm:"type:text" json:"cancel_reason,omitempty"`
	Notes             *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Company Company                 `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Items   []CollectionRequestItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new collection request
func (r *CollectionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CollectionRequest model
func (CollectionRequest) TableName() string {
	return "collection_requests"
}

// Subtotal returns the sum of the item fee snapshots
func (r *CollectionRequest) Subtotal() float64 {
	var total float64
	for _, item := range r.Items {
		total += item.Fee
	}
	return total
}

// TaxAmount returns subtotal times the request's tax rate. A zero rate is
// legitimate for this domain.
func (r *CollectionRequest) TaxAmount() float64 {
	return r.Subtotal() * r.TaxRate
}

// TotalAmount returns subtotal plus tax
func (r *CollectionRequest) TotalAmount() float64 {
	return r.Subtotal() + r.TaxAmount()
}

// WaybillIDs returns the IDs of all waybills referenced by this request
func (r *CollectionRequest) WaybillIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Items))
	for n, item := range r.Items {
		ids[n] = item.WaybillID
	}
	return ids
}

// MarshalJSON includes the derived amounts in API responses
func (r CollectionRequest) MarshalJSON() ([]byte, error) {
	type Alias CollectionRequest
	return json.Marshal(&struct {
		Alias
		Subtotal    float64 `json:"subtotal"`
		TaxAmount   float64 `json:"tax_amount"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(r),
		Subtotal:    r.Subtotal(),
		TaxAmount:   r.TaxAmount(),
		TotalAmount: r.TotalAmount(),
	})
}

// CollectionRequestItem is a line snapshot tying a waybill to a collection
// request. IsDifferentCompany flags waybills that belong to another company
// than the request; cross-company consolidation is allowed but surfaced as a
// warning, never rejected.
type CollectionRequestItem struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RequestID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"request_id"`
	WaybillID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"waybill_id"`
	Fee                float64        `gorm:"type:decimal(15,2);not null" json:"fee"`
	IsDifferentCompany bool           `gorm:"default:false" json:"is_different_company"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Request CollectionRequest `gorm:"foreignKey:RequestID" json:"-"`
	Waybill Waybill           `gorm:"foreignKey:WaybillID" json:"waybill,omitempty"`
}

// BeforeCreate generates a UUID before creating a new collection request item
func (i *CollectionRequestItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CollectionRequestItem model
func (CollectionRequestItem) TableName() string {
	return "collection_request_items"
}
