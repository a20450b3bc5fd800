package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// InvoicePaymentInfo carries the payment details recorded when an invoice is
// marked paid.
type InvoicePaymentInfo struct {
	PaidAt time.Time
	Method string
	Note   *string
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*entity.Invoice, error)
	// UpdateStatusIf performs a compare-and-swap on the invoice status,
	// reporting false when the invoice is no longer in the expected status.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.InvoiceStatus) (bool, error)
	// MarkPaidIf flips an invoice from Issued to Paid and records the payment
	// fields in the same statement.
	MarkPaidIf(ctx context.Context, id uuid.UUID, info InvoicePaymentInfo) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// HardDelete removes an invoice and its lines permanently, used to roll
	// back a half-created invoice whose waybill flips failed.
	HardDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	CompanyID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
