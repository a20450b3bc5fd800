package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// CashPaymentInfo carries the audit trail recorded when a waybill's tax is
// paid in cash.
type CashPaymentInfo struct {
	ReceivedAt time.Time
	Method     string
	Notes      string
}

// WaybillRepository defines the interface for waybill data operations
type WaybillRepository interface {
	Create(ctx context.Context, waybill *entity.Waybill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Waybill, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Waybill, error)
	Update(ctx context.Context, waybill *entity.Waybill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *WaybillFilterParams) ([]entity.Waybill, int64, error)

	// UpdateStatusIf performs a compare-and-swap on the waybill status. It
	// reports false when the waybill is not currently in the expected status,
	// which makes it the single-writer guard for every status transition.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.WaybillStatus) (bool, error)

	// MarkInvoicedBatch flips every waybill from Pending to Invoiced and
	// stamps the invoice reference, all inside one transaction. If any
	// waybill is not Pending the whole batch is rolled back and the IDs that
	// failed the check are returned.
	MarkInvoicedBatch(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) ([]uuid.UUID, error)

	// ReleaseFromInvoice returns every waybill referencing the invoice to
	// Pending and clears the invoice reference.
	ReleaseFromInvoice(ctx context.Context, invoiceID uuid.UUID) error

	// MarkCashPaidIf flips a single waybill from NeedTaxUnpaid to NeedTaxPaid
	// and records the payment audit fields. Reports false when the waybill
	// has moved out of NeedTaxUnpaid.
	MarkCashPaidIf(ctx context.Context, id uuid.UUID, info CashPaymentInfo) (bool, error)

	// MarkNeedTaxIf flips a waybill from Pending to NeedTaxUnpaid and writes
	// the tax amount in the same statement, so a waybill is never in the tax
	// branch without its tax amount.
	MarkNeedTaxIf(ctx context.Context, id uuid.UUID, taxAmount float64) (bool, error)

	// RevertCashPaidIf flips a waybill from NeedTaxPaid back to NeedTaxUnpaid
	// and clears the payment audit fields in the same statement.
	RevertCashPaidIf(ctx context.Context, id uuid.UUID) (bool, error)

	// RestoreToPendingIf returns a waybill to Pending from the given status,
	// clearing the tax amount and payment audit fields in the same statement.
	RestoreToPendingIf(ctx context.Context, id uuid.UUID, from enum.WaybillStatus) (bool, error)

	// ReplaceExtraExpenses swaps the full extra-expense set of a waybill:
	// existing rows are removed and the given set is written in their place.
	ReplaceExtraExpenses(ctx context.Context, waybillID uuid.UUID, expenses []entity.WaybillExtraExpense) error

	GetExtraExpensesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.WaybillExtraExpense, error)

	// SumFeesByDriver totals the fees of a driver's waybills dated within
	// [start, end), used to prefill settlement income.
	SumFeesByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time) (float64, error)
}

// WaybillFilterParams contains filtering parameters for waybill queries
type WaybillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.WaybillStatus
	CompanyID  *uuid.UUID
	DriverID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// FeeSplitRepository defines the interface for waybill fee split operations
type FeeSplitRepository interface {
	Create(ctx context.Context, split *entity.WaybillFeeSplit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.WaybillFeeSplit, error)
	GetByWaybillID(ctx context.Context, waybillID uuid.UUID) ([]entity.WaybillFeeSplit, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SumOutgoingByDriver totals split amounts flowing away from a driver's
	// waybills dated within [start, end).
	SumOutgoingByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time) (float64, error)
	// SumIncomingByDriver totals split amounts credited to a driver from
	// other drivers' waybills dated within [start, end).
	SumIncomingByDriver(ctx context.Context, targetDriverID uuid.UUID, start, end time.Time) (float64, error)
}
