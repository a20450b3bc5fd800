package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
)

// WaybillService handles waybill lifecycle operations
type WaybillService struct {
	waybillRepo repository.WaybillRepository
	companyRepo repository.CompanyRepository
	driverRepo  repository.DriverRepository
}

// NewWaybillService creates a new waybill service
func NewWaybillService(
	waybillRepo repository.WaybillRepository,
	companyRepo repository.CompanyRepository,
	driverRepo repository.DriverRepository,
) *WaybillService {
	return &WaybillService{
		waybillRepo: waybillRepo,
		companyRepo: companyRepo,
		driverRepo:  driverRepo,
	}
}

// ExtraExpenseInput represents one ancillary charge on a waybill
type ExtraExpenseInput struct {
	Item  string
	Fee   float64
	Notes *string
}

// CreateWaybillInput represents the create waybill input
type CreateWaybillInput struct {
	WaybillDate   time.Time
	CompanyID     uuid.UUID
	DriverID      uuid.UUID
	Fee           float64
	Notes         *string
	ExtraExpenses []ExtraExpenseInput
}

// UpdateWaybillInput represents the update waybill input. Nil fields are left
// untouched.
type UpdateWaybillInput struct {
	WaybillDate   *time.Time
	CompanyID     *uuid.UUID
	DriverID      *uuid.UUID
	Fee           *float64
	Notes         *string
	ExtraExpenses *[]ExtraExpenseInput
}

// CreateWaybill creates a new waybill in Pending status
func (s *WaybillService) CreateWaybill(ctx context.Context, input *CreateWaybillInput) (*entity.Waybill, error) {
	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}

	driver, err := s.driverRepo.GetByID(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperror.NewNotFoundError("Driver")
	}

	if input.Fee < 0 {
		return nil, apperror.NewBadRequestError("Fee cannot be negative")
	}

	waybill := &entity.Waybill{
		WaybillDate: input.WaybillDate,
		CompanyID:   input.CompanyID,
		DriverID:    input.DriverID,
		Fee:         input.Fee,
		Status:      enum.WaybillStatusPending,
		Notes:       input.Notes,
	}
	for _, e := range input.ExtraExpenses {
		waybill.ExtraExpenses = append(waybill.ExtraExpenses, entity.WaybillExtraExpense{
			Item:  e.Item,
			Fee:   e.Fee,
			Notes: e.Notes,
		})
	}

	if err := s.waybillRepo.Create(ctx, waybill); err != nil {
		return nil, err
	}

	return s.waybillRepo.GetByID(ctx, waybill.ID)
}

// GetWaybill retrieves a waybill by ID
func (s *WaybillService) GetWaybill(ctx context.Context, id uuid.UUID) (*entity.Waybill, error) {
	waybill, err := s.waybillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if waybill == nil {
		return nil, apperror.NewNotFoundError("Waybill")
	}
	return waybill, nil
}

// ListWaybills retrieves waybills with filtering and pagination
func (s *WaybillService) ListWaybills(ctx context.Context, params *repository.WaybillFilterParams) ([]entity.Waybill, int64, error) {
	return s.waybillRepo.List(ctx, params)
}

// UpdateWaybill updates mutable waybill fields. Fee and party changes are only
// allowed while the waybill is Pending; notes can change in any status.
func (s *WaybillService) UpdateWaybill(ctx context.Context, id uuid.UUID, input *UpdateWaybillInput) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	touchesBilling := input.Fee != nil || input.CompanyID != nil || input.DriverID != nil ||
		input.WaybillDate != nil || input.ExtraExpenses != nil
	if touchesBilling && waybill.Status != enum.WaybillStatusPending {
		return nil, apperror.NewConflictError("Only pending waybills can have billing fields changed")
	}

	if input.WaybillDate != nil {
		waybill.WaybillDate = *input.WaybillDate
	}
	if input.CompanyID != nil {
		company, err := s.companyRepo.GetByID(ctx, *input.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, apperror.NewNotFoundError("Company")
		}
		waybill.CompanyID = *input.CompanyID
	}
	if input.DriverID != nil {
		driver, err := s.driverRepo.GetByID(ctx, *input.DriverID)
		if err != nil {
			return nil, err
		}
		if driver == nil {
			return nil, apperror.NewNotFoundError("Driver")
		}
		waybill.DriverID = *input.DriverID
	}
	if input.Fee != nil {
		if *input.Fee < 0 {
			return nil, apperror.NewBadRequestError("Fee cannot be negative")
		}
		waybill.Fee = *input.Fee
	}
	if input.Notes != nil {
		waybill.Notes = input.Notes
	}
	if input.ExtraExpenses != nil {
		expenses := make([]entity.WaybillExtraExpense, 0, len(*input.ExtraExpenses))
		for _, e := range *input.ExtraExpenses {
			expenses = append(expenses, entity.WaybillExtraExpense{
				WaybillID: waybill.ID,
				Item:      e.Item,
				Fee:       e.Fee,
				Notes:     e.Notes,
			})
		}
		// The incoming set fully replaces the stored one; saving through the
		// association would only append.
		if err := s.waybillRepo.ReplaceExtraExpenses(ctx, waybill.ID, expenses); err != nil {
			return nil, err
		}
		waybill.ExtraExpenses = nil
	}

	if err := s.waybillRepo.Update(ctx, waybill); err != nil {
		return nil, err
	}

	return s.waybillRepo.GetByID(ctx, id)
}

// DeleteWaybill soft deletes a waybill. Only pending waybills can be deleted;
// anything referenced by an invoice or in the tax branch must be restored
// first.
func (s *WaybillService) DeleteWaybill(ctx context.Context, id uuid.UUID) error {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return err
	}
	if waybill.Status != enum.WaybillStatusPending {
		return apperror.NewConflictError("Only pending waybills can be deleted")
	}
	return s.waybillRepo.Delete(ctx, id)
}

// MarkNoInvoiceNeeded moves a pending waybill to NoInvoiceNeeded. Only
// pending waybills qualify; repeating the call fails because the waybill has
// already left Pending.
func (s *WaybillService) MarkNoInvoiceNeeded(ctx context.Context, id uuid.UUID) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.waybillRepo.UpdateStatusIf(ctx, id, enum.WaybillStatusPending, enum.WaybillStatusNoInvoiceNeeded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusNoInvoiceNeeded.String())
	}

	return s.waybillRepo.GetByID(ctx, id)
}

// MarkNeedTax moves a pending waybill into the need-tax branch and records
// the tax amount owed on it.
func (s *WaybillService) MarkNeedTax(ctx context.Context, id uuid.UUID, taxAmount float64) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	if taxAmount < 0 {
		return nil, apperror.NewBadRequestError("Tax amount cannot be negative")
	}

	ok, err := s.waybillRepo.MarkNeedTaxIf(ctx, id, taxAmount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusNeedTaxUnpaid.String())
	}

	return s.waybillRepo.GetByID(ctx, id)
}

// RecordCashPaymentInput represents the audit trail of a cash tax payment
type RecordCashPaymentInput struct {
	ReceivedAt time.Time
	Method     string
	Notes      string
}

// RecordCashPayment moves a waybill from NeedTaxUnpaid to NeedTaxPaid and
// records when, how and why the cash was received. Notes are mandatory; cash
// leaves no paper trail of its own.
func (s *WaybillService) RecordCashPayment(ctx context.Context, id uuid.UUID, input *RecordCashPaymentInput) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Notes == "" {
		return nil, apperror.ErrPaymentNotesRequired
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	ok, err := s.waybillRepo.MarkCashPaidIf(ctx, id, repository.CashPaymentInfo{
		ReceivedAt: receivedAt,
		Method:     input.Method,
		Notes:      input.Notes,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusNeedTaxPaid.String())
	}

	return s.waybillRepo.GetByID(ctx, id)
}

// RevertCashPayment moves a waybill back from NeedTaxPaid to NeedTaxUnpaid,
// clearing the payment audit trail. Used when a payment was recorded in error.
func (s *WaybillService) RevertCashPayment(ctx context.Context, id uuid.UUID) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.waybillRepo.RevertCashPaidIf(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusNeedTaxUnpaid.String())
	}

	return s.waybillRepo.GetByID(ctx, id)
}

// ToggleCashPayment flips a waybill between NeedTaxUnpaid and NeedTaxPaid.
// Entering NeedTaxPaid requires the payment audit fields; leaving it clears
// them.
func (s *WaybillService) ToggleCashPayment(ctx context.Context, id uuid.UUID, input *RecordCashPaymentInput) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	switch waybill.Status {
	case enum.WaybillStatusNeedTaxUnpaid:
		if input == nil {
			return nil, apperror.ErrPaymentNotesRequired
		}
		return s.RecordCashPayment(ctx, id, input)
	case enum.WaybillStatusNeedTaxPaid:
		return s.RevertCashPayment(ctx, id)
	default:
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusNeedTaxPaid.String())
	}
}

// RestoreWaybill returns a waybill to Pending from NoInvoiceNeeded or
// NeedTaxPaid, clearing the tax amount and the payment audit trail. Waybills
// on an invoice come back through voiding the invoice, not here.
func (s *WaybillService) RestoreWaybill(ctx context.Context, id uuid.UUID) (*entity.Waybill, error) {
	waybill, err := s.GetWaybill(ctx, id)
	if err != nil {
		return nil, err
	}

	switch waybill.Status {
	case enum.WaybillStatusNoInvoiceNeeded, enum.WaybillStatusNeedTaxPaid:
	default:
		return nil, apperror.NewInvalidTransitionError("waybill", waybill.Status.String(), enum.WaybillStatusPending.String())
	}

	ok, err := s.waybillRepo.RestoreToPendingIf(ctx, id, waybill.Status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("Waybill status changed, retry the restore")
	}

	return s.waybillRepo.GetByID(ctx, id)
}
