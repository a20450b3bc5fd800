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

// InvoiceService handles tax invoice operations
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	waybillRepo repository.WaybillRepository
	companyRepo repository.CompanyRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	waybillRepo repository.WaybillRepository,
	companyRepo repository.CompanyRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		waybillRepo: waybillRepo,
		companyRepo: companyRepo,
	}
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	InvoiceNumber           string
	CompanyID               uuid.UUID
	InvoiceDate             time.Time
	TaxRate                 *float64
	ExtraExpensesIncludeTax bool
	WaybillIDs              []uuid.UUID
	ExtraExpenseIDs         []uuid.UUID
	Notes                   *string
}

// MarkInvoicePaidInput records how an invoice was settled
type MarkInvoicePaidInput struct {
	PaymentMethod string
	PaymentNote   *string
	PaidAt        *time.Time
}

// CreateInvoice creates an invoice over a set of pending waybills. The fee of
// every waybill and selected extra expense is snapshotted onto the invoice
// lines, then all waybills are flipped to Invoiced in one transaction. A
// single stale waybill fails the whole creation.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if len(input.WaybillIDs) == 0 {
		return nil, apperror.ErrEmptyWaybillSet
	}

	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}

	existing, err := s.invoiceRepo.GetByNumber(ctx, input.CompanyID, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Invoice number already used for this company")
	}

	waybills, err := s.waybillRepo.GetByIDs(ctx, input.WaybillIDs)
	if err != nil {
		return nil, err
	}

	waybillMap := make(map[uuid.UUID]*entity.Waybill, len(waybills))
	for i := range waybills {
		waybillMap[waybills[i].ID] = &waybills[i]
	}

	var notInvoiceable []string
	for _, id := range input.WaybillIDs {
		w, exists := waybillMap[id]
		if !exists || w.Status != enum.WaybillStatusPending {
			notInvoiceable = append(notInvoiceable, id.String())
		}
	}
	if len(notInvoiceable) > 0 {
		return nil, apperror.NewWaybillNotInvoiceableError(notInvoiceable)
	}

	taxRate := 0.05
	if input.TaxRate != nil {
		if *input.TaxRate < 0 {
			return nil, apperror.NewBadRequestError("Tax rate cannot be negative")
		}
		taxRate = *input.TaxRate
	}

	invoice := &entity.Invoice{
		InvoiceNumber:           input.InvoiceNumber,
		CompanyID:               input.CompanyID,
		InvoiceDate:             input.InvoiceDate,
		TaxRate:                 taxRate,
		ExtraExpensesIncludeTax: input.ExtraExpensesIncludeTax,
		Status:                  enum.InvoiceStatusIssued,
		Notes:                   input.Notes,
	}
	for _, id := range input.WaybillIDs {
		invoice.Waybills = append(invoice.Waybills, entity.InvoiceWaybill{
			WaybillID: id,
			Fee:       waybillMap[id].Fee,
		})
	}

	if len(input.ExtraExpenseIDs) > 0 {
		expenses, err := s.waybillRepo.GetExtraExpensesByIDs(ctx, input.ExtraExpenseIDs)
		if err != nil {
			return nil, err
		}
		expenseMap := make(map[uuid.UUID]*entity.WaybillExtraExpense, len(expenses))
		for i := range expenses {
			expenseMap[expenses[i].ID] = &expenses[i]
		}
		for _, id := range input.ExtraExpenseIDs {
			e, exists := expenseMap[id]
			if !exists {
				return nil, apperror.NewNotFoundError("Extra expense")
			}
			if _, onInvoice := waybillMap[e.WaybillID]; !onInvoice {
				return nil, apperror.NewBadRequestError("Extra expense does not belong to an invoiced waybill")
			}
			invoice.ExtraExpenses = append(invoice.ExtraExpenses, entity.InvoiceExtraExpense{
				ExtraExpenseID: id,
				Fee:            e.Fee,
			})
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	failedIDs, err := s.waybillRepo.MarkInvoicedBatch(ctx, input.WaybillIDs, invoice.ID)
	if err != nil || len(failedIDs) > 0 {
		// Roll back the half-created invoice so the number stays reusable.
		_ = s.invoiceRepo.HardDelete(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(failedIDs))
		for i, id := range failedIDs {
			ids[i] = id.String()
		}
		return nil, apperror.NewWaybillNotInvoiceableError(ids)
	}

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices retrieves invoices with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// VoidInvoice voids an issued invoice and releases its waybills back to
// Pending. The line snapshots stay on the void invoice for reconstruction.
func (s *InvoiceService) VoidInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.invoiceRepo.UpdateStatusIf(ctx, id, enum.InvoiceStatusIssued, enum.InvoiceStatusVoid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("invoice", invoice.Status.String(), enum.InvoiceStatusVoid.String())
	}
	if err := s.waybillRepo.ReleaseFromInvoice(ctx, id); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetByID(ctx, id)
}

// RestoreInvoice re-issues a void invoice, reclaiming its original waybills.
// Any waybill that was invoiced elsewhere or moved on in the meantime blocks
// the restore.
func (s *InvoiceService) RestoreInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	// Claim the transition first so a concurrent restore cannot reclaim the
	// same waybills.
	ok, err := s.invoiceRepo.UpdateStatusIf(ctx, id, enum.InvoiceStatusVoid, enum.InvoiceStatusIssued)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("invoice", invoice.Status.String(), enum.InvoiceStatusIssued.String())
	}

	waybillIDs := invoice.WaybillIDs()
	failedIDs, err := s.waybillRepo.MarkInvoicedBatch(ctx, waybillIDs, invoice.ID)
	if err != nil {
		s.revertRestore(ctx, id)
		return nil, err
	}
	if len(failedIDs) > 0 {
		s.revertRestore(ctx, id)
		ids := make([]string, len(failedIDs))
		for i, fid := range failedIDs {
			ids[i] = fid.String()
		}
		return nil, apperror.NewWaybillNoLongerAvailableError(ids)
	}

	return s.invoiceRepo.GetByID(ctx, id)
}

// revertRestore puts an invoice back to Void after a failed restore attempt.
func (s *InvoiceService) revertRestore(ctx context.Context, id uuid.UUID) {
	_, _ = s.invoiceRepo.UpdateStatusIf(ctx, id, enum.InvoiceStatusIssued, enum.InvoiceStatusVoid)
}

// MarkInvoicePaid marks an issued invoice as paid
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, id uuid.UUID, input *MarkInvoicePaidInput) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	ok, err := s.invoiceRepo.MarkPaidIf(ctx, id, repository.InvoicePaymentInfo{
		PaidAt: paidAt,
		Method: input.PaymentMethod,
		Note:   input.PaymentNote,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("invoice", invoice.Status.String(), enum.InvoiceStatusPaid.String())
	}

	return s.invoiceRepo.GetByID(ctx, id)
}

// DeleteInvoice soft deletes a void invoice. Issued and paid invoices must be
// voided first so their waybills are released.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != enum.InvoiceStatusVoid {
		return apperror.NewConflictError("Only void invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}
