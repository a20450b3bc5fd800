package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/infrastructure/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"gorm.io/gorm"
)

func newInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewWaybillRepository(db),
		repository.NewCompanyRepository(db),
	)
}

func TestCreateInvoiceComputesTax(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 10000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-001",
		CompanyID:     company.ID,
		InvoiceDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	// Default rate is 5%: 10000 base, 500 tax, 10500 total
	assert.Equal(t, 10000.0, invoice.Subtotal())
	assert.Equal(t, 500.0, invoice.Tax())
	assert.Equal(t, 10500.0, invoice.Total())
	assert.Equal(t, enum.InvoiceStatusIssued, invoice.Status)

	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", waybill.ID).Error)
	assert.Equal(t, enum.WaybillStatusInvoiced, fresh.Status)
	require.NotNil(t, fresh.InvoiceID)
	assert.Equal(t, invoice.ID, *fresh.InvoiceID)
}

func TestCreateInvoiceExtraExpenseTaxBase(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 10000, enum.WaybillStatusPending)
	expense := &entity.WaybillExtraExpense{WaybillID: waybill.ID, Item: "crane", Fee: 2000}
	require.NoError(t, db.Create(expense).Error)

	t.Run("extra expenses outside the tax base", func(t *testing.T) {
		invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber:   "INV-002",
			CompanyID:       company.ID,
			InvoiceDate:     time.Now(),
			WaybillIDs:      []uuid.UUID{waybill.ID},
			ExtraExpenseIDs: []uuid.UUID{expense.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 12000.0, invoice.Subtotal())
		assert.Equal(t, 500.0, invoice.Tax())
		assert.Equal(t, 12500.0, invoice.Total())

		_, err = svc.VoidInvoice(ctx, invoice.ID)
		require.NoError(t, err)
	})

	t.Run("extra expenses inside the tax base", func(t *testing.T) {
		invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber:           "INV-003",
			CompanyID:               company.ID,
			InvoiceDate:             time.Now(),
			ExtraExpensesIncludeTax: true,
			WaybillIDs:              []uuid.UUID{waybill.ID},
			ExtraExpenseIDs:         []uuid.UUID{expense.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 12000.0, invoice.Subtotal())
		assert.Equal(t, 600.0, invoice.Tax())
		assert.Equal(t, 12600.0, invoice.Total())
	})
}

func TestCreateInvoiceAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	pending := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusPending)
	taken := createTestWaybill(t, db, company.ID, driver.ID, 2000, enum.WaybillStatusInvoiced)

	_, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-010",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{pending.ID, taken.ID},
	})
	require.Error(t, err)

	// The eligible waybill must not have been flipped
	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", pending.ID).Error)
	assert.Equal(t, enum.WaybillStatusPending, fresh.Status)

	// No invoice row may survive the failed creation
	var count int64
	db.Model(&entity.Invoice{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusPending)

	t.Run("empty waybill set", func(t *testing.T) {
		_, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber: "INV-020",
			CompanyID:     company.ID,
			InvoiceDate:   time.Now(),
		})
		assert.ErrorIs(t, err, apperror.ErrEmptyWaybillSet)
	})

	t.Run("duplicate invoice number per company", func(t *testing.T) {
		_, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber: "INV-021",
			CompanyID:     company.ID,
			InvoiceDate:   time.Now(),
			WaybillIDs:    []uuid.UUID{waybill.ID},
		})
		require.NoError(t, err)

		other := createTestWaybill(t, db, company.ID, driver.ID, 500, enum.WaybillStatusPending)
		_, err = svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber: "INV-021",
			CompanyID:     company.ID,
			InvoiceDate:   time.Now(),
			WaybillIDs:    []uuid.UUID{other.ID},
		})
		assert.Error(t, err)

		// The same number is fine for a different company
		otherCompany := createTestCompany(t, db, "Beta Transport")
		crossWaybill := createTestWaybill(t, db, otherCompany.ID, driver.ID, 500, enum.WaybillStatusPending)
		_, err = svc.CreateInvoice(ctx, &CreateInvoiceInput{
			InvoiceNumber: "INV-021",
			CompanyID:     otherCompany.ID,
			InvoiceDate:   time.Now(),
			WaybillIDs:    []uuid.UUID{crossWaybill.ID},
		})
		assert.NoError(t, err)
	})
}

func TestVoidAndRestoreInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 3000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-030",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	voided, err := svc.VoidInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusVoid, voided.Status)

	// Waybill released back to Pending and unlinked
	var released entity.Waybill
	require.NoError(t, db.First(&released, "id = ?", waybill.ID).Error)
	assert.Equal(t, enum.WaybillStatusPending, released.Status)
	assert.Nil(t, released.InvoiceID)

	// The fee snapshot survives for reconstruction
	assert.Equal(t, 3000.0, voided.Subtotal())

	restored, err := svc.RestoreInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusIssued, restored.Status)

	var reclaimed entity.Waybill
	require.NoError(t, db.First(&reclaimed, "id = ?", waybill.ID).Error)
	assert.Equal(t, enum.WaybillStatusInvoiced, reclaimed.Status)
}

func TestRestoreInvoiceBlockedWhenWaybillMovedOn(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 3000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-040",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	_, err = svc.VoidInvoice(ctx, invoice.ID)
	require.NoError(t, err)

	// The released waybill gets claimed by another invoice
	_, err = svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-041",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	_, err = svc.RestoreInvoice(ctx, invoice.ID)
	assert.Error(t, err)
}

func TestMarkInvoicePaid(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 3000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-050",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	paid, err := svc.MarkInvoicePaid(ctx, invoice.ID, &MarkInvoicePaidInput{
		PaymentMethod: "transfer",
		PaymentNote:   strPtr("wire ref 1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// Paid invoices cannot be paid again
	_, err = svc.MarkInvoicePaid(ctx, invoice.ID, &MarkInvoicePaidInput{PaymentMethod: "cash"})
	assert.Error(t, err)
}

func TestInvoiceStatusWritesAreConditional(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 3000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-070",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	// First writer voids the invoice
	ok, err := repo.UpdateStatusIf(ctx, invoice.ID, enum.InvoiceStatusIssued, enum.InvoiceStatusVoid)
	require.NoError(t, err)
	require.True(t, ok)

	// A second writer that read the invoice while it was still Issued finds
	// the row gone from under it and writes nothing
	ok, err = repo.MarkPaidIf(ctx, invoice.ID, domainRepo.InvoicePaymentInfo{
		PaidAt: time.Now(),
		Method: "transfer",
	})
	require.NoError(t, err)
	assert.False(t, ok)

	var current entity.Invoice
	require.NoError(t, db.First(&current, "id = ?", invoice.ID).Error)
	assert.Equal(t, enum.InvoiceStatusVoid, current.Status)
	assert.Nil(t, current.PaidAt)
	assert.Nil(t, current.PaymentMethod)
}

func TestDeleteInvoiceRequiresVoid(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 3000, enum.WaybillStatusPending)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: "INV-060",
		CompanyID:     company.ID,
		InvoiceDate:   time.Now(),
		WaybillIDs:    []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	assert.Error(t, svc.DeleteInvoice(ctx, invoice.ID))

	_, err = svc.VoidInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteInvoice(ctx, invoice.ID))

	_, err = svc.GetInvoice(ctx, invoice.ID)
	assert.Error(t, err)
}
