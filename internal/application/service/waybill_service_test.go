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
	"github.com/weicheng-hsu/truckbooks-api/internal/infrastructure/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"gorm.io/gorm"
)

func newWaybillService(db *gorm.DB) *WaybillService {
	return NewWaybillService(
		repository.NewWaybillRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewDriverRepository(db),
	)
}

func TestCreateWaybill(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")

	waybill, err := svc.CreateWaybill(ctx, &CreateWaybillInput{
		WaybillDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CompanyID:   company.ID,
		DriverID:    driver.ID,
		Fee:         10000,
		ExtraExpenses: []ExtraExpenseInput{
			{Item: "crane", Fee: 500},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusPending, waybill.Status)
	assert.Equal(t, 10000.0, waybill.Fee)
	require.Len(t, waybill.ExtraExpenses, 1)
	assert.Equal(t, "crane", waybill.ExtraExpenses[0].Item)

	t.Run("unknown company", func(t *testing.T) {
		_, err := svc.CreateWaybill(ctx, &CreateWaybillInput{
			WaybillDate: time.Now(),
			CompanyID:   uuid.New(),
			DriverID:    driver.ID,
			Fee:         100,
		})
		assert.Error(t, err)
	})

	t.Run("negative fee", func(t *testing.T) {
		_, err := svc.CreateWaybill(ctx, &CreateWaybillInput{
			WaybillDate: time.Now(),
			CompanyID:   company.ID,
			DriverID:    driver.ID,
			Fee:         -1,
		})
		assert.Error(t, err)
	})
}

func TestUpdateWaybillBillingFieldsRequirePending(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 5000, enum.WaybillStatusInvoiced)

	_, err := svc.UpdateWaybill(ctx, waybill.ID, &UpdateWaybillInput{Fee: floatPtr(6000)})
	assert.Error(t, err)

	// Notes stay editable regardless of status
	updated, err := svc.UpdateWaybill(ctx, waybill.ID, &UpdateWaybillInput{Notes: strPtr("rush job")})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rush job", *updated.Notes)
	assert.Equal(t, 5000.0, updated.Fee)
}

func TestUpdateWaybillReplacesExtraExpenses(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")

	waybill, err := svc.CreateWaybill(ctx, &CreateWaybillInput{
		WaybillDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CompanyID:   company.ID,
		DriverID:    driver.ID,
		Fee:         10000,
		ExtraExpenses: []ExtraExpenseInput{
			{Item: "crane", Fee: 500},
			{Item: "toll", Fee: 120},
		},
	})
	require.NoError(t, err)
	require.Len(t, waybill.ExtraExpenses, 2)

	replacement := []ExtraExpenseInput{{Item: "overnight parking", Fee: 300}}
	updated, err := svc.UpdateWaybill(ctx, waybill.ID, &UpdateWaybillInput{ExtraExpenses: &replacement})
	require.NoError(t, err)
	require.Len(t, updated.ExtraExpenses, 1)
	assert.Equal(t, "overnight parking", updated.ExtraExpenses[0].Item)
	assert.Equal(t, 300.0, updated.ExtraExpenses[0].Fee)

	// The old lines are gone from the table, not just hidden
	var count int64
	require.NoError(t, db.Unscoped().Model(&entity.WaybillExtraExpense{}).
		Where("waybill_id = ?", waybill.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	t.Run("empty set clears all lines", func(t *testing.T) {
		empty := []ExtraExpenseInput{}
		updated, err := svc.UpdateWaybill(ctx, waybill.ID, &UpdateWaybillInput{ExtraExpenses: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.ExtraExpenses)
	})
}

func TestDeleteWaybillOnlyWhenPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")

	pending := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusPending)
	invoiced := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusInvoiced)

	require.NoError(t, svc.DeleteWaybill(ctx, pending.ID))
	assert.Error(t, svc.DeleteWaybill(ctx, invoiced.ID))

	_, err := svc.GetWaybill(ctx, pending.ID)
	assert.Error(t, err)
}

func TestMarkNoInvoiceNeeded(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusPending)

	updated, err := svc.MarkNoInvoiceNeeded(ctx, waybill.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusNoInvoiceNeeded, updated.Status)

	// The first call consumed the Pending status; repeating it fails
	_, err = svc.MarkNoInvoiceNeeded(ctx, waybill.ID)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	t.Run("rejected from the tax branch", func(t *testing.T) {
		taxed := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
		_, err := svc.MarkNoInvoiceNeeded(ctx, taxed.ID)
		assert.Error(t, err)
	})
}

func TestMarkNeedTaxRecordsAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 10000, enum.WaybillStatusPending)

	updated, err := svc.MarkNeedTax(ctx, waybill.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusNeedTaxUnpaid, updated.Status)
	require.NotNil(t, updated.TaxAmount)
	assert.Equal(t, 500.0, *updated.TaxAmount)

	t.Run("repeat call leaves the recorded amount alone", func(t *testing.T) {
		_, err := svc.MarkNeedTax(ctx, waybill.ID, 700)
		assert.Error(t, err)

		reloaded, err := svc.GetWaybill(ctx, waybill.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.TaxAmount)
		assert.Equal(t, 500.0, *reloaded.TaxAmount)
	})
}

func TestToggleCashPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 10000, enum.WaybillStatusNeedTaxUnpaid)

	t.Run("notes are mandatory", func(t *testing.T) {
		_, err := svc.ToggleCashPayment(ctx, waybill.ID, &RecordCashPaymentInput{Method: "cash"})
		assert.ErrorIs(t, err, apperror.ErrPaymentNotesRequired)
	})

	paid, err := svc.ToggleCashPayment(ctx, waybill.ID, &RecordCashPaymentInput{
		Method: "cash",
		Notes:  "collected on delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusNeedTaxPaid, paid.Status)
	require.NotNil(t, paid.PaymentNotes)
	assert.Equal(t, "collected on delivery", *paid.PaymentNotes)
	assert.NotNil(t, paid.PaymentReceivedAt)

	// Toggling again reverts to unpaid and clears the audit trail
	reverted, err := svc.ToggleCashPayment(ctx, waybill.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusNeedTaxUnpaid, reverted.Status)
	assert.Nil(t, reverted.PaymentNotes)
	assert.Nil(t, reverted.PaymentReceivedAt)

	t.Run("pending waybills cannot toggle", func(t *testing.T) {
		pending := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusPending)
		_, err := svc.ToggleCashPayment(ctx, pending.ID, &RecordCashPaymentInput{Notes: "x"})
		assert.Error(t, err)
	})
}

func TestRestoreWaybillClearsTaxAndPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := newWaybillService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 10000, enum.WaybillStatusPending)

	_, err := svc.MarkNeedTax(ctx, waybill.ID, 500)
	require.NoError(t, err)
	_, err = svc.RecordCashPayment(ctx, waybill.ID, &RecordCashPaymentInput{Notes: "paid"})
	require.NoError(t, err)

	restored, err := svc.RestoreWaybill(ctx, waybill.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.WaybillStatusPending, restored.Status)
	assert.Nil(t, restored.TaxAmount)
	assert.Nil(t, restored.PaymentNotes)
	assert.Nil(t, restored.PaymentReceivedAt)

	t.Run("unpaid tax waybills must be paid first", func(t *testing.T) {
		unpaid := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
		_, err := svc.RestoreWaybill(ctx, unpaid.ID)
		assert.Error(t, err)
	})
}
