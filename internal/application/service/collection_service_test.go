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
	"gorm.io/gorm"
)

func newCollectionService(db *gorm.DB) *CollectionService {
	return NewCollectionService(
		repository.NewCollectionRequestRepository(db),
		repository.NewWaybillRepository(db),
		repository.NewCompanyRepository(db),
	)
}

func TestCreateCollectionRequestTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	w1 := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
	w2 := createTestWaybill(t, db, company.ID, driver.ID, 2000, enum.WaybillStatusNeedTaxUnpaid)
	w3 := createTestWaybill(t, db, company.ID, driver.ID, 1500, enum.WaybillStatusNeedTaxUnpaid)

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CompanyID:   company.ID,
		TaxRate:     0,
		WaybillIDs:  []uuid.UUID{w1.ID, w2.ID, w3.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 4500.0, request.Subtotal())
	assert.Equal(t, 0.0, request.TaxAmount())
	assert.Equal(t, 4500.0, request.TotalAmount())
	assert.Equal(t, enum.CollectionStatusRequested, request.Status)
	assert.NotEmpty(t, request.RequestNumber)

	// Creation never touches waybill statuses
	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", w1.ID).Error)
	assert.Equal(t, enum.WaybillStatusNeedTaxUnpaid, fresh.Status)
}

func TestCreateCollectionRequestFlagsForeignWaybills(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	other := createTestCompany(t, db, "Beta Transport")
	driver := createTestDriver(t, db, "Chen")

	own := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
	foreign := createTestWaybill(t, db, other.ID, driver.ID, 2000, enum.WaybillStatusNeedTaxUnpaid)

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Now(),
		CompanyID:   company.ID,
		WaybillIDs:  []uuid.UUID{own.ID, foreign.ID},
	})
	require.NoError(t, err)
	require.Len(t, request.Items, 2)

	flags := map[uuid.UUID]bool{}
	for _, item := range request.Items {
		flags[item.WaybillID] = item.IsDifferentCompany
	}
	assert.False(t, flags[own.ID])
	assert.True(t, flags[foreign.ID])
}

func TestMarkCollectionPaidBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")

	waybills := make([]*entity.Waybill, 5)
	ids := make([]uuid.UUID, 5)
	for i := range waybills {
		waybills[i] = createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
		ids[i] = waybills[i].ID
	}

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Now(),
		CompanyID:   company.ID,
		WaybillIDs:  ids,
	})
	require.NoError(t, err)

	// One waybill disappears before payment lands
	require.NoError(t, db.Delete(&entity.Waybill{}, "id = ?", ids[4]).Error)

	result, err := svc.MarkCollectionPaid(ctx, request.ID, &MarkCollectionPaidInput{
		Method: "transfer",
		Notes:  "July batch",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.AffectedCount)
	require.Len(t, result.Details, 5)

	var failures int
	for _, d := range result.Details {
		if !d.Success {
			failures++
			assert.Equal(t, ids[4], d.ItemID)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Contains(t, result.Message, "4 of 5")

	// The request itself still moves to Paid
	updated, err := svc.GetCollectionRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CollectionStatusPaid, updated.Status)
	assert.NotNil(t, updated.PaymentReceivedAt)

	// Surviving waybills were flipped to paid
	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", ids[0]).Error)
	assert.Equal(t, enum.WaybillStatusNeedTaxPaid, fresh.Status)

	t.Run("paid requests cannot be paid again", func(t *testing.T) {
		_, err := svc.MarkCollectionPaid(ctx, request.ID, &MarkCollectionPaidInput{})
		assert.Error(t, err)
	})
}

func TestMarkCollectionPaidCoversNonTaxWaybills(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")

	taxed := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)
	invoiced := createTestWaybill(t, db, company.ID, driver.ID, 2000, enum.WaybillStatusInvoiced)

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Now(),
		CompanyID:   company.ID,
		WaybillIDs:  []uuid.UUID{taxed.ID, invoiced.ID},
	})
	require.NoError(t, err)

	result, err := svc.MarkCollectionPaid(ctx, request.ID, &MarkCollectionPaidInput{Notes: "batch"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.AffectedCount)
	assert.Equal(t, "Payment recorded", result.Message)

	// Waybills outside the need-tax branch keep their status
	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", invoiced.ID).Error)
	assert.Equal(t, enum.WaybillStatusInvoiced, fresh.Status)
}

func TestCollectionRequestClaimIsConditional(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	repo := repository.NewCollectionRequestRepository(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Now(),
		CompanyID:   company.ID,
		WaybillIDs:  []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	ok, err := repo.MarkPaidIf(ctx, request.ID, domainRepo.CashPaymentInfo{
		ReceivedAt: time.Now(),
		Method:     "transfer",
		Notes:      "July batch",
	})
	require.NoError(t, err)
	require.True(t, ok)

	// Writers that still see the request as Requested lose
	ok, err = repo.MarkPaidIf(ctx, request.ID, domainRepo.CashPaymentInfo{ReceivedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CancelIf(ctx, request.ID, strPtr("changed my mind"))
	require.NoError(t, err)
	assert.False(t, ok)

	var current entity.CollectionRequest
	require.NoError(t, db.First(&current, "id = ?", request.ID).Error)
	assert.Equal(t, enum.CollectionStatusPaid, current.Status)
	assert.Nil(t, current.CancelReason)
	require.NotNil(t, current.PaymentNotes)
	assert.Equal(t, "July batch", *current.PaymentNotes)
}

func TestCancelAndDeleteCollectionRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newCollectionService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	driver := createTestDriver(t, db, "Chen")
	waybill := createTestWaybill(t, db, company.ID, driver.ID, 1000, enum.WaybillStatusNeedTaxUnpaid)

	request, err := svc.CreateCollectionRequest(ctx, &CreateCollectionInput{
		RequestDate: time.Now(),
		CompanyID:   company.ID,
		WaybillIDs:  []uuid.UUID{waybill.ID},
	})
	require.NoError(t, err)

	// Only cancelled requests can be deleted
	assert.Error(t, svc.DeleteCollectionRequest(ctx, request.ID))

	cancelled, err := svc.CancelCollectionRequest(ctx, request.ID, strPtr("wrong company"))
	require.NoError(t, err)
	assert.Equal(t, enum.CollectionStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "wrong company", *cancelled.CancelReason)

	// Cancelling leaves the waybill alone
	var fresh entity.Waybill
	require.NoError(t, db.First(&fresh, "id = ?", waybill.ID).Error)
	assert.Equal(t, enum.WaybillStatusNeedTaxUnpaid, fresh.Status)

	// Cancelled requests cannot be paid
	_, err = svc.MarkCollectionPaid(ctx, request.ID, &MarkCollectionPaidInput{Notes: "x"})
	assert.Error(t, err)

	require.NoError(t, svc.DeleteCollectionRequest(ctx, request.ID))
	_, err = svc.GetCollectionRequest(ctx, request.ID)
	assert.Error(t, err)
}
