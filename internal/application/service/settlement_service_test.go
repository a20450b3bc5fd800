package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/infrastructure/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"gorm.io/gorm"
)

func newSettlementService(db *gorm.DB) *SettlementService {
	return NewSettlementService(
		repository.NewDriverSettlementRepository(db),
		repository.NewDriverRepository(db),
		repository.NewWaybillRepository(db),
		repository.NewFeeSplitRepository(db),
	)
}

func TestSettlementDerivedAmounts(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")

	settlement, err := svc.CreateSettlement(ctx, &SaveSettlementInput{
		DriverID:         driver.ID,
		TargetMonth:      "2025-06",
		Income:           50000,
		IncomeCash:       2000,
		ProfitShareRatio: 50,
		Expenses: []SettlementExpenseInput{
			{Kind: enum.ExpenseKindCompany, Name: "油資", Amount: 5500},
			{Kind: enum.ExpenseKindCompany, Name: entity.TaxExpenseName, Amount: 0},
			{Kind: enum.ExpenseKindPersonal, Name: "餐費", Amount: 3000},
		},
	})
	require.NoError(t, err)

	// The tax line is derived from income: 50000 x 0.05 = 2500, giving
	// company expenses of 8000 in total.
	assert.Equal(t, 8000.0, settlement.CompanyTotal())
	assert.Equal(t, 3000.0, settlement.PersonalTotal())
	assert.Equal(t, 52000.0, settlement.TotalIncome())
	assert.Equal(t, 41000.0, settlement.ProfitableAmount())
	assert.Equal(t, 20500.0, settlement.Bonus())
	assert.Equal(t, 21500.0, settlement.FinalAmount())
}

func TestSaveSettlementValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")

	t.Run("ratio out of range", func(t *testing.T) {
		_, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
			DriverID:         driver.ID,
			TargetMonth:      "2025-06",
			ProfitShareRatio: 150,
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidRatio)
	})

	t.Run("bad month format", func(t *testing.T) {
		_, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
			DriverID:         driver.ID,
			TargetMonth:      "June 2025",
			ProfitShareRatio: 50,
		})
		assert.Error(t, err)
	})

	t.Run("expense name required", func(t *testing.T) {
		_, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
			DriverID:         driver.ID,
			TargetMonth:      "2025-06",
			ProfitShareRatio: 50,
			Expenses:         []SettlementExpenseInput{{Kind: enum.ExpenseKindCompany, Amount: 100}},
		})
		assert.Error(t, err)
	})
}

func TestCreateSettlementRejectsDuplicateMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")
	input := &SaveSettlementInput{
		DriverID:         driver.ID,
		TargetMonth:      "2025-06",
		Income:           10000,
		ProfitShareRatio: 50,
	}

	_, err := svc.CreateSettlement(ctx, input)
	require.NoError(t, err)

	_, err = svc.CreateSettlement(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrDuplicateSettlement)

	// Another month for the same driver is fine
	input2 := *input
	input2.TargetMonth = "2025-07"
	_, err = svc.CreateSettlement(ctx, &input2)
	assert.NoError(t, err)
}

func TestSaveSettlementUpsertsAndReplacesExpenses(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")

	first, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
		DriverID:         driver.ID,
		TargetMonth:      "2025-06",
		Income:           10000,
		ProfitShareRatio: 50,
		Expenses: []SettlementExpenseInput{
			{Kind: enum.ExpenseKindCompany, Name: "油資", Amount: 1000},
			{Kind: enum.ExpenseKindPersonal, Name: "餐費", Amount: 200},
		},
	})
	require.NoError(t, err)
	require.Len(t, first.Expenses, 2)

	second, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
		DriverID:         driver.ID,
		TargetMonth:      "2025-06",
		Income:           12000,
		ProfitShareRatio: 60,
		Expenses: []SettlementExpenseInput{
			{Kind: enum.ExpenseKindCompany, Name: "保險", Amount: 700},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 12000.0, second.Income)
	assert.Equal(t, 60.0, second.ProfitShareRatio)
	require.Len(t, second.Expenses, 1)
	assert.Equal(t, "保險", second.Expenses[0].Name)

	// The replaced lines are gone, not soft-hidden
	var count int64
	db.Unscoped().Model(&entity.SettlementExpense{}).Where("settlement_id = ?", first.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSaveSettlementSyncsTaxLine(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")

	settlement, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
		DriverID:         driver.ID,
		TargetMonth:      "2025-06",
		Income:           30000,
		ProfitShareRatio: 50,
		Expenses: []SettlementExpenseInput{
			// A user edit to the tax line is overwritten on save
			{Kind: enum.ExpenseKindCompany, Name: entity.TaxExpenseName, Amount: 999},
		},
	})
	require.NoError(t, err)
	require.Len(t, settlement.Expenses, 1)
	assert.Equal(t, 1500.0, settlement.Expenses[0].Amount)
}

func TestInitializeSettlementSeedsDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	driver := createTestDriver(t, db, "Chen")
	company := createTestCompany(t, db, "Acme Freight")
	createTestWaybill(t, db, company.ID, driver.ID, 20000, enum.WaybillStatusInvoiced)

	draft, err := svc.InitializeSettlement(ctx, driver.ID, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, 20000.0, draft.Income)
	assert.Equal(t, 50.0, draft.ProfitShareRatio)

	names := make([]string, 0, len(draft.Expenses))
	for _, e := range draft.Expenses {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, entity.TaxExpenseName)

	// The seeded tax line is derived from the prefilled income
	for _, e := range draft.Expenses {
		if e.Name == entity.TaxExpenseName {
			assert.Equal(t, 1000.0, e.Amount)
		}
	}

	// The draft is not persisted
	var count int64
	db.Model(&entity.DriverSettlement{}).Count(&count)
	assert.Equal(t, int64(0), count)

	t.Run("existing settlement is returned instead", func(t *testing.T) {
		saved, err := svc.SaveSettlement(ctx, &SaveSettlementInput{
			DriverID:         driver.ID,
			TargetMonth:      "2025-06",
			Income:           123,
			ProfitShareRatio: 40,
		})
		require.NoError(t, err)

		again, err := svc.InitializeSettlement(ctx, driver.ID, "2025-06")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)
		assert.Equal(t, 123.0, again.Income)
	})
}

func TestApplyFeeSplitBudget(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	origin := createTestDriver(t, db, "Chen")
	helperA := createTestDriver(t, db, "Lin")
	helperB := createTestDriver(t, db, "Wang")
	waybill := createTestWaybill(t, db, company.ID, origin.ID, 10000, enum.WaybillStatusPending)

	_, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
		WaybillID:      waybill.ID,
		TargetDriverID: helperA.ID,
		Amount:         4000,
	})
	require.NoError(t, err)

	t.Run("within the remaining fee", func(t *testing.T) {
		split, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
			WaybillID:      waybill.ID,
			TargetDriverID: helperB.ID,
			Amount:         3000,
		})
		require.NoError(t, err)
		assert.Equal(t, origin.ID, split.DriverID)
		require.NoError(t, svc.RemoveFeeSplit(ctx, split.ID))
	})

	t.Run("exceeding the fee is rejected", func(t *testing.T) {
		_, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
			WaybillID:      waybill.ID,
			TargetDriverID: helperB.ID,
			Amount:         7000,
		})
		assert.Error(t, err)
	})

	t.Run("one split per target driver", func(t *testing.T) {
		_, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
			WaybillID:      waybill.ID,
			TargetDriverID: helperA.ID,
			Amount:         100,
		})
		assert.ErrorIs(t, err, apperror.ErrDuplicateSplitTarget)
	})

	t.Run("no split to the waybill's own driver", func(t *testing.T) {
		_, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
			WaybillID:      waybill.ID,
			TargetDriverID: origin.ID,
			Amount:         100,
		})
		assert.Error(t, err)
	})
}

func TestComputeMonthlyIncome(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	company := createTestCompany(t, db, "Acme Freight")
	origin := createTestDriver(t, db, "Chen")
	helper := createTestDriver(t, db, "Lin")

	waybill := createTestWaybill(t, db, company.ID, origin.ID, 10000, enum.WaybillStatusPending)
	createTestWaybill(t, db, company.ID, origin.ID, 5000, enum.WaybillStatusInvoiced)

	_, err := svc.ApplyFeeSplit(ctx, &ApplyFeeSplitInput{
		WaybillID:      waybill.ID,
		TargetDriverID: helper.ID,
		Amount:         3000,
	})
	require.NoError(t, err)

	originIncome, err := svc.ComputeMonthlyIncome(ctx, origin.ID, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 15000.0, originIncome.WaybillFees)
	assert.Equal(t, 3000.0, originIncome.OutgoingSplits)
	assert.Equal(t, 12000.0, originIncome.Income)

	helperIncome, err := svc.ComputeMonthlyIncome(ctx, helper.ID, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 0.0, helperIncome.WaybillFees)
	assert.Equal(t, 3000.0, helperIncome.IncomingSplits)

	// A different month sees nothing
	empty, err := svc.ComputeMonthlyIncome(ctx, origin.ID, "2025-07")
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.WaybillFees)
	assert.Equal(t, 0.0, empty.OutgoingSplits)
}
