package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared in-memory database keeps every pooled connection on the
	// same data, which plain :memory: does not.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Company{},
		&entity.Driver{},
		&entity.Waybill{},
		&entity.WaybillExtraExpense{},
		&entity.WaybillFeeSplit{},
		&entity.Invoice{},
		&entity.InvoiceWaybill{},
		&entity.InvoiceExtraExpense{},
		&entity.CollectionRequest{},
		&entity.CollectionRequestItem{},
		&entity.DriverSettlement{},
		&entity.SettlementExpense{},
	))

	return db
}

func createTestCompany(t *testing.T, db *gorm.DB, name string) *entity.Company {
	t.Helper()
	company := &entity.Company{Name: name}
	require.NoError(t, db.Create(company).Error)
	return company
}

func createTestDriver(t *testing.T, db *gorm.DB, name string) *entity.Driver {
	t.Helper()
	driver := &entity.Driver{Name: name, DefaultProfitShareRatio: 50, Active: true}
	require.NoError(t, db.Create(driver).Error)
	return driver
}

func createTestWaybill(t *testing.T, db *gorm.DB, companyID, driverID uuid.UUID, fee float64, status enum.WaybillStatus) *entity.Waybill {
	t.Helper()
	waybill := &entity.Waybill{
		WaybillDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:   companyID,
		DriverID:    driverID,
		Fee:         fee,
		Status:      status,
	}
	require.NoError(t, db.Create(waybill).Error)
	return waybill
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
