package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"gorm.io/gorm"
)

type waybillRepository struct {
	db *gorm.DB
}

// NewWaybillRepository creates a new waybill repository
func NewWaybillRepository(db *gorm.DB) domainRepo.WaybillRepository {
	return &waybillRepository{db: db}
}

func (r *waybillRepository) Create(ctx context.Context, waybill *entity.Waybill) error {
	return r.db.WithContext(ctx).Create(waybill).Error
}

func (r *waybillRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Waybill, error) {
	var waybill entity.Waybill
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Driver").
		Preload("ExtraExpenses").
		Preload("FeeSplits").
		First(&waybill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &waybill, err
}

func (r *waybillRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Waybill, error) {
	var waybills []entity.Waybill
	err := r.db.WithContext(ctx).
		Preload("ExtraExpenses").
		Preload("FeeSplits").
		Where("id IN ?", ids).
		Find(&waybills).Error
	return waybills, err
}

func (r *waybillRepository) Update(ctx context.Context, waybill *entity.Waybill) error {
	return r.db.WithContext(ctx).Save(waybill).Error
}

func (r *waybillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Waybill{}, "id = ?", id).Error
}

func (r *waybillRepository) List(ctx context.Context, params *domainRepo.WaybillFilterParams) ([]entity.Waybill, int64, error) {
	var waybills []entity.Waybill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Waybill{})

	if params.Search != "" {
		query = query.Where("notes ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}

	if params.DriverID != nil {
		query = query.Where("driver_id = ?", *params.DriverID)
	}

	if params.StartDate != nil {
		query = query.Where("waybill_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("waybill_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "waybill_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Company").
		Preload("Driver").
		Preload("ExtraExpenses").
		Order(sortBy + " " + sortOrder).
		Find(&waybills).Error

	return waybills, total, err
}

func (r *waybillRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.WaybillStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkInvoicedBatch flips waybills Pending -> Invoiced inside one transaction.
// A single stale waybill rolls back the whole batch; the caller gets the IDs
// that lost the race.
func (r *waybillRepository) MarkInvoicedBatch(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			result := tx.Model(&entity.Waybill{}).
				Where("id = ? AND status = ?", id, enum.WaybillStatusPending).
				Updates(map[string]interface{}{
					"status":     enum.WaybillStatusInvoiced,
					"invoice_id": invoiceID,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}
		return nil
	})

	if len(failedIDs) > 0 {
		return failedIDs, nil
	}
	return nil, err
}

func (r *waybillRepository) ReleaseFromInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{
			"status":     enum.WaybillStatusPending,
			"invoice_id": nil,
		}).Error
}

func (r *waybillRepository) MarkCashPaidIf(ctx context.Context, id uuid.UUID, info domainRepo.CashPaymentInfo) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("id = ? AND status = ?", id, enum.WaybillStatusNeedTaxUnpaid).
		Updates(map[string]interface{}{
			"status":              enum.WaybillStatusNeedTaxPaid,
			"payment_received_at": info.ReceivedAt,
			"payment_method":      info.Method,
			"payment_notes":       info.Notes,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *waybillRepository) MarkNeedTaxIf(ctx context.Context, id uuid.UUID, taxAmount float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("id = ? AND status = ?", id, enum.WaybillStatusPending).
		Updates(map[string]interface{}{
			"status":     enum.WaybillStatusNeedTaxUnpaid,
			"tax_amount": taxAmount,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *waybillRepository) RevertCashPaidIf(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("id = ? AND status = ?", id, enum.WaybillStatusNeedTaxPaid).
		Updates(map[string]interface{}{
			"status":              enum.WaybillStatusNeedTaxUnpaid,
			"payment_received_at": nil,
			"payment_method":      nil,
			"payment_notes":       nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *waybillRepository) RestoreToPendingIf(ctx context.Context, id uuid.UUID, from enum.WaybillStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":              enum.WaybillStatusPending,
			"tax_amount":          nil,
			"payment_received_at": nil,
			"payment_method":      nil,
			"payment_notes":       nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReplaceExtraExpenses swaps the extra-expense rows of a waybill inside one
// transaction so no stale line survives an edit.
func (r *waybillRepository) ReplaceExtraExpenses(ctx context.Context, waybillID uuid.UUID, expenses []entity.WaybillExtraExpense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.WaybillExtraExpense{}, "waybill_id = ?", waybillID).Error; err != nil {
			return err
		}
		if len(expenses) == 0 {
			return nil
		}
		for i := range expenses {
			expenses[i].ID = uuid.Nil
			expenses[i].WaybillID = waybillID
		}
		return tx.Create(&expenses).Error
	})
}

func (r *waybillRepository) GetExtraExpensesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.WaybillExtraExpense, error) {
	var expenses []entity.WaybillExtraExpense
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&expenses).Error
	return expenses, err
}

func (r *waybillRepository) SumFeesByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Select("COALESCE(SUM(fee), 0)").
		Where("driver_id = ? AND waybill_date >= ? AND waybill_date < ?", driverID, start, end).
		Scan(&total).Error
	return total, err
}

type feeSplitRepository struct {
	db *gorm.DB
}

// NewFeeSplitRepository creates a new fee split repository
func NewFeeSplitRepository(db *gorm.DB) domainRepo.FeeSplitRepository {
	return &feeSplitRepository{db: db}
}

func (r *feeSplitRepository) Create(ctx context.Context, split *entity.WaybillFeeSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *feeSplitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.WaybillFeeSplit, error) {
	var split entity.WaybillFeeSplit
	err := r.db.WithContext(ctx).First(&split, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &split, err
}

func (r *feeSplitRepository) GetByWaybillID(ctx context.Context, waybillID uuid.UUID) ([]entity.WaybillFeeSplit, error) {
	var splits []entity.WaybillFeeSplit
	err := r.db.WithContext(ctx).
		Preload("TargetDriver").
		Where("waybill_id = ?", waybillID).
		Find(&splits).Error
	return splits, err
}

func (r *feeSplitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.WaybillFeeSplit{}, "id = ?", id).Error
}

func (r *feeSplitRepository) SumOutgoingByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.WaybillFeeSplit{}).
		Select("COALESCE(SUM(waybill_fee_splits.amount), 0)").
		Joins("JOIN waybills ON waybills.id = waybill_fee_splits.waybill_id").
		Where("waybill_fee_splits.driver_id = ? AND waybills.waybill_date >= ? AND waybills.waybill_date < ?", driverID, start, end).
		Scan(&total).Error
	return total, err
}

func (r *feeSplitRepository) SumIncomingByDriver(ctx context.Context, targetDriverID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.WaybillFeeSplit{}).
		Select("COALESCE(SUM(waybill_fee_splits.amount), 0)").
		Joins("JOIN waybills ON waybills.id = waybill_fee_splits.waybill_id").
		Where("waybill_fee_splits.target_driver_id = ? AND waybills.waybill_date >= ? AND waybills.waybill_date < ?", targetDriverID, start, end).
		Scan(&total).Error
	return total, err
}
