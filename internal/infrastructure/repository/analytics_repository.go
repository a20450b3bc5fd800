package repository

import (
	"context"
	"time"

	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountWaybillsByStatus(ctx context.Context) ([]domainRepo.WaybillStatusCount, error) {
	var counts []domainRepo.WaybillStatusCount
	err := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// GetOutstandingCollectionTotal sums the item fee snapshots of requests still
// waiting on payment. Tax is excluded; outstanding requests carry rate 0 in
// the common case anyway.
func (r *analyticsRepository) GetOutstandingCollectionTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.CollectionRequestItem{}).
		Select("COALESCE(SUM(collection_request_items.fee), 0)").
		Joins("JOIN collection_requests ON collection_requests.id = collection_request_items.request_id").
		Where("collection_requests.status = ? AND collection_requests.deleted_at IS NULL", enum.CollectionStatusRequested).
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) GetUnpaidInvoiceCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("status = ?", enum.InvoiceStatusIssued).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, months int) ([]domainRepo.MonthlyRevenueResult, error) {
	if months < 1 {
		months = 6
	}

	now := time.Now()
	results := make([]domainRepo.MonthlyRevenueResult, 0, months)

	for i := months - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var row struct {
			WaybillCount int64
			Revenue      float64
		}
		err := r.db.WithContext(ctx).Model(&entity.Waybill{}).
			Select("COUNT(*) as waybill_count, COALESCE(SUM(fee), 0) as revenue").
			Where("waybill_date >= ? AND waybill_date < ?", start, end).
			Scan(&row).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.MonthlyRevenueResult{
			Month:        start.Format("2006-01"),
			WaybillCount: row.WaybillCount,
			Revenue:      row.Revenue,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTopDriversByRevenue(ctx context.Context, limit int) ([]domainRepo.DriverRevenueResult, error) {
	if limit < 1 {
		limit = 5
	}

	var results []domainRepo.DriverRevenueResult
	err := r.db.WithContext(ctx).Model(&entity.Waybill{}).
		Select("waybills.driver_id, drivers.name as driver_name, COUNT(*) as waybill_count, COALESCE(SUM(waybills.fee), 0) as revenue").
		Joins("JOIN drivers ON drivers.id = waybills.driver_id").
		Group("waybills.driver_id, drivers.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
