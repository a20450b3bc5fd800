package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
)

// WaybillStatusCount represents the number of waybills in one status
type WaybillStatusCount struct {
	Status enum.WaybillStatus
	Count  int64
}

// MonthlyRevenueResult represents billed freight revenue for one month
type MonthlyRevenueResult struct {
	Month        string
	WaybillCount int64
	Revenue      float64
}

// DriverRevenueResult represents a driver's freight revenue
type DriverRevenueResult struct {
	DriverID     uuid.UUID
	DriverName   string
	WaybillCount int64
	Revenue      float64
}

// AnalyticsRepository defines interface for dashboard aggregation queries
type AnalyticsRepository interface {
	// CountWaybillsByStatus returns waybill counts grouped by status
	CountWaybillsByStatus(ctx context.Context) ([]WaybillStatusCount, error)

	// GetOutstandingCollectionTotal returns the total amount of collection
	// requests still in Requested status
	GetOutstandingCollectionTotal(ctx context.Context) (float64, error)

	// GetUnpaidInvoiceCount returns the number of issued, unpaid invoices
	GetUnpaidInvoiceCount(ctx context.Context) (int64, error)

	// GetMonthlyRevenue returns waybill revenue for the last N months
	GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenueResult, error)

	// GetTopDriversByRevenue returns the highest-revenue drivers
	GetTopDriversByRevenue(ctx context.Context, limit int) ([]DriverRevenueResult, error)
}
