package service

import (
	"context"

	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
)

// DashboardService provides back-office dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	PendingWaybills       int64                 `json:"pending_waybills"`
	InvoicedWaybills      int64                 `json:"invoiced_waybills"`
	NeedTaxUnpaidWaybills int64                 `json:"need_tax_unpaid_waybills"`
	TotalWaybills         int64                 `json:"total_waybills"`
	UnpaidInvoices        int64                 `json:"unpaid_invoices"`
	OutstandingCollection float64               `json:"outstanding_collection"`
	MonthlyRevenue        []MonthlyRevenuePoint `json:"monthly_revenue"`
	TopDrivers            []DriverRevenuePoint  `json:"top_drivers"`
}

// MonthlyRevenuePoint represents one month's billed freight revenue
type MonthlyRevenuePoint struct {
	Month        string  `json:"month"`
	WaybillCount int64   `json:"waybill_count"`
	Revenue      float64 `json:"revenue"`
}

// DriverRevenuePoint represents one driver's freight revenue
type DriverRevenuePoint struct {
	DriverID     string  `json:"driver_id"`
	DriverName   string  `json:"driver_name"`
	WaybillCount int64   `json:"waybill_count"`
	Revenue      float64 `json:"revenue"`
}

// GetDashboardStats returns the aggregate figures the back-office landing
// page is built from
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	statusCounts, err := s.analyticsRepo.CountWaybillsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		stats.TotalWaybills += sc.Count
		switch sc.Status {
		case enum.WaybillStatusPending:
			stats.PendingWaybills = sc.Count
		case enum.WaybillStatusInvoiced:
			stats.InvoicedWaybills = sc.Count
		case enum.WaybillStatusNeedTaxUnpaid:
			stats.NeedTaxUnpaidWaybills = sc.Count
		}
	}

	stats.UnpaidInvoices, err = s.analyticsRepo.GetUnpaidInvoiceCount(ctx)
	if err != nil {
		return nil, err
	}

	stats.OutstandingCollection, err = s.analyticsRepo.GetOutstandingCollectionTotal(ctx)
	if err != nil {
		return nil, err
	}

	monthly, err := s.analyticsRepo.GetMonthlyRevenue(ctx, 6)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = make([]MonthlyRevenuePoint, 0, len(monthly))
	for _, m := range monthly {
		stats.MonthlyRevenue = append(stats.MonthlyRevenue, MonthlyRevenuePoint{
			Month:        m.Month,
			WaybillCount: m.WaybillCount,
			Revenue:      m.Revenue,
		})
	}

	topDrivers, err := s.analyticsRepo.GetTopDriversByRevenue(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopDrivers = make([]DriverRevenuePoint, 0, len(topDrivers))
	for _, d := range topDrivers {
		stats.TopDrivers = append(stats.TopDrivers, DriverRevenuePoint{
			DriverID:     d.DriverID.String(),
			DriverName:   d.DriverName,
			WaybillCount: d.WaybillCount,
			Revenue:      d.Revenue,
		})
	}

	return stats, nil
}
