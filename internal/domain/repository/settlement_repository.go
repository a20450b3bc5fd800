package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// DriverSettlementRepository defines the interface for settlement data
// operations
type DriverSettlementRepository interface {
	Create(ctx context.Context, settlement *entity.DriverSettlement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DriverSettlement, error)
	// GetByDriverAndMonth looks up the single settlement for a
	// (driver, target month) pair; settlements are unique on that pair.
	GetByDriverAndMonth(ctx context.Context, driverID uuid.UUID, targetMonth string) (*entity.DriverSettlement, error)
	Update(ctx context.Context, settlement *entity.DriverSettlement) error
	// ReplaceExpenses swaps the full expense line set of a settlement.
	ReplaceExpenses(ctx context.Context, settlementID uuid.UUID, expenses []entity.SettlementExpense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SettlementFilterParams) ([]entity.DriverSettlement, int64, error)
}

// SettlementFilterParams contains filtering parameters for settlement queries
type SettlementFilterParams struct {
	Pagination  *pagination.PaginationParams
	DriverID    *uuid.UUID
	TargetMonth string
	SortBy      string
	SortOrder   string
}
