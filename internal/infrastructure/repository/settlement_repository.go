package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"gorm.io/gorm"
)

type driverSettlementRepository struct {
	db *gorm.DB
}

// NewDriverSettlementRepository creates a new settlement repository
func NewDriverSettlementRepository(db *gorm.DB) domainRepo.DriverSettlementRepository {
	return &driverSettlementRepository{db: db}
}

func (r *driverSettlementRepository) Create(ctx context.Context, settlement *entity.DriverSettlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *driverSettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DriverSettlement, error) {
	var settlement entity.DriverSettlement
	err := r.db.WithContext(ctx).
		Preload("Driver").
		Preload("Expenses").
		First(&settlement, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settlement, err
}

func (r *driverSettlementRepository) GetByDriverAndMonth(ctx context.Context, driverID uuid.UUID, targetMonth string) (*entity.DriverSettlement, error) {
	var settlement entity.DriverSettlement
	err := r.db.WithContext(ctx).
		Preload("Driver").
		Preload("Expenses").
		First(&settlement, "driver_id = ? AND target_month = ?", driverID, targetMonth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settlement, err
}

func (r *driverSettlementRepository) Update(ctx context.Context, settlement *entity.DriverSettlement) error {
	return r.db.WithContext(ctx).Omit("Expenses").Save(settlement).Error
}

// ReplaceExpenses swaps the full expense line set inside one transaction so a
// partially applied edit never survives.
func (r *driverSettlementRepository) ReplaceExpenses(ctx context.Context, settlementID uuid.UUID, expenses []entity.SettlementExpense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.SettlementExpense{}, "settlement_id = ?", settlementID).Error; err != nil {
			return err
		}
		if len(expenses) == 0 {
			return nil
		}
		for i := range expenses {
			expenses[i].ID = uuid.Nil
			expenses[i].SettlementID = settlementID
		}
		return tx.Create(&expenses).Error
	})
}

func (r *driverSettlementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.SettlementExpense{}, "settlement_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.DriverSettlement{}, "id = ?", id).Error
	})
}

func (r *driverSettlementRepository) List(ctx context.Context, params *domainRepo.SettlementFilterParams) ([]entity.DriverSettlement, int64, error) {
	var settlements []entity.DriverSettlement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DriverSettlement{})

	if params.DriverID != nil {
		query = query.Where("driver_id = ?", *params.DriverID)
	}

	if params.TargetMonth != "" {
		query = query.Where("target_month = ?", params.TargetMonth)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "target_month"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Driver").
		Preload("Expenses").
		Order(sortBy + " " + sortOrder).
		Find(&settlements).Error

	return settlements, total, err
}
