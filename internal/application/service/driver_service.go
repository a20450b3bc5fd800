package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// DriverService handles driver master data
type DriverService struct {
	driverRepo repository.DriverRepository
}

// NewDriverService creates a new driver service
func NewDriverService(driverRepo repository.DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

// DriverInput represents the create or update driver input
type DriverInput struct {
	Name                    string
	Phone                   *string
	LicensePlate            *string
	DefaultProfitShareRatio *float64
	Active                  *bool
	Notes                   *string
}

// CreateDriver creates a new driver
func (s *DriverService) CreateDriver(ctx context.Context, input *DriverInput) (*entity.Driver, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Driver name is required")
	}

	ratio := 50.0
	if input.DefaultProfitShareRatio != nil {
		if *input.DefaultProfitShareRatio < 0 || *input.DefaultProfitShareRatio > 100 {
			return nil, apperror.ErrInvalidRatio
		}
		ratio = *input.DefaultProfitShareRatio
	}

	driver := &entity.Driver{
		Name:                    input.Name,
		Phone:                   input.Phone,
		LicensePlate:            input.LicensePlate,
		DefaultProfitShareRatio: ratio,
		Active:                  true,
		Notes:                   input.Notes,
	}
	if input.Active != nil {
		driver.Active = *input.Active
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetDriver retrieves a driver by ID
func (s *DriverService) GetDriver(ctx context.Context, id uuid.UUID) (*entity.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperror.NewNotFoundError("Driver")
	}
	return driver, nil
}

// ListDrivers retrieves drivers with pagination and search
func (s *DriverService) ListDrivers(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.Driver, int64, error) {
	return s.driverRepo.List(ctx, params, search, activeOnly)
}

// UpdateDriver updates a driver
func (s *DriverService) UpdateDriver(ctx context.Context, id uuid.UUID, input *DriverInput) (*entity.Driver, error) {
	driver, err := s.GetDriver(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		driver.Name = input.Name
	}
	if input.Phone != nil {
		driver.Phone = input.Phone
	}
	if input.LicensePlate != nil {
		driver.LicensePlate = input.LicensePlate
	}
	if input.DefaultProfitShareRatio != nil {
		if *input.DefaultProfitShareRatio < 0 || *input.DefaultProfitShareRatio > 100 {
			return nil, apperror.ErrInvalidRatio
		}
		driver.DefaultProfitShareRatio = *input.DefaultProfitShareRatio
	}
	if input.Active != nil {
		driver.Active = *input.Active
	}
	if input.Notes != nil {
		driver.Notes = input.Notes
	}

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver soft deletes a driver
func (s *DriverService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDriver(ctx, id); err != nil {
		return err
	}
	return s.driverRepo.Delete(ctx, id)
}
