package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// CompanyService handles customer company master data
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// CompanyInput represents the create or update company input
type CompanyInput struct {
	Name          string
	TaxID         *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Notes         *string
}

// CreateCompany creates a new company
func (s *CompanyService) CreateCompany(ctx context.Context, input *CompanyInput) (*entity.Company, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Company name is required")
	}

	existing, err := s.companyRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Company name already exists")
	}

	company := &entity.Company{
		Name:          input.Name,
		TaxID:         input.TaxID,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		Notes:         input.Notes,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// ListCompanies retrieves companies with pagination and search
func (s *CompanyService) ListCompanies(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Company, int64, error) {
	return s.companyRepo.List(ctx, params, search)
}

// UpdateCompany updates a company
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, input *CompanyInput) (*entity.Company, error) {
	company, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != company.Name {
		existing, err := s.companyRepo.GetByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.NewConflictError("Company name already exists")
		}
		company.Name = input.Name
	}
	if input.TaxID != nil {
		company.TaxID = input.TaxID
	}
	if input.ContactPerson != nil {
		company.ContactPerson = input.ContactPerson
	}
	if input.Phone != nil {
		company.Phone = input.Phone
	}
	if input.Email != nil {
		company.Email = input.Email
	}
	if input.Address != nil {
		company.Address = input.Address
	}
	if input.Notes != nil {
		company.Notes = input.Notes
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany soft deletes a company
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCompany(ctx, id); err != nil {
		return err
	}
	return s.companyRepo.Delete(ctx, id)
}
