package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"gorm.io/gorm"
)

type collectionRequestRepository struct {
	db *gorm.DB
}

// NewCollectionRequestRepository creates a new collection request repository
func NewCollectionRequestRepository(db *gorm.DB) domainRepo.CollectionRequestRepository {
	return &collectionRequestRepository{db: db}
}

func (r *collectionRequestRepository) Create(ctx context.Context, request *entity.CollectionRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *collectionRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CollectionRequest, error) {
	var request entity.CollectionRequest
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Items").
		Preload("Items.Waybill").
		First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *collectionRequestRepository) GetByRequestNumber(ctx context.Context, requestNumber string) (*entity.CollectionRequest, error) {
	var request entity.CollectionRequest
	err := r.db.WithContext(ctx).
		First(&request, "request_number = ?", requestNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *collectionRequestRepository) MarkPaidIf(ctx context.Context, id uuid.UUID, info domainRepo.CashPaymentInfo) (bool, error) {
	updates := map[string]interface{}{
		"status":              enum.CollectionStatusPaid,
		"payment_received_at": info.ReceivedAt,
	}
	if info.Method != "" {
		updates["payment_method"] = info.Method
	}
	if info.Notes != "" {
		updates["payment_notes"] = info.Notes
	}
	result := r.db.WithContext(ctx).Model(&entity.CollectionRequest{}).
		Where("id = ? AND status = ?", id, enum.CollectionStatusRequested).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *collectionRequestRepository) CancelIf(ctx context.Context, id uuid.UUID, reason *string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CollectionRequest{}).
		Where("id = ? AND status = ?", id, enum.CollectionStatusRequested).
		Updates(map[string]interface{}{
			"status":        enum.CollectionStatusCancelled,
			"cancel_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *collectionRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CollectionRequest{}, "id = ?", id).Error
}

func (r *collectionRequestRepository) List(ctx context.Context, params *domainRepo.CollectionFilterParams) ([]entity.CollectionRequest, int64, error) {
	var requests []entity.CollectionRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CollectionRequest{})

	if params.Search != "" {
		query = query.Where("request_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}

	if params.StartDate != nil {
		query = query.Where("request_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("request_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "request_date"
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
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&requests).Error

	return requests, total, err
}
