package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// CollectionRequestRepository defines the interface for collection request
// data operations
type CollectionRequestRepository interface {
	Create(ctx context.Context, request *entity.CollectionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CollectionRequest, error)
	GetByRequestNumber(ctx context.Context, requestNumber string) (*entity.CollectionRequest, error)
	// MarkPaidIf flips the request from Requested to Paid and records the
	// payment fields in the same statement, reporting false when the request
	// has already left Requested.
	MarkPaidIf(ctx context.Context, id uuid.UUID, info CashPaymentInfo) (bool, error)
	// CancelIf flips the request from Requested to Cancelled and records the
	// reason in the same statement.
	CancelIf(ctx context.Context, id uuid.UUID, reason *string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CollectionFilterParams) ([]entity.CollectionRequest, int64, error)
}

// CollectionFilterParams contains filtering parameters for collection request
// queries
type CollectionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.CollectionStatus
	CompanyID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
