package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
	"github.com/weicheng-hsu/truckbooks-api/pkg/utils"
)

// CollectionService handles collection request operations
type CollectionService struct {
	collectionRepo repository.CollectionRequestRepository
	waybillRepo    repository.WaybillRepository
	companyRepo    repository.CompanyRepository
}

// NewCollectionService creates a new collection service
func NewCollectionService(
	collectionRepo repository.CollectionRequestRepository,
	waybillRepo repository.WaybillRepository,
	companyRepo repository.CompanyRepository,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		waybillRepo:    waybillRepo,
		companyRepo:    companyRepo,
	}
}

// CreateCollectionInput represents the create collection request input
type CreateCollectionInput struct {
	RequestDate time.Time
	CompanyID   uuid.UUID
	TaxRate     float64
	WaybillIDs  []uuid.UUID
	Notes       *string
}

// MarkCollectionPaidInput records how a collection batch was settled
type MarkCollectionPaidInput struct {
	ReceivedAt time.Time
	Method     string
	Notes      string
}

// ItemOutcome is the per-waybill result of a batch payment
type ItemOutcome struct {
	ItemID  uuid.UUID `json:"item_id"`
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
}

// BatchResult aggregates per-item outcomes of a batch payment. Partial
// failure is a success payload, not an error.
type BatchResult struct {
	Message       string        `json:"message"`
	AffectedCount int           `json:"affected_count"`
	Details       []ItemOutcome `json:"details"`
}

// CreateCollectionRequest creates a collection request over a set of
// waybills. Fees are snapshotted; waybills belonging to another company than
// the request are flagged, not rejected. Waybill statuses are untouched.
func (s *CollectionService) CreateCollectionRequest(ctx context.Context, input *CreateCollectionInput) (*entity.CollectionRequest, error) {
	if len(input.WaybillIDs) == 0 {
		return nil, apperror.ErrEmptyWaybillSet
	}

	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}

	if input.TaxRate < 0 {
		return nil, apperror.NewBadRequestError("Tax rate cannot be negative")
	}

	waybills, err := s.waybillRepo.GetByIDs(ctx, input.WaybillIDs)
	if err != nil {
		return nil, err
	}
	waybillMap := make(map[uuid.UUID]*entity.Waybill, len(waybills))
	for i := range waybills {
		waybillMap[waybills[i].ID] = &waybills[i]
	}

	request := &entity.CollectionRequest{
		RequestNumber: utils.GenerateReferenceNumber("CR"),
		RequestDate:   input.RequestDate,
		CompanyID:     input.CompanyID,
		TaxRate:       input.TaxRate,
		Status:        enum.CollectionStatusRequested,
		Notes:         input.Notes,
	}
	for _, id := range input.WaybillIDs {
		w, exists := waybillMap[id]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Waybill %s", id))
		}
		request.Items = append(request.Items, entity.CollectionRequestItem{
			WaybillID:          id,
			Fee:                w.Fee,
			IsDifferentCompany: w.CompanyID != input.CompanyID,
		})
	}

	if err := s.collectionRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return s.collectionRepo.GetByID(ctx, request.ID)
}

// GetCollectionRequest retrieves a collection request by ID
func (s *CollectionService) GetCollectionRequest(ctx context.Context, id uuid.UUID) (*entity.CollectionRequest, error) {
	request, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFoundError("Collection request")
	}
	return request, nil
}

// ListCollectionRequests retrieves collection requests with filtering and
// pagination
func (s *CollectionService) ListCollectionRequests(ctx context.Context, params *repository.CollectionFilterParams) ([]entity.CollectionRequest, int64, error) {
	return s.collectionRepo.List(ctx, params)
}

// MarkCollectionPaid records payment for the whole batch. Each waybill in the
// need-tax branch is flipped to paid individually; waybills that were deleted
// or moved on are reported as failures without blocking the rest. The request
// itself always transitions to Paid.
func (s *CollectionService) MarkCollectionPaid(ctx context.Context, id uuid.UUID, input *MarkCollectionPaidInput) (*BatchResult, error) {
	request, err := s.GetCollectionRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	info := repository.CashPaymentInfo{
		ReceivedAt: receivedAt,
		Method:     input.Method,
		Notes:      input.Notes,
	}

	// Claim the request transition before touching waybills so two
	// concurrent payments cannot both proceed.
	ok, err := s.collectionRepo.MarkPaidIf(ctx, id, info)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("collection request", request.Status.String(), enum.CollectionStatusPaid.String())
	}

	result := &BatchResult{}
	for _, item := range request.Items {
		waybill, err := s.waybillRepo.GetByID(ctx, item.WaybillID)
		if err != nil {
			return nil, err
		}
		if waybill == nil {
			result.Details = append(result.Details, ItemOutcome{
				ItemID:  item.WaybillID,
				Success: false,
				Message: "Waybill no longer exists",
			})
			continue
		}

		if waybill.Status != enum.WaybillStatusNeedTaxUnpaid {
			// Waybills outside the need-tax branch have nothing to flip;
			// collection covers them without a status change.
			result.AffectedCount++
			result.Details = append(result.Details, ItemOutcome{
				ItemID:  item.WaybillID,
				Success: true,
			})
			continue
		}

		ok, err := s.waybillRepo.MarkCashPaidIf(ctx, item.WaybillID, info)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Details = append(result.Details, ItemOutcome{
				ItemID:  item.WaybillID,
				Success: false,
				Message: "Waybill status changed during payment",
			})
			continue
		}
		result.AffectedCount++
		result.Details = append(result.Details, ItemOutcome{
			ItemID:  item.WaybillID,
			Success: true,
		})
	}

	failed := len(request.Items) - result.AffectedCount
	if failed > 0 {
		result.Message = fmt.Sprintf("Payment recorded with %d of %d waybills updated", result.AffectedCount, len(request.Items))
	} else {
		result.Message = "Payment recorded"
	}

	return result, nil
}

// CancelCollectionRequest cancels a requested batch. The waybills keep
// whatever status they have; their lifecycle is governed independently.
func (s *CollectionService) CancelCollectionRequest(ctx context.Context, id uuid.UUID, reason *string) (*entity.CollectionRequest, error) {
	request, err := s.GetCollectionRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.collectionRepo.CancelIf(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidTransitionError("collection request", request.Status.String(), enum.CollectionStatusCancelled.String())
	}

	return s.collectionRepo.GetByID(ctx, id)
}

// DeleteCollectionRequest soft deletes a cancelled request. Paid requests are
// the payment record and cannot be deleted.
func (s *CollectionService) DeleteCollectionRequest(ctx context.Context, id uuid.UUID) error {
	request, err := s.GetCollectionRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != enum.CollectionStatusCancelled {
		return apperror.NewConflictError("Only cancelled collection requests can be deleted")
	}
	return s.collectionRepo.Delete(ctx, id)
}
