package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/application/service"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/request"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/response"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// CollectionHandler handles collection request HTTP endpoints
type CollectionHandler struct {
	collectionService *service.CollectionService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func parseCollectionStatus(s string) (enum.CollectionStatus, bool) {
	for n := 0; n <= 2; n++ {
		if enum.CollectionStatus(n).String() == s {
			return enum.CollectionStatus(n), true
		}
	}
	return 0, false
}

// Create handles creating a collection request over a set of waybills
func (h *CollectionHandler) Create(c *gin.Context) {
	var req request.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	requestDate, err := time.Parse(dateLayout, req.RequestDate)
	if err != nil {
		response.BadRequest(c, "Request date must be in YYYY-MM-DD form")
		return
	}
	companyID, _ := uuid.Parse(req.CompanyID)
	waybillIDs, ok := parseUUIDList(req.WaybillIDs)
	if !ok {
		response.BadRequest(c, "Invalid waybill ID in list")
		return
	}

	collection, err := h.collectionService.CreateCollectionRequest(c.Request.Context(), &service.CreateCollectionInput{
		RequestDate: requestDate,
		CompanyID:   companyID,
		TaxRate:     req.TaxRate,
		WaybillIDs:  waybillIDs,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Collection request created successfully", collection)
}

// List handles listing collection requests with filters
func (h *CollectionHandler) List(c *gin.Context) {
	var filter request.CollectionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.CollectionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status, ok := parseCollectionStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Unknown collection status")
			return
		}
		params.Status = &status
	}
	if filter.CompanyID != "" {
		if id, err := uuid.Parse(filter.CompanyID); err == nil {
			params.CompanyID = &id
		}
	}
	if filter.StartDate != "" {
		if t, err := time.Parse(dateLayout, filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse(dateLayout, filter.EndDate); err == nil {
			params.EndDate = &t
		}
	}

	collections, total, err := h.collectionService.ListCollectionRequests(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(collections,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Collection requests retrieved successfully", result)
}

// Get handles getting a single collection request with its items
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection request ID")
		return
	}

	collection, err := h.collectionService.GetCollectionRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collection request retrieved successfully", collection)
}

// MarkPaid handles recording a batch payment. The response carries per-item
// outcomes; some waybills failing to flip does not fail the request.
func (h *CollectionHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection request ID")
		return
	}

	var req request.MarkCollectionPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.MarkCollectionPaidInput{
		Method: req.Method,
		Notes:  req.Notes,
	}
	if req.ReceivedAt != "" {
		t, err := time.Parse(dateLayout, req.ReceivedAt)
		if err != nil {
			response.BadRequest(c, "Received date must be in YYYY-MM-DD form")
			return
		}
		input.ReceivedAt = t
	}

	result, err := h.collectionService.MarkCollectionPaid(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}

// Cancel handles cancelling a requested collection batch
func (h *CollectionHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection request ID")
		return
	}

	var req request.CancelCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "Invalid request body")
		return
	}

	collection, err := h.collectionService.CancelCollectionRequest(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collection request cancelled", collection)
}

// Delete handles deleting a cancelled collection request
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection request ID")
		return
	}

	if err := h.collectionService.DeleteCollectionRequest(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collection request deleted successfully", nil)
}
