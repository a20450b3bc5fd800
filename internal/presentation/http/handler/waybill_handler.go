package handler

import (
	"strconv"
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

const dateLayout = "2006-01-02"

// WaybillHandler handles waybill-related HTTP requests
type WaybillHandler struct {
	waybillService *service.WaybillService
}

// NewWaybillHandler creates a new waybill handler
func NewWaybillHandler(waybillService *service.WaybillService) *WaybillHandler {
	return &WaybillHandler{waybillService: waybillService}
}

func parseWaybillStatus(s string) (enum.WaybillStatus, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n <= 4 {
			return enum.WaybillStatus(n), true
		}
		return 0, false
	}
	for n := 0; n <= 4; n++ {
		if enum.WaybillStatus(n).String() == s {
			return enum.WaybillStatus(n), true
		}
	}
	return 0, false
}

// Create handles creating a waybill
func (h *WaybillHandler) Create(c *gin.Context) {
	var req request.CreateWaybillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	waybillDate, err := time.Parse(dateLayout, req.WaybillDate)
	if err != nil {
		response.BadRequest(c, "Waybill date must be in YYYY-MM-DD form")
		return
	}
	companyID, _ := uuid.Parse(req.CompanyID)
	driverID, _ := uuid.Parse(req.DriverID)

	input := &service.CreateWaybillInput{
		WaybillDate: waybillDate,
		CompanyID:   companyID,
		DriverID:    driverID,
		Fee:         req.Fee,
		Notes:       req.Notes,
	}
	for _, e := range req.ExtraExpenses {
		input.ExtraExpenses = append(input.ExtraExpenses, service.ExtraExpenseInput{
			Item:  e.Item,
			Fee:   e.Fee,
			Notes: e.Notes,
		})
	}

	waybill, err := h.waybillService.CreateWaybill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Waybill created successfully", waybill)
}

// List handles listing waybills with filters
func (h *WaybillHandler) List(c *gin.Context) {
	var filter request.WaybillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.WaybillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status, ok := parseWaybillStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Unknown waybill status")
			return
		}
		params.Status = &status
	}
	if filter.CompanyID != "" {
		if id, err := uuid.Parse(filter.CompanyID); err == nil {
			params.CompanyID = &id
		}
	}
	if filter.DriverID != "" {
		if id, err := uuid.Parse(filter.DriverID); err == nil {
			params.DriverID = &id
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

	waybills, total, err := h.waybillService.ListWaybills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(waybills,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Waybills retrieved successfully", result)
}

// Get handles getting a single waybill
func (h *WaybillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	waybill, err := h.waybillService.GetWaybill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill retrieved successfully", waybill)
}

// Update handles updating a waybill
func (h *WaybillHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	var req request.UpdateWaybillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateWaybillInput{
		Fee:   req.Fee,
		Notes: req.Notes,
	}
	if req.WaybillDate != nil {
		t, err := time.Parse(dateLayout, *req.WaybillDate)
		if err != nil {
			response.BadRequest(c, "Waybill date must be in YYYY-MM-DD form")
			return
		}
		input.WaybillDate = &t
	}
	if req.CompanyID != nil {
		cid, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			response.BadRequest(c, "Invalid company ID")
			return
		}
		input.CompanyID = &cid
	}
	if req.DriverID != nil {
		did, err := uuid.Parse(*req.DriverID)
		if err != nil {
			response.BadRequest(c, "Invalid driver ID")
			return
		}
		input.DriverID = &did
	}
	if req.ExtraExpenses != nil {
		expenses := make([]service.ExtraExpenseInput, 0, len(*req.ExtraExpenses))
		for _, e := range *req.ExtraExpenses {
			expenses = append(expenses, service.ExtraExpenseInput{
				Item:  e.Item,
				Fee:   e.Fee,
				Notes: e.Notes,
			})
		}
		input.ExtraExpenses = &expenses
	}

	waybill, err := h.waybillService.UpdateWaybill(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill updated successfully", waybill)
}

// Delete handles deleting a waybill
func (h *WaybillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	if err := h.waybillService.DeleteWaybill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill deleted successfully", nil)
}

// MarkNoInvoiceNeeded handles flagging a waybill as not requiring an invoice
func (h *WaybillHandler) MarkNoInvoiceNeeded(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	waybill, err := h.waybillService.MarkNoInvoiceNeeded(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill marked as no invoice needed", waybill)
}

// MarkNeedTax handles moving a waybill into the need-tax branch
func (h *WaybillHandler) MarkNeedTax(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	var req request.MarkNeedTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	waybill, err := h.waybillService.MarkNeedTax(c.Request.Context(), id, req.TaxAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill marked as needing tax", waybill)
}

// ToggleCashPayment handles flipping a waybill between tax unpaid and paid
func (h *WaybillHandler) ToggleCashPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	var req request.CashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.RecordCashPaymentInput{
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

	waybill, err := h.waybillService.ToggleCashPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill payment status updated", waybill)
}

// Restore handles returning a waybill to pending
func (h *WaybillHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	waybill, err := h.waybillService.RestoreWaybill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waybill restored", waybill)
}
