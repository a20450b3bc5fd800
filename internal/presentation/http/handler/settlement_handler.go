package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/application/service"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/request"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/response"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// SettlementHandler handles driver settlement and fee split HTTP endpoints
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

func toSettlementInput(req *request.SaveSettlementRequest) (*service.SaveSettlementInput, error) {
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return nil, err
	}
	input := &service.SaveSettlementInput{
		DriverID:         driverID,
		TargetMonth:      req.TargetMonth,
		Income:           req.Income,
		IncomeCash:       req.IncomeCash,
		FeeSplitAmount:   req.FeeSplitAmount,
		ProfitShareRatio: req.ProfitShareRatio,
		Notes:            req.Notes,
	}
	for _, e := range req.Expenses {
		input.Expenses = append(input.Expenses, service.SettlementExpenseInput{
			Kind:   enum.ExpenseKind(e.Kind),
			Name:   e.Name,
			Amount: e.Amount,
		})
	}
	return input, nil
}

// Initialize handles building a settlement draft with prefilled income and
// seeded expense lines. Nothing is persisted.
func (h *SettlementHandler) Initialize(c *gin.Context) {
	var req request.InitializeSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	settlement, err := h.settlementService.InitializeSettlement(c.Request.Context(), driverID, req.TargetMonth)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement initialized", settlement)
}

// Create handles creating a settlement for a driver and month
func (h *SettlementHandler) Create(c *gin.Context) {
	var req request.SaveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := toSettlementInput(&req)
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	settlement, err := h.settlementService.CreateSettlement(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Settlement created successfully", settlement)
}

// Save handles upserting a settlement; the expense set replaces the existing
// lines wholesale
func (h *SettlementHandler) Save(c *gin.Context) {
	var req request.SaveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := toSettlementInput(&req)
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	settlement, err := h.settlementService.SaveSettlement(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement saved successfully", settlement)
}

// Get handles getting a single settlement with its expense lines
func (h *SettlementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid settlement ID")
		return
	}

	settlement, err := h.settlementService.GetSettlement(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement retrieved successfully", settlement)
}

// List handles listing settlements with filters
func (h *SettlementHandler) List(c *gin.Context) {
	var filter request.SettlementFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SettlementFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		TargetMonth: filter.TargetMonth,
		SortBy:      filter.SortBy,
		SortOrder:   filter.SortOrder,
	}
	if filter.DriverID != "" {
		if id, err := uuid.Parse(filter.DriverID); err == nil {
			params.DriverID = &id
		}
	}

	settlements, total, err := h.settlementService.ListSettlements(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(settlements,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Settlements retrieved successfully", result)
}

// Delete handles deleting a settlement and its expense lines
func (h *SettlementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid settlement ID")
		return
	}

	if err := h.settlementService.DeleteSettlement(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement deleted successfully", nil)
}

// MonthlyIncome handles computing a driver's income prefill for one month
func (h *SettlementHandler) MonthlyIncome(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("driverId"))
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}
	targetMonth := c.Query("target_month")
	if targetMonth == "" {
		response.BadRequest(c, "target_month is required")
		return
	}

	income, err := h.settlementService.ComputeMonthlyIncome(c.Request.Context(), driverID, targetMonth)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly income computed", income)
}

// ApplySplit handles transferring part of a waybill fee to another driver
func (h *SettlementHandler) ApplySplit(c *gin.Context) {
	waybillID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	var req request.ApplyFeeSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	targetDriverID, err := uuid.Parse(req.TargetDriverID)
	if err != nil {
		response.BadRequest(c, "Invalid target driver ID")
		return
	}

	split, err := h.settlementService.ApplyFeeSplit(c.Request.Context(), &service.ApplyFeeSplitInput{
		WaybillID:      waybillID,
		TargetDriverID: targetDriverID,
		Amount:         req.Amount,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fee split applied", split)
}

// ListSplits handles listing the fee splits on a waybill
func (h *SettlementHandler) ListSplits(c *gin.Context) {
	waybillID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid waybill ID")
		return
	}

	splits, err := h.settlementService.ListFeeSplits(c.Request.Context(), waybillID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee splits retrieved successfully", splits)
}

// RemoveSplit handles removing a fee split
func (h *SettlementHandler) RemoveSplit(c *gin.Context) {
	splitID, err := uuid.Parse(c.Param("splitId"))
	if err != nil {
		response.BadRequest(c, "Invalid split ID")
		return
	}

	if err := h.settlementService.RemoveFeeSplit(c.Request.Context(), splitID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee split removed", nil)
}
