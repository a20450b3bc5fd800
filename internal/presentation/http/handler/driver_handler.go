package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/application/service"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/request"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/response"
	"github.com/weicheng-hsu/truckbooks-api/pkg/pagination"
)

// DriverHandler handles driver-related HTTP requests
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// Create handles creating a driver
func (h *DriverHandler) Create(c *gin.Context) {
	var req request.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), &service.DriverInput{
		Name:                    req.Name,
		Phone:                   req.Phone,
		LicensePlate:            req.LicensePlate,
		DefaultProfitShareRatio: req.DefaultProfitShareRatio,
		Active:                  req.Active,
		Notes:                   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Driver created successfully", driver)
}

// List handles listing drivers
func (h *DriverHandler) List(c *gin.Context) {
	params := paginationFromQuery(c)
	search := c.Query("search")
	activeOnly := c.Query("active_only") == "true"

	drivers, total, err := h.driverService.ListDrivers(c.Request.Context(), params, search, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(drivers,
		pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Drivers retrieved successfully", result)
}

// Get handles getting a single driver
func (h *DriverHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	driver, err := h.driverService.GetDriver(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Driver retrieved successfully", driver)
}

// Update handles updating a driver
func (h *DriverHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	var req request.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	driver, err := h.driverService.UpdateDriver(c.Request.Context(), id, &service.DriverInput{
		Name:                    req.Name,
		Phone:                   req.Phone,
		LicensePlate:            req.LicensePlate,
		DefaultProfitShareRatio: req.DefaultProfitShareRatio,
		Active:                  req.Active,
		Notes:                   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Driver updated successfully", driver)
}

// Delete handles deleting a driver
func (h *DriverHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid driver ID")
		return
	}

	if err := h.driverService.DeleteDriver(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Driver deleted successfully", nil)
}
