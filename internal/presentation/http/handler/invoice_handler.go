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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func parseInvoiceStatus(s string) (enum.InvoiceStatus, bool) {
	for n := 0; n <= 2; n++ {
		if enum.InvoiceStatus(n).String() == s {
			return enum.InvoiceStatus(n), true
		}
	}
	return 0, false
}

func parseUUIDList(raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Create handles creating an invoice over a set of pending waybills
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoiceDate, err := time.Parse(dateLayout, req.InvoiceDate)
	if err != nil {
		response.BadRequest(c, "Invoice date must be in YYYY-MM-DD form")
		return
	}
	companyID, _ := uuid.Parse(req.CompanyID)
	waybillIDs, ok := parseUUIDList(req.WaybillIDs)
	if !ok {
		response.BadRequest(c, "Invalid waybill ID in list")
		return
	}
	extraExpenseIDs, ok := parseUUIDList(req.ExtraExpenseIDs)
	if !ok {
		response.BadRequest(c, "Invalid extra expense ID in list")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		InvoiceNumber:           req.InvoiceNumber,
		CompanyID:               companyID,
		InvoiceDate:             invoiceDate,
		TaxRate:                 req.TaxRate,
		ExtraExpensesIncludeTax: req.ExtraExpensesIncludeTax,
		WaybillIDs:              waybillIDs,
		ExtraExpenseIDs:         extraExpenseIDs,
		Notes:                   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// List handles listing invoices with filters
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status, ok := parseInvoiceStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Unknown invoice status")
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

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice with its lines
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Void handles voiding an invoice and releasing its waybills
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice voided", invoice)
}

// Restore handles re-issuing a voided invoice
func (h *InvoiceHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.RestoreInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice restored", invoice)
}

// MarkPaid handles recording an invoice payment
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.MarkInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.MarkInvoicePaidInput{
		PaymentMethod: req.PaymentMethod,
		PaymentNote:   req.PaymentNote,
	}
	if req.PaidAt != nil {
		t, err := time.Parse(dateLayout, *req.PaidAt)
		if err != nil {
			response.BadRequest(c, "Paid date must be in YYYY-MM-DD form")
			return
		}
		input.PaidAt = &t
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice marked as paid", invoice)
}

// Delete handles deleting a voided invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}
