package request

// CreateInvoiceRequest represents a create invoice request
type CreateInvoiceRequest struct {
	InvoiceNumber           string   `json:"invoice_number" binding:"required"`
	CompanyID               string   `json:"company_id" binding:"required,uuid"`
	InvoiceDate             string   `json:"invoice_date" binding:"required"`
	TaxRate                 *float64 `json:"tax_rate"`
	ExtraExpensesIncludeTax bool     `json:"extra_expenses_include_tax"`
	WaybillIDs              []string `json:"waybill_ids" binding:"required"`
	ExtraExpenseIDs         []string `json:"extra_expense_ids"`
	Notes                   *string  `json:"notes"`
}

// InvoiceFilterRequest represents invoice list query parameters
type InvoiceFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	CompanyID string `form:"company_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// MarkInvoicePaidRequest represents an invoice payment record
type MarkInvoicePaidRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaymentNote   *string `json:"payment_note"`
	PaidAt        *string `json:"paid_at"`
}
