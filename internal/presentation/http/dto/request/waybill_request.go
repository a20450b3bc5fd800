package request

// ExtraExpenseRequest represents one ancillary charge on a waybill
type ExtraExpenseRequest struct {
	Item  string  `json:"item" binding:"required"`
	Fee   float64 `json:"fee" binding:"required,gte=0"`
	Notes *string `json:"notes"`
}

// CreateWaybillRequest represents a create waybill request
type CreateWaybillRequest struct {
	WaybillDate   string                `json:"waybill_date" binding:"required"`
	CompanyID     string                `json:"company_id" binding:"required,uuid"`
	DriverID      string                `json:"driver_id" binding:"required,uuid"`
	Fee           float64               `json:"fee" binding:"gte=0"`
	Notes         *string               `json:"notes"`
	ExtraExpenses []ExtraExpenseRequest `json:"extra_expenses"`
}

// UpdateWaybillRequest represents an update waybill request
type UpdateWaybillRequest struct {
	WaybillDate   *string                `json:"waybill_date"`
	CompanyID     *string                `json:"company_id"`
	DriverID      *string                `json:"driver_id"`
	Fee           *float64               `json:"fee"`
	Notes         *string                `json:"notes"`
	ExtraExpenses *[]ExtraExpenseRequest `json:"extra_expenses"`
}

// WaybillFilterRequest represents waybill list query parameters
type WaybillFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	CompanyID string `form:"company_id"`
	DriverID  string `form:"driver_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// MarkNeedTaxRequest represents the request moving a waybill into the
// need-tax branch
type MarkNeedTaxRequest struct {
	TaxAmount float64 `json:"tax_amount" binding:"gte=0"`
}

// CashPaymentRequest represents a cash tax payment record
type CashPaymentRequest struct {
	ReceivedAt string `json:"received_at"`
	Method     string `json:"method"`
	Notes      string `json:"notes"`
}

// ApplyFeeSplitRequest represents a fee split request on a waybill
type ApplyFeeSplitRequest struct {
	TargetDriverID string  `json:"target_driver_id" binding:"required,uuid"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Notes          *string `json:"notes"`
}
