package request

// CreateCollectionRequest represents a create collection request payload
type CreateCollectionRequest struct {
	RequestDate string   `json:"request_date" binding:"required"`
	CompanyID   string   `json:"company_id" binding:"required,uuid"`
	TaxRate     float64  `json:"tax_rate" binding:"gte=0"`
	WaybillIDs  []string `json:"waybill_ids" binding:"required"`
	Notes       *string  `json:"notes"`
}

// CollectionFilterRequest represents collection request list query parameters
type CollectionFilterRequest struct {
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

// MarkCollectionPaidRequest represents a collection batch payment record
type MarkCollectionPaidRequest struct {
	ReceivedAt string `json:"received_at"`
	Method     string `json:"method"`
	Notes      string `json:"notes"`
}

// CancelCollectionRequest represents a collection cancellation
type CancelCollectionRequest struct {
	Reason *string `json:"reason"`
}
