package request

// SettlementExpenseRequest represents one expense line in a settlement save
type SettlementExpenseRequest struct {
	Kind   int     `json:"kind" binding:"gte=0,lte=1"`
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount"`
}

// SaveSettlementRequest represents a settlement create or update payload
type SaveSettlementRequest struct {
	DriverID         string                     `json:"driver_id" binding:"required,uuid"`
	TargetMonth      string                     `json:"target_month" binding:"required"`
	Income           float64                    `json:"income"`
	IncomeCash       float64                    `json:"income_cash"`
	FeeSplitAmount   float64                    `json:"fee_split_amount"`
	ProfitShareRatio float64                    `json:"profit_share_ratio"`
	Notes            *string                    `json:"notes"`
	Expenses         []SettlementExpenseRequest `json:"expenses"`
}

// InitializeSettlementRequest represents a settlement initialization payload
type InitializeSettlementRequest struct {
	DriverID    string `json:"driver_id" binding:"required,uuid"`
	TargetMonth string `json:"target_month" binding:"required"`
}

// SettlementFilterRequest represents settlement list query parameters
type SettlementFilterRequest struct {
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
	DriverID    string `form:"driver_id"`
	TargetMonth string `form:"target_month"`
	SortBy      string `form:"sort_by"`
	SortOrder   string `form:"sort_order"`
}
