package request

// CompanyRequest represents a company create or update payload
type CompanyRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	TaxID         *string `json:"tax_id"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

// UpdateCompanyRequest represents a company update payload; the name is
// optional here
type UpdateCompanyRequest struct {
	Name          string  `json:"name" binding:"max=255"`
	TaxID         *string `json:"tax_id"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

// DriverRequest represents a driver create payload
type DriverRequest struct {
	Name                    string   `json:"name" binding:"required,max=255"`
	Phone                   *string  `json:"phone"`
	LicensePlate            *string  `json:"license_plate"`
	DefaultProfitShareRatio *float64 `json:"default_profit_share_ratio"`
	Active                  *bool    `json:"active"`
	Notes                   *string  `json:"notes"`
}

// UpdateDriverRequest represents a driver update payload
type UpdateDriverRequest struct {
	Name                    string   `json:"name" binding:"max=255"`
	Phone                   *string  `json:"phone"`
	LicensePlate            *string  `json:"license_plate"`
	DefaultProfitShareRatio *float64 `json:"default_profit_share_ratio"`
	Active                  *bool    `json:"active"`
	Notes                   *string  `json:"notes"`
}
