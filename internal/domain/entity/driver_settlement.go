package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"gorm.io/gorm"
)

// TaxExpenseName is the company expense line whose amount is derived from
// invoice income (income x 0.05). User edits to it are overwritten whenever
// income changes.
const TaxExpenseName = "稅金"

// SettlementCalculationVersion is stamped on every saved settlement so the
// derivation formula can change later without reinterpreting old records.
const SettlementCalculationVersion = 1

// DriverSettlement is one driver's monthly profit-share statement. Every
// derived figure (total income, expense totals, bonus, final amount) is
// recomputed from the canonical inputs on read and never stored.
type DriverSettlement struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DriverID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_settlements_driver_month" json:"driver_id"`
	// TargetMonth is the settlement month in YYYY-MM form.
	TargetMonth string `gorm:"size:7;not null;uniqueIndex:idx_settlements_driver_month" json:"target_month"`
	// Income is invoice-based revenue for the month.
	Income float64 `gorm:"type:decimal(15,2);default:0" json:"income"`
	// IncomeCash is revenue the driver collected in cash and keeps until
	// settlement; it is deducted from the final payable amount.
	IncomeCash float64 `gorm:"type:decimal(15,2);default:0" json:"income_cash"`
	// FeeSplitAmount is inbound transfers from other drivers' fee splits.
	FeeSplitAmount     float64        `gorm:"type:decimal(15,2);default:0" json:"fee_split_amount"`
	ProfitShareRatio   float64        `gorm:"type:decimal(5,2);default:50" json:"profit_share_ratio"`
	CalculationVersion int            `gorm:"default:1" json:"calculation_version"`
	Notes              *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Driver   Driver              `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Expenses []SettlementExpense `gorm:"foreignKey:SettlementID" json:"expenses,omitempty"`
}

// BeforeCreate generates a UUID before creating a new settlement
func (s *DriverSettlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DriverSettlement model
func (DriverSettlement) TableName() string {
	return "driver_settlements"
}

// TotalIncome returns income plus cash income plus inbound fee splits
func (s *DriverSettlement) TotalIncome() float64 {
	return s.Income + s.IncomeCash + s.FeeSplitAmount
}

// CompanyTotal returns the sum of company expense lines
func (s *DriverSettlement) CompanyTotal() float64 {
	var total float64
	for _, e := range s.Expenses {
		if e.Kind == enum.ExpenseKindCompany {
			total += e.Amount
		}
	}
	return total
}

// PersonalTotal returns the sum of personal expense lines
func (s *DriverSettlement) PersonalTotal() float64 {
	var total float64
	for _, e := range s.Expenses {
		if e.Kind == enum.ExpenseKindPersonal {
			total += e.Amount
		}
	}
	return total
}

// ProfitableAmount returns total income minus all expenses. May be negative;
// no floor is applied.
func (s *DriverSettlement) ProfitableAmount() float64 {
	return s.TotalIncome() - s.CompanyTotal() - s.PersonalTotal()
}

// Bonus returns the driver's share of the profitable amount
func (s *DriverSettlement) Bonus() float64 {
	return s.ProfitableAmount() * s.ProfitShareRatio / 100
}

// FinalAmount returns the amount payable to the driver: bonus plus reimbursed
// personal expenses, minus cash already in the driver's hands.
func (s *DriverSettlement) FinalAmount() float64 {
	return s.Bonus() + s.PersonalTotal() - s.IncomeCash
}

// SyncTaxExpense recomputes the derived tax expense line from income. The
// line is only maintained while income is positive and a line named
// TaxExpenseName exists among the company expenses.
func (s *DriverSettlement) SyncTaxExpense() {
	if s.Income <= 0 {
		return
	}
	for i := range s.Expenses {
		if s.Expenses[i].Kind == enum.ExpenseKindCompany && s.Expenses[i].Name == TaxExpenseName {
			s.Expenses[i].Amount = s.Income * 0.05
		}
	}
}

// MarshalJSON includes the derived figures in API responses
func (s DriverSettlement) MarshalJSON() ([]byte, error) {
	type Alias DriverSettlement
	return json.Marshal(&struct {
		Alias
		TotalIncome      float64 `json:"total_income"`
		CompanyTotal     float64 `json:"company_total"`
		PersonalTotal    float64 `json:"personal_total"`
		ProfitableAmount float64 `json:"profitable_amount"`
		Bonus            float64 `json:"bonus"`
		FinalAmount      float64 `json:"final_amount"`
	}{
		Alias:            Alias(s),
		TotalIncome:      s.TotalIncome(),
		CompanyTotal:     s.CompanyTotal(),
		PersonalTotal:    s.PersonalTotal(),
		ProfitableAmount: s.ProfitableAmount(),
		Bonus:            s.Bonus(),
		FinalAmount:      s.FinalAmount(),
	})
}

// SettlementExpense is one named expense line on a settlement
type SettlementExpense struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SettlementID uuid.UUID        `gorm:"type:uuid;not null;index" json:"settlement_id"`
	Kind         enum.ExpenseKind `gorm:"default:0" json:"kind"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	Amount       float64          `gorm:"type:decimal(15,2);default:0" json:"amount"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	Settlement DriverSettlement `gorm:"foreignKey:SettlementID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new settlement expense
func (e *SettlementExpense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SettlementExpense model
func (SettlementExpense) TableName() string {
	return "settlement_expenses"
}
