package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/pkg/apperror"
)

// defaultCompanyExpenseNames seeds the company expense lines of a fresh
// settlement. The tax line is the derived one.
var defaultCompanyExpenseNames = []string{
	entity.TaxExpenseName,
	"油資",
	"保險",
}

// SettlementService handles driver settlement and fee split operations
type SettlementService struct {
	settlementRepo repository.DriverSettlementRepository
	driverRepo     repository.DriverRepository
	waybillRepo    repository.WaybillRepository
	feeSplitRepo   repository.FeeSplitRepository
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	settlementRepo repository.DriverSettlementRepository,
	driverRepo repository.DriverRepository,
	waybillRepo repository.WaybillRepository,
	feeSplitRepo repository.FeeSplitRepository,
) *SettlementService {
	return &SettlementService{
		settlementRepo: settlementRepo,
		driverRepo:     driverRepo,
		waybillRepo:    waybillRepo,
		feeSplitRepo:   feeSplitRepo,
	}
}

// SettlementExpenseInput represents one expense line in a save
type SettlementExpenseInput struct {
	Kind   enum.ExpenseKind
	Name   string
	Amount float64
}

// SaveSettlementInput represents the save settlement input. The expense set
// replaces the existing lines wholesale.
type SaveSettlementInput struct {
	DriverID         uuid.UUID
	TargetMonth      string
	Income           float64
	IncomeCash       float64
	FeeSplitAmount   float64
	ProfitShareRatio float64
	Notes            *string
	Expenses         []SettlementExpenseInput
}

// ApplyFeeSplitInput represents a fee transfer from one driver's waybill to
// another driver
type ApplyFeeSplitInput struct {
	WaybillID      uuid.UUID
	TargetDriverID uuid.UUID
	Amount         float64
	Notes          *string
}

// MonthlyIncome is the income prefill for one driver and month
type MonthlyIncome struct {
	DriverID       uuid.UUID `json:"driver_id"`
	TargetMonth    string    `json:"target_month"`
	WaybillFees    float64   `json:"waybill_fees"`
	OutgoingSplits float64   `json:"outgoing_splits"`
	IncomingSplits float64   `json:"incoming_splits"`
	Income         float64   `json:"income"`
}

func parseTargetMonth(targetMonth string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", targetMonth)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewBadRequestError("Target month must be in YYYY-MM form")
	}
	return start, start.AddDate(0, 1, 0), nil
}

// InitializeSettlement returns the existing settlement for the driver and
// month, or a draft seeded with the driver's default profit share ratio and
// the default company expense lines. The draft is not persisted until saved.
func (s *SettlementService) InitializeSettlement(ctx context.Context, driverID uuid.UUID, targetMonth string) (*entity.DriverSettlement, error) {
	if _, _, err := parseTargetMonth(targetMonth); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperror.NewNotFoundError("Driver")
	}

	existing, err := s.settlementRepo.GetByDriverAndMonth(ctx, driverID, targetMonth)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	ratio := driver.DefaultProfitShareRatio
	if ratio <= 0 || ratio > 100 {
		ratio = 50
	}

	income, err := s.ComputeMonthlyIncome(ctx, driverID, targetMonth)
	if err != nil {
		return nil, err
	}

	draft := &entity.DriverSettlement{
		DriverID:         driverID,
		TargetMonth:      targetMonth,
		Income:           income.Income,
		FeeSplitAmount:   income.IncomingSplits,
		ProfitShareRatio: ratio,
		Driver:           *driver,
	}
	for _, name := range defaultCompanyExpenseNames {
		draft.Expenses = append(draft.Expenses, entity.SettlementExpense{
			Kind: enum.ExpenseKindCompany,
			Name: name,
		})
	}
	draft.SyncTaxExpense()

	return draft, nil
}

// SaveSettlement creates or updates the settlement for (driver, month). The
// derived tax expense line is recomputed from income on every save, silently
// overwriting user edits to it.
func (s *SettlementService) SaveSettlement(ctx context.Context, input *SaveSettlementInput) (*entity.DriverSettlement, error) {
	if _, _, err := parseTargetMonth(input.TargetMonth); err != nil {
		return nil, err
	}
	if input.ProfitShareRatio < 0 || input.ProfitShareRatio > 100 {
		return nil, apperror.ErrInvalidRatio
	}

	driver, err := s.driverRepo.GetByID(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperror.NewNotFoundError("Driver")
	}

	existing, err := s.settlementRepo.GetByDriverAndMonth(ctx, input.DriverID, input.TargetMonth)
	if err != nil {
		return nil, err
	}

	settlement := existing
	if settlement == nil {
		settlement = &entity.DriverSettlement{
			DriverID:    input.DriverID,
			TargetMonth: input.TargetMonth,
		}
	}

	settlement.Income = input.Income
	settlement.IncomeCash = input.IncomeCash
	settlement.FeeSplitAmount = input.FeeSplitAmount
	settlement.ProfitShareRatio = input.ProfitShareRatio
	settlement.CalculationVersion = entity.SettlementCalculationVersion
	settlement.Notes = input.Notes

	expenses := make([]entity.SettlementExpense, 0, len(input.Expenses))
	for _, e := range input.Expenses {
		if e.Name == "" {
			return nil, apperror.NewBadRequestError("Expense name is required")
		}
		expenses = append(expenses, entity.SettlementExpense{
			Kind:   e.Kind,
			Name:   e.Name,
			Amount: e.Amount,
		})
	}
	settlement.Expenses = expenses
	settlement.SyncTaxExpense()

	if existing == nil {
		if err := s.settlementRepo.Create(ctx, settlement); err != nil {
			return nil, err
		}
	} else {
		if err := s.settlementRepo.Update(ctx, settlement); err != nil {
			return nil, err
		}
		if err := s.settlementRepo.ReplaceExpenses(ctx, settlement.ID, settlement.Expenses); err != nil {
			return nil, err
		}
	}

	return s.settlementRepo.GetByID(ctx, settlement.ID)
}

// CreateSettlement persists a new settlement, rejecting duplicates on the
// (driver, month) pair.
func (s *SettlementService) CreateSettlement(ctx context.Context, input *SaveSettlementInput) (*entity.DriverSettlement, error) {
	existing, err := s.settlementRepo.GetByDriverAndMonth(ctx, input.DriverID, input.TargetMonth)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateSettlement
	}
	return s.SaveSettlement(ctx, input)
}

// GetSettlement retrieves a settlement by ID
func (s *SettlementService) GetSettlement(ctx context.Context, id uuid.UUID) (*entity.DriverSettlement, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, apperror.NewNotFoundError("Settlement")
	}
	return settlement, nil
}

// ListSettlements retrieves settlements with filtering and pagination
func (s *SettlementService) ListSettlements(ctx context.Context, params *repository.SettlementFilterParams) ([]entity.DriverSettlement, int64, error) {
	return s.settlementRepo.List(ctx, params)
}

// DeleteSettlement removes a settlement and its expense lines
func (s *SettlementService) DeleteSettlement(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSettlement(ctx, id); err != nil {
		return err
	}
	return s.settlementRepo.Delete(ctx, id)
}

// ComputeMonthlyIncome aggregates a driver's waybill fees for the month,
// minus splits given away, plus splits received. Used to prefill settlement
// income.
func (s *SettlementService) ComputeMonthlyIncome(ctx context.Context, driverID uuid.UUID, targetMonth string) (*MonthlyIncome, error) {
	start, end, err := parseTargetMonth(targetMonth)
	if err != nil {
		return nil, err
	}

	fees, err := s.waybillRepo.SumFeesByDriver(ctx, driverID, start, end)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.feeSplitRepo.SumOutgoingByDriver(ctx, driverID, start, end)
	if err != nil {
		return nil, err
	}
	incoming, err := s.feeSplitRepo.SumIncomingByDriver(ctx, driverID, start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlyIncome{
		DriverID:       driverID,
		TargetMonth:    targetMonth,
		WaybillFees:    fees,
		OutgoingSplits: outgoing,
		IncomingSplits: incoming,
		Income:         fees - outgoing,
	}, nil
}

// ApplyFeeSplit transfers part of a waybill's fee to another driver. The
// split total across all targets can never exceed the waybill fee, and a
// target driver can hold at most one split per waybill.
func (s *SettlementService) ApplyFeeSplit(ctx context.Context, input *ApplyFeeSplitInput) (*entity.WaybillFeeSplit, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Split amount must be positive")
	}

	waybill, err := s.waybillRepo.GetByID(ctx, input.WaybillID)
	if err != nil {
		return nil, err
	}
	if waybill == nil {
		return nil, apperror.NewNotFoundError("Waybill")
	}

	target, err := s.driverRepo.GetByID(ctx, input.TargetDriverID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperror.NewNotFoundError("Target driver")
	}
	if input.TargetDriverID == waybill.DriverID {
		return nil, apperror.NewBadRequestError("Cannot split a waybill fee to its own driver")
	}

	for _, split := range waybill.FeeSplits {
		if split.TargetDriverID == input.TargetDriverID {
			return nil, apperror.ErrDuplicateSplitTarget
		}
	}

	allocated := waybill.SplitAllocated()
	if allocated+input.Amount > waybill.Fee {
		return nil, apperror.NewSplitExceedsFeeError(waybill.Fee, allocated, input.Amount)
	}

	split := &entity.WaybillFeeSplit{
		WaybillID:      input.WaybillID,
		DriverID:       waybill.DriverID,
		TargetDriverID: input.TargetDriverID,
		Amount:         input.Amount,
		Notes:          input.Notes,
	}
	if err := s.feeSplitRepo.Create(ctx, split); err != nil {
		return nil, err
	}

	return s.feeSplitRepo.GetByID(ctx, split.ID)
}

// ListFeeSplits retrieves the splits on one waybill
func (s *SettlementService) ListFeeSplits(ctx context.Context, waybillID uuid.UUID) ([]entity.WaybillFeeSplit, error) {
	waybill, err := s.waybillRepo.GetByID(ctx, waybillID)
	if err != nil {
		return nil, err
	}
	if waybill == nil {
		return nil, apperror.NewNotFoundError("Waybill")
	}
	return s.feeSplitRepo.GetByWaybillID(ctx, waybillID)
}

// RemoveFeeSplit deletes a split, returning the amount to the waybill's
// driver for future settlements
func (s *SettlementService) RemoveFeeSplit(ctx context.Context, id uuid.UUID) error {
	split, err := s.feeSplitRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if split == nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Fee split %s", id))
	}
	return s.feeSplitRepo.Delete(ctx, id)
}
