package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/enum"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Waybills").
		Preload("Waybills.Waybill").
		Preload("ExtraExpenses").
		Preload("ExtraExpenses.ExtraExpense").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		First(&invoice, "company_id = ? AND invoice_number = ?", companyID, invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.InvoiceStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *invoiceRepository) MarkPaidIf(ctx context.Context, id uuid.UUID, info domainRepo.InvoicePaymentInfo) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND status = ?", id, enum.InvoiceStatusIssued).
		Updates(map[string]interface{}{
			"status":         enum.InvoiceStatusPaid,
			"paid_at":        info.PaidAt,
			"payment_method": info.Method,
			"payment_note":   info.Note,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.InvoiceWaybill{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&entity.InvoiceExtraExpense{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}

	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("invoice_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "invoice_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Company").
		Preload("Waybills").
		Preload("ExtraExpenses").
		Order(sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}
